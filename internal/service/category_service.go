package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type categoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

// CategoryService manages the article categories shown on the public site.
type CategoryService struct {
	repo     categoryStore
	activity activityRecorder
	logger   *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(repo categoryStore, activity activityRecorder, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, activity: activity, logger: logger}
}

// Create adds a new category.
func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest, actor *models.JWTClaims) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	category := &models.Category{Name: name, Slug: Slugify(name)}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	s.record(ctx, actor, models.ActivityActionCreate, category.ID)
	return category, nil
}

// Get loads one category.
func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load category")
	}
	return category, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id string, req dto.UpdateCategoryRequest, actor *models.JWTClaims) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Slug = Slugify(name)
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}
	s.record(ctx, actor, models.ActivityActionUpdate, category.ID)
	return category, nil
}

// Delete removes a category. Articles keep a dangling category_id cleared by
// the database foreign key action.
func (s *CategoryService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	s.record(ctx, actor, models.ActivityActionDelete, id)
	return nil
}

func (s *CategoryService) record(ctx context.Context, actor *models.JWTClaims, action, modelID string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, RecordParams{
		Actor:     actor,
		Action:    action,
		ModelType: "category",
		ModelID:   modelID,
	})
}

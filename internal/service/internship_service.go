package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type internshipStore interface {
	Create(ctx context.Context, app *models.InternshipApplication) error
	GetByID(ctx context.Context, id string) (*models.InternshipApplication, error)
	UpdateReview(ctx context.Context, app *models.InternshipApplication) error
	List(ctx context.Context, filter models.InternshipFilter) ([]models.InternshipApplication, int, error)
}

// InternshipService handles public internship applications and their review.
type InternshipService struct {
	repo     internshipStore
	activity activityRecorder
	logger   *zap.Logger
}

// NewInternshipService constructs the service.
func NewInternshipService(repo internshipStore, activity activityRecorder, logger *zap.Logger) *InternshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InternshipService{repo: repo, activity: activity, logger: logger}
}

// Apply records a public application.
func (s *InternshipService) Apply(ctx context.Context, req dto.CreateInternshipRequest) (*models.InternshipApplication, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full_name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	if strings.TrimSpace(req.Institution) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "institution is required")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}

	app := &models.InternshipApplication{
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		Institution:    strings.TrimSpace(req.Institution),
		Major:          strings.TrimSpace(req.Major),
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		PortfolioFiles: req.PortfolioFiles,
		Status:         models.InternshipStatusReceived,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record application")
	}
	return app, nil
}

// Get loads one application.
func (s *InternshipService) Get(ctx context.Context, id string) (*models.InternshipApplication, error) {
	return s.load(ctx, id)
}

// Review records an accept or reject decision with the reviewer's stamp.
func (s *InternshipService) Review(ctx context.Context, id string, req dto.ReviewInternshipRequest, actor *models.JWTClaims) (*models.InternshipApplication, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if req.Status != models.InternshipStatusAccepted && req.Status != models.InternshipStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be ACCEPTED or REJECTED")
	}

	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.InternshipStatusReceived {
		return nil, appErrors.Clone(appErrors.ErrConflict, "application already reviewed")
	}

	now := time.Now().UTC()
	app.Status = req.Status
	app.ReviewedBy = &actor.UserID
	app.ReviewedAt = &now
	if err := s.repo.UpdateReview(ctx, app); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review application")
	}

	if s.activity != nil {
		s.activity.Record(ctx, RecordParams{
			Actor:       actor,
			Action:      models.ActivityActionUpdate,
			ModelType:   "internship_application",
			ModelID:     app.ID,
			Description: string(req.Status),
		})
	}
	return app, nil
}

// List returns applications with pagination.
func (s *InternshipService) List(ctx context.Context, filter models.InternshipFilter) ([]models.InternshipApplication, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

func (s *InternshipService) load(ctx context.Context, id string) (*models.InternshipApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return app, nil
}

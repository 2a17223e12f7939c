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

type commentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateModeration(ctx context.Context, comment *models.Comment) error
	List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error)
	Delete(ctx context.Context, id string) error
}

type commentNewsStore interface {
	GetByID(ctx context.Context, id string) (*models.News, error)
}

// CommentService handles reader comments and their moderation. Approval and
// spam are independent flags; marking spam does not clear an earlier
// approval and vice versa.
type CommentService struct {
	repo     commentStore
	news     commentNewsStore
	activity activityRecorder
	logger   *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(repo commentStore, news commentNewsStore, activity activityRecorder, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{repo: repo, news: news, activity: activity, logger: logger}
}

// Create records a comment on a published article. Anonymous readers and
// authenticated staff both use this path; staff comments carry their role.
func (s *CommentService) Create(ctx context.Context, newsID string, req dto.CreateCommentRequest, actor *models.JWTClaims) (*models.Comment, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment body is required")
	}

	news, err := s.news.GetByID(ctx, newsID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "article not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load article")
	}
	if !news.IsPublished {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comments are only accepted on published articles")
	}

	comment := &models.Comment{
		NewsID:     news.ID,
		Body:       strings.TrimSpace(req.Body),
		AuthorName: strings.TrimSpace(req.AuthorName),
		UserType:   models.CommentAuthorAnonymous,
	}
	if actor != nil {
		comment.UserID = &actor.UserID
		comment.AuthorName = actor.FullName
		switch actor.Role {
		case models.RoleAdmin:
			comment.UserType = models.CommentAuthorAdmin
		case models.RoleWriter:
			comment.UserType = models.CommentAuthorWriter
		}
	}
	if comment.AuthorName == "" {
		comment.AuthorName = "Anonymous"
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	return comment, nil
}

// Approve marks a comment visible, stamping approved_at on first approval.
func (s *CommentService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Comment, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.IsApproved {
		now := time.Now().UTC()
		comment.IsApproved = true
		if comment.ApprovedAt == nil {
			comment.ApprovedAt = &now
		}
		if err := s.repo.UpdateModeration(ctx, comment); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve comment")
		}
		s.record(ctx, actor, models.ActivityActionApprove, comment.ID)
	}
	return comment, nil
}

// MarkSpam flags a comment as spam without touching its approval flag.
func (s *CommentService) MarkSpam(ctx context.Context, id string, actor *models.JWTClaims) (*models.Comment, error) {
	comment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.IsSpam {
		comment.IsSpam = true
		if err := s.repo.UpdateModeration(ctx, comment); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to flag comment")
		}
		s.record(ctx, actor, models.ActivityActionUpdate, comment.ID)
	}
	return comment, nil
}

// ListPublic returns approved, non-spam comments for one article.
func (s *CommentService) ListPublic(ctx context.Context, newsID string, page, pageSize int) ([]models.Comment, *models.Pagination, error) {
	approved := true
	spam := false
	filter := models.CommentFilter{
		NewsID:   newsID,
		Approved: &approved,
		Spam:     &spam,
		Page:     page,
		PageSize: pageSize,
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	return items, paginationFor(page, pageSize, total), nil
}

// List returns comments for moderation with arbitrary flag filters.
func (s *CommentService) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Delete removes a comment permanently.
func (s *CommentService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	s.record(ctx, actor, models.ActivityActionDelete, id)
	return nil
}

func (s *CommentService) load(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load comment")
	}
	return comment, nil
}

func (s *CommentService) record(ctx context.Context, actor *models.JWTClaims, action, modelID string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, RecordParams{
		Actor:     actor,
		Action:    action,
		ModelType: "comment",
		ModelID:   modelID,
	})
}

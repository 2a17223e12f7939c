package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

// slugAttempts caps the uniqueness loop so a pathological title cannot spin
// forever.
const slugAttempts = 50

type newsStore interface {
	Create(ctx context.Context, news *models.News) error
	GetByID(ctx context.Context, id string) (*models.News, error)
	GetBySlug(ctx context.Context, slug string) (*models.News, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, news *models.News) error
	List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error)
	ListDueScheduled(ctx context.Context, now time.Time) ([]models.News, error)
	SoftDelete(ctx context.Context, id string, now time.Time) error
	Restore(ctx context.Context, id string, now time.Time) error
}

type newsNotifier interface {
	NewsApproved(ctx context.Context, news *models.News) bool
	NewsRejected(ctx context.Context, news *models.News, reason string) bool
	NewsPublished(ctx context.Context, news *models.News) bool
}

type activityRecorder interface {
	Record(ctx context.Context, params RecordParams)
}

type cachedNewsPage struct {
	Items []models.News `json:"items"`
	Total int           `json:"total"`
}

// NewsService orchestrates the article lifecycle: drafting, review,
// publication, scheduling, and soft deletion.
type NewsService struct {
	repo     newsStore
	activity activityRecorder
	notifier newsNotifier
	cache    *NewsCache
	logger   *zap.Logger
}

// NewNewsService constructs the service. Notifier and cache may be nil.
func NewNewsService(repo newsStore, activity activityRecorder, notifier newsNotifier, cache *NewsCache, logger *zap.Logger) *NewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsService{repo: repo, activity: activity, notifier: notifier, cache: cache, logger: logger}
}

// Create drafts a new article owned by the acting writer.
func (s *NewsService) Create(ctx context.Context, req dto.CreateNewsRequest, actor *models.JWTClaims) (*models.News, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "body is required")
	}

	slug, err := s.uniqueSlug(ctx, req.Title, "")
	if err != nil {
		return nil, err
	}

	news := &models.News{
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug,
		Excerpt:     strings.TrimSpace(req.Excerpt),
		Body:        req.Body,
		CoverPath:   req.CoverPath,
		CategoryID:  req.CategoryID,
		AuthorEmail: req.AuthorEmail,
		Status:      models.NewsStatusDraft,
		WriterID:    actor.UserID,
	}
	if err := s.repo.Create(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create article")
	}

	s.record(ctx, actor, models.ActivityActionCreate, news.ID, nil, fmt.Sprintf("drafted %q", news.Title))
	return news, nil
}

// Get loads one article enforcing ownership for writers.
func (s *NewsService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role == models.RoleWriter && news.WriterID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	return news, nil
}

// GetPublishedBySlug resolves a live, published article for the public site.
func (s *NewsService) GetPublishedBySlug(ctx context.Context, slug string) (*models.News, error) {
	news, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load article")
	}
	if !news.IsPublished {
		return nil, appErrors.ErrNotFound
	}
	return news, nil
}

// Update applies partial edits, regenerating the slug when the title changes.
func (s *NewsService) Update(ctx context.Context, id string, req dto.UpdateNewsRequest, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleWriter && news.WriterID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}

	oldVals := map[string]interface{}{
		"title":   news.Title,
		"excerpt": news.Excerpt,
		"body":    news.Body,
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" && *req.Title != news.Title {
		news.Title = strings.TrimSpace(*req.Title)
		slug, err := s.uniqueSlug(ctx, news.Title, news.ID)
		if err != nil {
			return nil, err
		}
		news.Slug = slug
	}
	if req.Excerpt != nil {
		news.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Body != nil {
		news.Body = *req.Body
	}
	if req.CoverPath != nil {
		news.CoverPath = req.CoverPath
	}
	if req.CategoryID != nil {
		news.CategoryID = req.CategoryID
	}
	if req.AuthorEmail != nil {
		news.AuthorEmail = req.AuthorEmail
	}

	if err := s.repo.Update(ctx, news); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update article")
	}

	newVals := map[string]interface{}{
		"title":   news.Title,
		"excerpt": news.Excerpt,
		"body":    news.Body,
	}
	s.record(ctx, actor, models.ActivityActionUpdate, news.ID, DiffChanges(oldVals, newVals), "")
	if news.IsPublished {
		s.invalidate(ctx)
	}
	return news, nil
}

// Submit moves a draft or rejected article into review.
func (s *NewsService) Submit(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleWriter && news.WriterID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	if news.Status != models.NewsStatusDraft && news.Status != models.NewsStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only draft or rejected articles can be submitted")
	}

	news.Status = models.NewsStatusPending
	news.RejectedAt = nil
	news.RejectionReason = nil
	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit article")
	}
	s.record(ctx, actor, models.ActivityActionUpdate, news.ID, nil, "submitted for review")
	return news, nil
}

// Approve marks a pending article as passed review.
func (s *NewsService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if news.Status != models.NewsStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending articles can be approved")
	}

	now := time.Now().UTC()
	news.Status = models.NewsStatusApproved
	news.ApprovedBy = &actor.UserID
	news.ApprovedAt = &now
	news.RejectedAt = nil
	news.RejectionReason = nil
	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve article")
	}

	s.record(ctx, actor, models.ActivityActionApprove, news.ID, nil, "")
	if s.notifier != nil {
		s.notifier.NewsApproved(ctx, news)
	}
	return news, nil
}

// Reject returns a pending article to the writer with a reason.
func (s *NewsService) Reject(ctx context.Context, id string, req dto.RejectNewsRequest, actor *models.JWTClaims) (*models.News, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if news.Status != models.NewsStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending articles can be rejected")
	}

	now := time.Now().UTC()
	reason := strings.TrimSpace(req.Reason)
	news.Status = models.NewsStatusRejected
	news.RejectedAt = &now
	news.RejectionReason = &reason
	news.ApprovedBy = nil
	news.ApprovedAt = nil
	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject article")
	}

	s.record(ctx, actor, models.ActivityActionReject, news.ID, nil, reason)
	if s.notifier != nil {
		s.notifier.NewsRejected(ctx, news, reason)
	}
	return news, nil
}

// Publish puts an approved article live. The published_at timestamp is a
// one-way stamp set on first publication only.
func (s *NewsService) Publish(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if news.Status != models.NewsStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only approved articles can be published")
	}
	if news.IsPublished {
		return news, nil
	}

	s.stampPublished(news, time.Now().UTC())
	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish article")
	}

	s.record(ctx, actor, models.ActivityActionPublish, news.ID, nil, "")
	if s.notifier != nil {
		s.notifier.NewsPublished(ctx, news)
	}
	s.invalidate(ctx)
	return news, nil
}

// Unpublish takes an article off the public site. published_at is retained.
func (s *NewsService) Unpublish(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !news.IsPublished {
		return news, nil
	}

	news.IsPublished = false
	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unpublish article")
	}

	s.record(ctx, actor, models.ActivityActionUnpublish, news.ID, nil, "")
	s.invalidate(ctx)
	return news, nil
}

// Schedule queues an approved article for future publication.
func (s *NewsService) Schedule(ctx context.Context, id string, req dto.ScheduleNewsRequest, actor *models.JWTClaims) (*models.News, error) {
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if news.Status != models.NewsStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only approved articles can be scheduled")
	}
	if news.IsPublished {
		return nil, appErrors.Clone(appErrors.ErrConflict, "article is already published")
	}
	if !req.PublishAt.After(time.Now().UTC()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "publish time must be in the future")
	}

	publishAt := req.PublishAt.UTC()
	news.IsScheduled = true
	news.ScheduledPublishAt = &publishAt
	if err := s.repo.Update(ctx, news); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule article")
	}

	s.record(ctx, actor, models.ActivityActionSchedule, news.ID, nil, publishAt.Format(time.RFC3339))
	return news, nil
}

// List returns articles for authenticated consumers. Writers only see their
// own work.
func (s *NewsService) List(ctx context.Context, filter models.NewsFilter, actor *models.JWTClaims) ([]models.News, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleWriter {
		filter.WriterID = actor.UserID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list articles")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ListPublished serves the public listing, backed by the Redis cache.
func (s *NewsService) ListPublished(ctx context.Context, filter models.NewsFilter) ([]models.News, *models.Pagination, error) {
	filter.PublishedOnly = true
	filter.Status = models.NewsStatusApproved

	key := fmt.Sprintf("%d:%d:%s:%s", filter.Page, filter.PageSize, filter.CategoryID, filter.Search)
	if s.cache != nil {
		var cached cachedNewsPage
		if s.cache.Get(ctx, key, &cached) {
			return cached.Items, paginationFor(filter.Page, filter.PageSize, cached.Total), nil
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list published articles")
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, cachedNewsPage{Items: items, Total: total})
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Delete soft-deletes an article. A concurrent or repeated delete surfaces
// as already-deleted.
func (s *NewsService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	news, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if actor != nil && actor.Role == models.RoleWriter && news.WriterID != actor.UserID {
		return appErrors.ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrAlreadyDeleted, "article already deleted")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete article")
	}
	s.record(ctx, actor, models.ActivityActionDelete, id, nil, "")
	if news.IsPublished {
		s.invalidate(ctx)
	}
	return nil
}

// Restore brings a soft-deleted article back.
func (s *NewsService) Restore(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error) {
	if err := s.repo.Restore(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no deleted article with that id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore article")
	}
	news, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, models.ActivityActionRestore, id, nil, "")
	return news, nil
}

// PublishDue publishes every scheduled article whose publish time has
// passed. Returns the number of articles published.
func (s *NewsService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListDueScheduled(ctx, now)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list due articles")
	}

	published := 0
	for i := range due {
		news := &due[i]
		// Backfill published_at with the scheduled moment, not the tick time.
		publishAt := now
		if news.ScheduledPublishAt != nil {
			publishAt = *news.ScheduledPublishAt
		}
		s.stampPublished(news, publishAt)
		if err := s.repo.Update(ctx, news); err != nil {
			s.logger.Warn("failed to publish scheduled article",
				zap.String("news_id", news.ID), zap.Error(err))
			continue
		}
		published++
		if s.notifier != nil {
			s.notifier.NewsPublished(ctx, news)
		}
	}
	if published > 0 {
		s.invalidate(ctx)
	}
	return published, nil
}

// stampPublished flips the publish flags. published_at is only written the
// first time an article goes live.
func (s *NewsService) stampPublished(news *models.News, now time.Time) {
	news.IsPublished = true
	news.IsScheduled = false
	news.ScheduledPublishAt = nil
	if news.PublishedAt == nil {
		news.PublishedAt = &now
	}
}

func (s *NewsService) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "news"
	}
	candidate := base
	for attempt := 1; attempt <= slugAttempts; attempt++ {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", appErrors.Clone(appErrors.ErrConflict, "could not derive a unique slug")
}

func (s *NewsService) load(ctx context.Context, id string) (*models.News, error) {
	news, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load article")
	}
	return news, nil
}

func (s *NewsService) record(ctx context.Context, actor *models.JWTClaims, action, modelID string, changes []byte, description string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, RecordParams{
		Actor:       actor,
		Action:      action,
		ModelType:   "news",
		ModelID:     modelID,
		Changes:     changes,
		Description: description,
	})
}

func (s *NewsService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}

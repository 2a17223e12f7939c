package service

import (
	"context"
	"encoding/json"
	"reflect"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type activityStore interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, int, error)
}

// RecordParams describes one auditable event.
type RecordParams struct {
	Actor       *models.JWTClaims
	Action      string
	ModelType   string
	ModelID     string
	Changes     []byte
	Description string
	IPAddress   string
	UserAgent   string
}

// ActivityService appends to and reads the audit trail. Recording is
// best-effort: a failed write is logged and never surfaces to the caller.
type ActivityService struct {
	repo   activityStore
	logger *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(repo activityStore, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger}
}

type requestMetaKey struct{}

// RequestMeta carries client details captured by the HTTP layer for the
// audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches client details to the context so deep service
// calls can record them without threading extra arguments.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// Record appends an audit-trail entry. Events without an actor are dropped
// silently, so system-internal mutations do not pollute the trail.
func (s *ActivityService) Record(ctx context.Context, params RecordParams) {
	if params.Actor == nil {
		return
	}
	if params.IPAddress == "" && params.UserAgent == "" {
		meta := requestMetaFromContext(ctx)
		params.IPAddress = meta.IPAddress
		params.UserAgent = meta.UserAgent
	}
	userType := string(params.Actor.Role)
	entry := &models.ActivityLog{
		UserID:      &params.Actor.UserID,
		UserType:    &userType,
		Action:      params.Action,
		ModelType:   params.ModelType,
		Changes:     params.Changes,
		Description: params.Description,
		IPAddress:   params.IPAddress,
		UserAgent:   params.UserAgent,
	}
	if params.ModelID != "" {
		entry.ModelID = &params.ModelID
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to persist activity log",
			zap.String("action", params.Action),
			zap.String("model_type", params.ModelType),
			zap.Error(err))
	}
}

// List returns audit-trail entries with pagination metadata.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity logs")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// DiffChanges produces a JSON blob of per-field old/new pairs. Only keys
// present in both maps with differing values are included; nil is returned
// when nothing changed.
func DiffChanges(oldVals, newVals map[string]interface{}) []byte {
	diff := make(map[string]map[string]interface{})
	for key, oldValue := range oldVals {
		newValue, ok := newVals[key]
		if !ok {
			continue
		}
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		diff[key] = map[string]interface{}{"old": oldValue, "new": newValue}
	}
	if len(diff) == 0 {
		return nil
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		return nil
	}
	return payload
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/pkg/config"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/storage"
)

type mediaStore interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, id string) (*models.Media, error)
	Update(ctx context.Context, media *models.Media) error
	List(ctx context.Context, filter models.MediaFilter) ([]models.Media, int, error)
	SoftDelete(ctx context.Context, id string, now time.Time) error
}

type mediaNewsStore interface {
	GetByID(ctx context.Context, id string) (*models.News, error)
}

// UploadParams carries one incoming file.
type UploadParams struct {
	NewsID            string
	FileName          string
	ContentType       string
	Size              int64
	PositionInArticle int
	Reader            io.Reader
}

// MediaService stores uploads on disk and tracks their review state. Files
// live under <storage>/news/<newsID>/, the database holds the relative path.
type MediaService struct {
	repo    mediaStore
	news    mediaNewsStore
	files   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	cfg     config.UploadsConfig
	baseURL string
	logger  *zap.Logger
}

// NewMediaService constructs the service.
func NewMediaService(repo mediaStore, news mediaNewsStore, files *storage.LocalStorage, signer *storage.SignedURLSigner, cfg config.UploadsConfig, baseURL string, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaService{repo: repo, news: news, files: files, signer: signer, cfg: cfg, baseURL: baseURL, logger: logger}
}

// Upload validates and stores one file attached to an article. New uploads
// always start unapproved.
func (s *MediaService) Upload(ctx context.Context, params UploadParams, actor *models.JWTClaims) (*models.Media, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if params.NewsID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "news_id is required")
	}
	if params.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if params.Size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrUploadTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", s.cfg.MaxFileSizeBytes))
	}
	mediaType, err := s.classify(params.ContentType)
	if err != nil {
		return nil, err
	}

	news, err := s.news.GetByID(ctx, params.NewsID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "article not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load article")
	}
	if actor.Role == models.RoleWriter && news.WriterID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}

	mediaID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(params.FileName))
	relPath := fmt.Sprintf("news/%s/%s%s", news.ID, mediaID, ext)

	written, err := s.files.SaveStream(relPath, io.LimitReader(params.Reader, s.cfg.MaxFileSizeBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}
	if written > s.cfg.MaxFileSizeBytes {
		if err := s.files.Delete(relPath); err != nil {
			s.logger.Warn("failed to remove oversized upload", zap.String("path", relPath), zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrUploadTooLarge,
			fmt.Sprintf("file exceeds the %d byte limit", s.cfg.MaxFileSizeBytes))
	}

	media := &models.Media{
		ID:                mediaID,
		NewsID:            news.ID,
		MediaType:         mediaType,
		FilePath:          relPath,
		FileSize:          written,
		PositionInArticle: params.PositionInArticle,
		UploadedBy:        actor.UserID,
		UploadedAt:        time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, media); err != nil {
		if cleanupErr := s.files.Delete(relPath); cleanupErr != nil {
			s.logger.Warn("failed to clean up orphan upload", zap.String("path", relPath), zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record upload")
	}
	return media, nil
}

// Get returns one media row.
func (s *MediaService) Get(ctx context.Context, id string) (*models.Media, error) {
	return s.load(ctx, id)
}

// Approve stamps admin sign-off on an upload. Approval is one-time; the
// original approval stamp is retained on repeats.
func (s *MediaService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Media, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	media, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if media.IsApproved {
		return media, nil
	}

	media.IsApproved = true
	media.ApprovedBy = &actor.UserID
	media.RejectionReason = nil
	if media.ApprovedAt == nil {
		now := time.Now().UTC()
		media.ApprovedAt = &now
	}
	if err := s.repo.Update(ctx, media); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve media")
	}
	return media, nil
}

// Reject withdraws or denies approval with a reason.
func (s *MediaService) Reject(ctx context.Context, id string, req dto.RejectMediaRequest, actor *models.JWTClaims) (*models.Media, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	media, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	media.IsApproved = false
	media.RejectionReason = &reason
	if err := s.repo.Update(ctx, media); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject media")
	}
	return media, nil
}

// List returns media rows, scoping writers to their own uploads.
func (s *MediaService) List(ctx context.Context, filter models.MediaFilter, actor *models.JWTClaims) ([]models.Media, *models.Pagination, error) {
	if actor != nil && actor.Role == models.RoleWriter {
		filter.UploadedBy = actor.UserID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Delete soft-deletes a media row. The file itself is kept for restore.
func (s *MediaService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	media, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if actor != nil && actor.Role == models.RoleWriter && media.UploadedBy != actor.UserID {
		return appErrors.ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrAlreadyDeleted, "media already deleted")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete media")
	}
	return nil
}

// PublicURL returns the stable public path for an approved file.
func (s *MediaService) PublicURL(media *models.Media) string {
	return storage.PublicPath(s.baseURL, media.FilePath)
}

// SignedURL returns a time-limited download token for a stored file. Used
// for unapproved uploads that must not be publicly addressable.
func (s *MediaService) SignedURL(media *models.Media) (string, time.Time, error) {
	if s.signer == nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrInternal, "signed downloads are not configured")
	}
	token, expiresAt, err := s.signer.Generate(media.ID, media.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return token, expiresAt, nil
}

// OpenSigned validates a download token and opens the referenced file.
func (s *MediaService) OpenSigned(ctx context.Context, token string) (*os.File, *models.Media, error) {
	if s.signer == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrInternal, "signed downloads are not configured")
	}
	mediaID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	media, err := s.load(ctx, mediaID)
	if err != nil {
		return nil, nil, err
	}
	if media.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "download token does not match file")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "stored file missing")
	}
	return file, media, nil
}

func (s *MediaService) classify(contentType string) (models.MediaType, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	allowed := false
	for _, mime := range s.cfg.AllowedMIMEs {
		if contentType == strings.ToLower(mime) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", appErrors.Clone(appErrors.ErrUnsupportedMedia,
			fmt.Sprintf("content type %s is not allowed", contentType))
	}
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, nil
	default:
		return models.MediaTypeDocument, nil
	}
}

func (s *MediaService) load(ctx context.Context, id string) (*models.Media, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	return media, nil
}

package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/pkg/config"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/storage"
)

type mediaRepoStub struct {
	items map[string]*models.Media
}

func newMediaRepoStub() *mediaRepoStub {
	return &mediaRepoStub{items: make(map[string]*models.Media)}
}

func (r *mediaRepoStub) Create(ctx context.Context, media *models.Media) error {
	copy := *media
	r.items[media.ID] = &copy
	return nil
}

func (r *mediaRepoStub) GetByID(ctx context.Context, id string) (*models.Media, error) {
	if m, ok := r.items[id]; ok && m.DeletedAt == nil {
		copy := *m
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *mediaRepoStub) Update(ctx context.Context, media *models.Media) error {
	if _, ok := r.items[media.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *media
	r.items[media.ID] = &copy
	return nil
}

func (r *mediaRepoStub) List(ctx context.Context, filter models.MediaFilter) ([]models.Media, int, error) {
	var result []models.Media
	for _, m := range r.items {
		if m.DeletedAt == nil {
			result = append(result, *m)
		}
	}
	return result, len(result), nil
}

func (r *mediaRepoStub) SoftDelete(ctx context.Context, id string, now time.Time) error {
	m, ok := r.items[id]
	if !ok || m.DeletedAt != nil {
		return sql.ErrNoRows
	}
	m.DeletedAt = &now
	return nil
}

func testUploadsConfig() config.UploadsConfig {
	return config.UploadsConfig{
		MaxFileSizeBytes: 64,
		AllowedMIMEs:     []string{"image/jpeg", "application/pdf"},
	}
}

func newTestMediaService(t *testing.T, repo *mediaRepoStub, news *newsRepoStub) *MediaService {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewMediaService(repo, news, files, signer, testUploadsConfig(), "", nil)
}

func uploadFor(newsID, content string) UploadParams {
	return UploadParams{
		NewsID:      newsID,
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestMediaServiceUploadStartsUnapproved(t *testing.T) {
	repo := newMediaRepoStub()
	news := newNewsRepoStub()
	news.items["news-1"] = &models.News{ID: "news-1", WriterID: "writer-1"}
	svc := newTestMediaService(t, repo, news)

	media, err := svc.Upload(context.Background(), uploadFor("news-1", "jpegbytes"), writerClaims("writer-1"))
	require.NoError(t, err)
	require.False(t, media.IsApproved)
	require.Equal(t, models.MediaTypeImage, media.MediaType)
	require.Equal(t, int64(len("jpegbytes")), media.FileSize)
	require.Equal(t, "writer-1", media.UploadedBy)

	// The bytes are retrievable through a signed token.
	token, _, err := svc.SignedURL(media)
	require.NoError(t, err)
	file, got, err := svc.OpenSigned(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	require.Equal(t, media.ID, got.ID)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "jpegbytes", string(data))
}

func TestMediaServiceUploadRejectsUnsupportedType(t *testing.T) {
	repo := newMediaRepoStub()
	news := newNewsRepoStub()
	news.items["news-1"] = &models.News{ID: "news-1", WriterID: "writer-1"}
	svc := newTestMediaService(t, repo, news)

	params := uploadFor("news-1", "exebytes")
	params.ContentType = "application/x-msdownload"
	_, err := svc.Upload(context.Background(), params, writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUnsupportedMedia.Code, appErrors.FromError(err).Code)
}

func TestMediaServiceUploadRejectsOversizedFile(t *testing.T) {
	repo := newMediaRepoStub()
	news := newNewsRepoStub()
	news.items["news-1"] = &models.News{ID: "news-1", WriterID: "writer-1"}
	svc := newTestMediaService(t, repo, news)

	// The declared size passes but the stream is larger than the limit.
	content := strings.Repeat("x", 100)
	params := uploadFor("news-1", content)
	params.Size = 10
	_, err := svc.Upload(context.Background(), params, writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUploadTooLarge.Code, appErrors.FromError(err).Code)
	require.Empty(t, repo.items)
}

func TestMediaServiceUploadOwnershipCheck(t *testing.T) {
	repo := newMediaRepoStub()
	news := newNewsRepoStub()
	news.items["news-1"] = &models.News{ID: "news-1", WriterID: "writer-2"}
	svc := newTestMediaService(t, repo, news)

	_, err := svc.Upload(context.Background(), uploadFor("news-1", "jpegbytes"), writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMediaServiceApproveIsOneTime(t *testing.T) {
	repo := newMediaRepoStub()
	news := newNewsRepoStub()
	svc := newTestMediaService(t, repo, news)
	repo.items["m1"] = &models.Media{ID: "m1", NewsID: "news-1", UploadedBy: "writer-1"}

	approved, err := svc.Approve(context.Background(), "m1", adminClaims())
	require.NoError(t, err)
	require.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedAt)
	firstStamp := *approved.ApprovedAt

	again, err := svc.Approve(context.Background(), "m1", adminClaims())
	require.NoError(t, err)
	require.Equal(t, firstStamp, *again.ApprovedAt)

	// A reject and re-approve cycle keeps the original stamp too.
	rejected, err := svc.Reject(context.Background(), "m1", dto.RejectMediaRequest{Reason: "wrong crop"}, adminClaims())
	require.NoError(t, err)
	require.False(t, rejected.IsApproved)

	reapproved, err := svc.Approve(context.Background(), "m1", adminClaims())
	require.NoError(t, err)
	require.True(t, reapproved.IsApproved)
	require.Nil(t, reapproved.RejectionReason)
	require.Equal(t, firstStamp, *reapproved.ApprovedAt)
}

func TestMediaServiceRejectRequiresReason(t *testing.T) {
	repo := newMediaRepoStub()
	svc := newTestMediaService(t, repo, newNewsRepoStub())
	repo.items["m1"] = &models.Media{ID: "m1", IsApproved: true}

	_, err := svc.Reject(context.Background(), "m1", dto.RejectMediaRequest{Reason: " "}, adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	rejected, err := svc.Reject(context.Background(), "m1", dto.RejectMediaRequest{Reason: "blurry"}, adminClaims())
	require.NoError(t, err)
	require.False(t, rejected.IsApproved)
	require.Equal(t, "blurry", *rejected.RejectionReason)
}

package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type fakeCommentSrv struct {
	item       *models.Comment
	err        error
	lastNewsID string
	lastID     string
	lastReq    dto.CreateCommentRequest
	lastActor  *models.JWTClaims
	lastFilter models.CommentFilter
}

func (f *fakeCommentSrv) Create(_ context.Context, newsID string, req dto.CreateCommentRequest, actor *models.JWTClaims) (*models.Comment, error) {
	f.lastNewsID = newsID
	f.lastReq = req
	f.lastActor = actor
	return f.item, f.err
}

func (f *fakeCommentSrv) Approve(_ context.Context, id string, _ *models.JWTClaims) (*models.Comment, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeCommentSrv) MarkSpam(_ context.Context, id string, _ *models.JWTClaims) (*models.Comment, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeCommentSrv) ListPublic(_ context.Context, newsID string, page, pageSize int) ([]models.Comment, *models.Pagination, error) {
	f.lastNewsID = newsID
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.Comment{*f.item}, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: 1}, nil
}

func (f *fakeCommentSrv) List(_ context.Context, filter models.CommentFilter) ([]models.Comment, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.Comment{*f.item}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (f *fakeCommentSrv) Delete(_ context.Context, id string, _ *models.JWTClaims) error {
	f.lastID = id
	return f.err
}

func TestCommentHandlerCreateAnonymous(t *testing.T) {
	service := &fakeCommentSrv{item: &models.Comment{ID: "comment-1"}}
	handler := NewCommentHandler(service)

	c, rec := testNewsContext(t, http.MethodPost, "/public/news/news-1/comments", `{"author_name":"Rina","body":"Great reporting"}`)
	c.Params = gin.Params{{Key: "id", Value: "news-1"}}
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "news-1", service.lastNewsID)
	assert.Equal(t, "Rina", service.lastReq.AuthorName)
}

func TestCommentHandlerCreateUnpublishedArticle(t *testing.T) {
	handler := NewCommentHandler(&fakeCommentSrv{err: appErrors.Clone(appErrors.ErrValidation, "comments are only accepted on published articles")})

	c, rec := testNewsContext(t, http.MethodPost, "/public/news/news-1/comments", `{"body":"hello"}`)
	c.Params = gin.Params{{Key: "id", Value: "news-1"}}
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommentHandlerListParsesModerationFlags(t *testing.T) {
	service := &fakeCommentSrv{item: &models.Comment{ID: "comment-1"}}
	handler := NewCommentHandler(service)

	c, rec := testNewsContext(t, http.MethodGet, "/comments?approved=false&spam=true&news_id=news-1", "")
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "news-1", service.lastFilter.NewsID)
	if assert.NotNil(t, service.lastFilter.Approved) {
		assert.False(t, *service.lastFilter.Approved)
	}
	if assert.NotNil(t, service.lastFilter.Spam) {
		assert.True(t, *service.lastFilter.Spam)
	}
}

func TestCommentHandlerApprove(t *testing.T) {
	service := &fakeCommentSrv{item: &models.Comment{ID: "comment-1", IsApproved: true}}
	handler := NewCommentHandler(service)

	c, rec := testNewsContext(t, http.MethodPost, "/comments/comment-1/approve", "")
	c.Params = gin.Params{{Key: "id", Value: "comment-1"}}
	handler.Approve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "comment-1", service.lastID)
}

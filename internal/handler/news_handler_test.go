package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/middleware"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type fakeNewsSrv struct {
	item       *models.News
	err        error
	lastID     string
	lastFilter models.NewsFilter
	lastReject dto.RejectNewsRequest
}

func (f *fakeNewsSrv) Create(_ context.Context, _ dto.CreateNewsRequest, _ *models.JWTClaims) (*models.News, error) {
	return f.item, f.err
}

func (f *fakeNewsSrv) Get(_ context.Context, id string, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) GetPublishedBySlug(_ context.Context, slug string) (*models.News, error) {
	f.lastID = slug
	return f.item, f.err
}

func (f *fakeNewsSrv) Update(_ context.Context, id string, _ dto.UpdateNewsRequest, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) Submit(_ context.Context, id string, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) Approve(_ context.Context, id string, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) Reject(_ context.Context, id string, req dto.RejectNewsRequest, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	f.lastReject = req
	return f.item, f.err
}

func (f *fakeNewsSrv) Publish(_ context.Context, id string, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) Unpublish(_ context.Context, id string, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) Schedule(_ context.Context, id string, _ dto.ScheduleNewsRequest, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func (f *fakeNewsSrv) List(_ context.Context, filter models.NewsFilter, _ *models.JWTClaims) ([]models.News, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.News{*f.item}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (f *fakeNewsSrv) ListPublished(_ context.Context, filter models.NewsFilter) ([]models.News, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.News{*f.item}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (f *fakeNewsSrv) Delete(_ context.Context, id string, _ *models.JWTClaims) error {
	f.lastID = id
	return f.err
}

func (f *fakeNewsSrv) Restore(_ context.Context, id string, _ *models.JWTClaims) (*models.News, error) {
	f.lastID = id
	return f.item, f.err
}

func testNewsContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin})
	return c, rec
}

func TestNewsHandlerCreateRejectsBadJSON(t *testing.T) {
	handler := NewNewsHandler(&fakeNewsSrv{})

	c, rec := testNewsContext(t, http.MethodPost, "/news", "{not json")
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsHandlerCreateSuccess(t *testing.T) {
	service := &fakeNewsSrv{item: &models.News{ID: "news-1", Title: "Town hall reopens"}}
	handler := NewNewsHandler(service)

	c, rec := testNewsContext(t, http.MethodPost, "/news", `{"title":"Town hall reopens","body":"..."}`)
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "news-1", envelope.Data["id"])
}

func TestNewsHandlerListParsesFilter(t *testing.T) {
	service := &fakeNewsSrv{item: &models.News{ID: "news-1"}}
	handler := NewNewsHandler(service)

	c, rec := testNewsContext(t, http.MethodGet, "/news?status=pending&category_id=cat-9&page=3&page_size=5", "")
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.NewsStatusPending, service.lastFilter.Status)
	assert.Equal(t, "cat-9", service.lastFilter.CategoryID)
	assert.Equal(t, 3, service.lastFilter.Page)
	assert.Equal(t, 5, service.lastFilter.PageSize)
}

func TestNewsHandlerRejectForwardsReason(t *testing.T) {
	service := &fakeNewsSrv{item: &models.News{ID: "news-1", Status: models.NewsStatusRejected}}
	handler := NewNewsHandler(service)

	c, rec := testNewsContext(t, http.MethodPost, "/news/news-1/reject", `{"reason":"sources missing"}`)
	c.Params = gin.Params{{Key: "id", Value: "news-1"}}
	handler.Reject(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "news-1", service.lastID)
	assert.Equal(t, "sources missing", service.lastReject.Reason)
}

func TestNewsHandlerGetMapsServiceError(t *testing.T) {
	handler := NewNewsHandler(&fakeNewsSrv{err: appErrors.ErrNotFound})

	c, rec := testNewsContext(t, http.MethodGet, "/news/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsHandlerDeleteReturnsNoContent(t *testing.T) {
	service := &fakeNewsSrv{}
	handler := NewNewsHandler(service)

	c, rec := testNewsContext(t, http.MethodDelete, "/news/news-1", "")
	c.Params = gin.Params{{Key: "id", Value: "news-1"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "news-1", service.lastID)
}

func TestNewsHandlerGetBySlug(t *testing.T) {
	service := &fakeNewsSrv{item: &models.News{ID: "news-1", Slug: "town-hall-reopens"}}
	handler := NewNewsHandler(service)

	c, rec := testNewsContext(t, http.MethodGet, "/public/news/slug/town-hall-reopens", "")
	c.Params = gin.Params{{Key: "slug", Value: "town-hall-reopens"}}
	handler.GetBySlug(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "town-hall-reopens", service.lastID)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

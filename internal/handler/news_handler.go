package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/response"
)

type newsService interface {
	Create(ctx context.Context, req dto.CreateNewsRequest, actor *models.JWTClaims) (*models.News, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.News, error)
	Update(ctx context.Context, id string, req dto.UpdateNewsRequest, actor *models.JWTClaims) (*models.News, error)
	Submit(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error)
	Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error)
	Reject(ctx context.Context, id string, req dto.RejectNewsRequest, actor *models.JWTClaims) (*models.News, error)
	Publish(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error)
	Unpublish(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error)
	Schedule(ctx context.Context, id string, req dto.ScheduleNewsRequest, actor *models.JWTClaims) (*models.News, error)
	List(ctx context.Context, filter models.NewsFilter, actor *models.JWTClaims) ([]models.News, *models.Pagination, error)
	ListPublished(ctx context.Context, filter models.NewsFilter) ([]models.News, *models.Pagination, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	Restore(ctx context.Context, id string, actor *models.JWTClaims) (*models.News, error)
}

// NewsHandler exposes REST endpoints for the article lifecycle.
type NewsHandler struct {
	service newsService
}

// NewNewsHandler constructs the handler.
func NewNewsHandler(service newsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// Create godoc
// @Summary Draft a new article
// @Tags News
// @Accept json
// @Produce json
// @Param payload body dto.CreateNewsRequest true "Article payload"
// @Success 201 {object} response.Envelope
// @Router /news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	var req dto.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article payload"))
		return
	}
	news, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, news)
}

// List godoc
// @Summary List articles for staff
// @Tags News
// @Produce json
// @Param status query string false "Review status"
// @Param category_id query string false "Category filter"
// @Param search query string false "Title search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	filter := newsFilterFromQuery(c)
	items, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get article detail
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	news, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Update godoc
// @Summary Edit an article
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param payload body dto.UpdateNewsRequest true "Partial edits"
// @Success 200 {object} response.Envelope
// @Router /news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	var req dto.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid article payload"))
		return
	}
	news, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Submit godoc
// @Summary Submit an article for review
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/submit [post]
func (h *NewsHandler) Submit(c *gin.Context) {
	news, err := h.service.Submit(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Approve godoc
// @Summary Approve a pending article
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/approve [post]
func (h *NewsHandler) Approve(c *gin.Context) {
	news, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Reject godoc
// @Summary Reject a pending article
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param payload body dto.RejectNewsRequest true "Rejection reason"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/reject [post]
func (h *NewsHandler) Reject(c *gin.Context) {
	var req dto.RejectNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
		return
	}
	news, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Publish godoc
// @Summary Publish an approved article
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/publish [post]
func (h *NewsHandler) Publish(c *gin.Context) {
	news, err := h.service.Publish(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Unpublish godoc
// @Summary Take an article off the public site
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/unpublish [post]
func (h *NewsHandler) Unpublish(c *gin.Context) {
	news, err := h.service.Unpublish(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Schedule godoc
// @Summary Schedule an approved article for future publication
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param payload body dto.ScheduleNewsRequest true "Publish time"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/schedule [post]
func (h *NewsHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule payload"))
		return
	}
	news, err := h.service.Schedule(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// Delete godoc
// @Summary Soft-delete an article
// @Tags News
// @Param id path string true "Article ID"
// @Success 204 {object} response.Envelope
// @Router /news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore a soft-deleted article
// @Tags News
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id}/restore [post]
func (h *NewsHandler) Restore(c *gin.Context) {
	news, err := h.service.Restore(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

// ListPublished godoc
// @Summary List published articles
// @Tags Public
// @Produce json
// @Param category_id query string false "Category filter"
// @Param search query string false "Title search"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /public/news [get]
func (h *NewsHandler) ListPublished(c *gin.Context) {
	filter := newsFilterFromQuery(c)
	items, pagination, err := h.service.ListPublished(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// GetBySlug godoc
// @Summary Get a published article by slug
// @Tags Public
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} response.Envelope
// @Router /public/news/{slug} [get]
func (h *NewsHandler) GetBySlug(c *gin.Context) {
	news, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, news, nil)
}

func newsFilterFromQuery(c *gin.Context) models.NewsFilter {
	page, pageSize := pageParams(c)
	filter := models.NewsFilter{
		CategoryID: c.Query("category_id"),
		Search:     strings.TrimSpace(c.Query("search")),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Page:       page,
		PageSize:   pageSize,
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.NewsStatus(strings.ToUpper(raw))
	}
	return filter
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/response"
)

type commentService interface {
	Create(ctx context.Context, newsID string, req dto.CreateCommentRequest, actor *models.JWTClaims) (*models.Comment, error)
	Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.Comment, error)
	MarkSpam(ctx context.Context, id string, actor *models.JWTClaims) (*models.Comment, error)
	ListPublic(ctx context.Context, newsID string, page, pageSize int) ([]models.Comment, *models.Pagination, error)
	List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, *models.Pagination, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// CommentHandler exposes public commenting and staff moderation endpoints.
type CommentHandler struct {
	service commentService
}

// NewCommentHandler constructs the handler.
func NewCommentHandler(service commentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create godoc
// @Summary Comment on a published article
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param payload body dto.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /public/news/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid comment payload"))
		return
	}
	comment, err := h.service.Create(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// ListPublic godoc
// @Summary List approved comments on an article
// @Tags Comments
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} response.Envelope
// @Router /public/news/{id}/comments [get]
func (h *CommentHandler) ListPublic(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, pagination, err := h.service.ListPublic(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// List godoc
// @Summary List comments for moderation
// @Tags Comments
// @Produce json
// @Param news_id query string false "Article filter"
// @Param approved query bool false "Approval filter"
// @Param spam query bool false "Spam filter"
// @Success 200 {object} response.Envelope
// @Router /comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.CommentFilter{
		NewsID:   c.Query("news_id"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("approved"); raw != "" {
		approved := raw == "true"
		filter.Approved = &approved
	}
	if raw := c.Query("spam"); raw != "" {
		spam := raw == "true"
		filter.Spam = &spam
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Approve godoc
// @Summary Approve a comment
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope
// @Router /comments/{id}/approve [post]
func (h *CommentHandler) Approve(c *gin.Context) {
	comment, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comment, nil)
}

// MarkSpam godoc
// @Summary Flag a comment as spam
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope
// @Router /comments/{id}/spam [post]
func (h *CommentHandler) MarkSpam(c *gin.Context) {
	comment, err := h.service.MarkSpam(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comment, nil)
}

// Delete godoc
// @Summary Delete a comment permanently
// @Tags Comments
// @Param id path string true "Comment ID"
// @Success 204 {object} response.Envelope
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

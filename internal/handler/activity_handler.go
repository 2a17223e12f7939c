package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/pkg/response"
)

type activityLister interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityLog, *models.Pagination, error)
}

// ActivityHandler exposes the audit trail.
type ActivityHandler struct {
	service activityLister
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service activityLister) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List godoc
// @Summary List activity log entries
// @Tags Activity
// @Produce json
// @Param user_id query string false "Actor filter"
// @Param model_type query string false "Subject model type"
// @Param model_id query string false "Subject model ID"
// @Param action query string false "Action filter"
// @Param from query string false "Start time (RFC 3339)"
// @Param to query string false "End time (RFC 3339)"
// @Success 200 {object} response.Envelope
// @Router /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.ActivityFilter{
		UserID:    c.Query("user_id"),
		ModelType: c.Query("model_type"),
		ModelID:   c.Query("model_id"),
		Action:    c.Query("action"),
		Page:      page,
		PageSize:  pageSize,
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &t
		}
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

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

type internshipService interface {
	Apply(ctx context.Context, req dto.CreateInternshipRequest) (*models.InternshipApplication, error)
	Get(ctx context.Context, id string) (*models.InternshipApplication, error)
	Review(ctx context.Context, id string, req dto.ReviewInternshipRequest, actor *models.JWTClaims) (*models.InternshipApplication, error)
	List(ctx context.Context, filter models.InternshipFilter) ([]models.InternshipApplication, *models.Pagination, error)
}

// InternshipHandler exposes internship intake and review endpoints.
type InternshipHandler struct {
	service internshipService
}

// NewInternshipHandler constructs the handler.
func NewInternshipHandler(service internshipService) *InternshipHandler {
	return &InternshipHandler{service: service}
}

// Apply godoc
// @Summary Submit an internship application
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body dto.CreateInternshipRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /public/internships [post]
func (h *InternshipHandler) Apply(c *gin.Context) {
	var req dto.CreateInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application payload"))
		return
	}
	application, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, application)
}

// List godoc
// @Summary List internship applications
// @Tags Internships
// @Produce json
// @Param status query string false "Review status"
// @Param search query string false "Name or institution search"
// @Success 200 {object} response.Envelope
// @Router /internships [get]
func (h *InternshipHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.InternshipFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.InternshipStatus(strings.ToUpper(raw))
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get application detail
// @Tags Internships
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /internships/{id} [get]
func (h *InternshipHandler) Get(c *gin.Context) {
	application, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

// Review godoc
// @Summary Accept or reject an application
// @Tags Internships
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.ReviewInternshipRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /internships/{id}/review [post]
func (h *InternshipHandler) Review(c *gin.Context) {
	var req dto.ReviewInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid review payload"))
		return
	}
	application, err := h.service.Review(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, application, nil)
}

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

type assignmentService interface {
	Create(ctx context.Context, req dto.CreateAssignmentRequest, actor *models.JWTClaims) (*models.ContentAssignment, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.ContentAssignment, error)
	Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest, actor *models.JWTClaims) (*models.ContentAssignment, error)
	Transition(ctx context.Context, id string, req dto.TransitionAssignmentRequest, actor *models.JWTClaims) (*models.ContentAssignment, error)
	List(ctx context.Context, filter models.AssignmentFilter, actor *models.JWTClaims) ([]models.ContentAssignment, *models.Pagination, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// AssignmentHandler exposes REST endpoints for content work orders.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Create godoc
// @Summary Issue a content assignment to a writer
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment payload"))
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param status query string false "Workflow status"
// @Param writer_id query string false "Writer filter"
// @Param overdue query bool false "Overdue only"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.AssignmentFilter{
		WriterID:    c.Query("writer_id"),
		NewsID:      c.Query("news_id"),
		OverdueOnly: c.Query("overdue") == "true",
		Page:        page,
		PageSize:    pageSize,
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.AssignmentStatus(strings.ToUpper(raw))
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get assignment detail
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Update godoc
// @Summary Edit assignment details
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.UpdateAssignmentRequest true "Partial edits"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment payload"))
		return
	}
	assignment, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Transition godoc
// @Summary Move an assignment forward through its workflow
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.TransitionAssignmentRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/transition [post]
func (h *AssignmentHandler) Transition(c *gin.Context) {
	var req dto.TransitionAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid transition payload"))
		return
	}
	assignment, err := h.service.Transition(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Soft-delete an assignment
// @Tags Assignments
// @Param id path string true "Assignment ID"
// @Success 204 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

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

type vacancyService interface {
	CreateVacancy(ctx context.Context, req dto.CreateVacancyRequest, actor *models.JWTClaims) (*models.JobVacancy, error)
	UpdateVacancy(ctx context.Context, id string, req dto.UpdateVacancyRequest, actor *models.JWTClaims) (*models.JobVacancy, error)
	GetVacancy(ctx context.Context, id string) (*models.JobVacancy, error)
	ListVacancies(ctx context.Context, openOnly bool) ([]models.JobVacancy, error)
	Apply(ctx context.Context, vacancyID string, req dto.ApplyCandidateRequest) (*models.JobCandidate, error)
	ReviewCandidate(ctx context.Context, id string, req dto.UpdateCandidateStatusRequest, actor *models.JWTClaims) (*models.JobCandidate, error)
	ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.JobCandidate, *models.Pagination, error)
}

// VacancyHandler exposes recruitment endpoints for vacancies and candidates.
type VacancyHandler struct {
	service vacancyService
}

// NewVacancyHandler constructs the handler.
func NewVacancyHandler(service vacancyService) *VacancyHandler {
	return &VacancyHandler{service: service}
}

// Create godoc
// @Summary Open a job vacancy
// @Tags Vacancies
// @Accept json
// @Produce json
// @Param payload body dto.CreateVacancyRequest true "Vacancy payload"
// @Success 201 {object} response.Envelope
// @Router /vacancies [post]
func (h *VacancyHandler) Create(c *gin.Context) {
	var req dto.CreateVacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid vacancy payload"))
		return
	}
	vacancy, err := h.service.CreateVacancy(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacancy)
}

// Update godoc
// @Summary Edit a vacancy
// @Tags Vacancies
// @Accept json
// @Produce json
// @Param id path string true "Vacancy ID"
// @Param payload body dto.UpdateVacancyRequest true "Partial edits"
// @Success 200 {object} response.Envelope
// @Router /vacancies/{id} [put]
func (h *VacancyHandler) Update(c *gin.Context) {
	var req dto.UpdateVacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid vacancy payload"))
		return
	}
	vacancy, err := h.service.UpdateVacancy(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacancy, nil)
}

// Get godoc
// @Summary Get vacancy detail
// @Tags Vacancies
// @Produce json
// @Param id path string true "Vacancy ID"
// @Success 200 {object} response.Envelope
// @Router /vacancies/{id} [get]
func (h *VacancyHandler) Get(c *gin.Context) {
	vacancy, err := h.service.GetVacancy(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacancy, nil)
}

// List godoc
// @Summary List all vacancies for staff
// @Tags Vacancies
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /vacancies [get]
func (h *VacancyHandler) List(c *gin.Context) {
	items, err := h.service.ListVacancies(c.Request.Context(), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListOpen godoc
// @Summary List open vacancies
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /public/vacancies [get]
func (h *VacancyHandler) ListOpen(c *gin.Context) {
	items, err := h.service.ListVacancies(c.Request.Context(), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Apply godoc
// @Summary Apply to an open vacancy
// @Tags Public
// @Accept json
// @Produce json
// @Param id path string true "Vacancy ID"
// @Param payload body dto.ApplyCandidateRequest true "Candidate payload"
// @Success 201 {object} response.Envelope
// @Router /public/vacancies/{id}/apply [post]
func (h *VacancyHandler) Apply(c *gin.Context) {
	var req dto.ApplyCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application payload"))
		return
	}
	candidate, err := h.service.Apply(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, candidate)
}

// ListCandidates godoc
// @Summary List candidates
// @Tags Vacancies
// @Produce json
// @Param vacancy_id query string false "Vacancy filter"
// @Param status query string false "Pipeline status"
// @Param search query string false "Name or email search"
// @Success 200 {object} response.Envelope
// @Router /candidates [get]
func (h *VacancyHandler) ListCandidates(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := models.CandidateFilter{
		VacancyID: c.Query("vacancy_id"),
		Search:    strings.TrimSpace(c.Query("search")),
		Page:      page,
		PageSize:  pageSize,
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.CandidateStatus(strings.ToUpper(raw))
	}
	items, pagination, err := h.service.ListCandidates(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// ReviewCandidate godoc
// @Summary Move a candidate through the pipeline
// @Tags Vacancies
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param payload body dto.UpdateCandidateStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /candidates/{id}/status [put]
func (h *VacancyHandler) ReviewCandidate(c *gin.Context) {
	var req dto.UpdateCandidateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status payload"))
		return
	}
	candidate, err := h.service.ReviewCandidate(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidate, nil)
}

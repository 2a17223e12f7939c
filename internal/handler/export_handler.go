package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/internal/service"
	"github.com/wartakota/newsroom-api/pkg/config"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/response"
)

type exportService interface {
	Candidates(ctx context.Context, filter models.CandidateFilter, format service.ExportFormat) (*service.ExportResult, error)
	Internships(ctx context.Context, filter models.InternshipFilter, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams recruitment datasets as downloadable files.
type ExportHandler struct {
	service exportService
	cfg     config.ExportsConfig
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService, cfg config.ExportsConfig) *ExportHandler {
	return &ExportHandler{service: service, cfg: cfg}
}

// Candidates godoc
// @Summary Export candidates as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param vacancy_id query string false "Vacancy filter"
// @Param status query string false "Pipeline status"
// @Success 200 {file} binary
// @Router /exports/candidates [get]
func (h *ExportHandler) Candidates(c *gin.Context) {
	format, err := h.format(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.CandidateFilter{VacancyID: c.Query("vacancy_id")}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.CandidateStatus(strings.ToUpper(raw))
	}
	result, err := h.service.Candidates(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, result)
}

// Internships godoc
// @Summary Export internship applications as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param status query string false "Review status"
// @Success 200 {file} binary
// @Router /exports/internships [get]
func (h *ExportHandler) Internships(c *gin.Context) {
	format, err := h.format(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.InternshipFilter{}
	if raw := c.Query("status"); raw != "" {
		filter.Status = models.InternshipStatus(strings.ToUpper(raw))
	}
	result, err := h.service.Internships(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, result)
}

func (h *ExportHandler) format(c *gin.Context) (service.ExportFormat, error) {
	if !h.cfg.Enabled {
		return "", appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	switch raw := strings.ToLower(c.DefaultQuery("format", "csv")); raw {
	case "csv":
		return service.ExportFormatCSV, nil
	case "pdf":
		return service.ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (h *ExportHandler) send(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
	"github.com/wartakota/newsroom-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult bundles the rendered bytes with response metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

type exportCandidateStore interface {
	ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.JobCandidate, int, error)
}

type exportInternshipStore interface {
	List(ctx context.Context, filter models.InternshipFilter) ([]models.InternshipApplication, int, error)
}

// ExportService renders recruitment data as downloadable CSV or PDF files.
type ExportService struct {
	candidates  exportCandidateStore
	internships exportInternshipStore
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(candidates exportCandidateStore, internships exportInternshipStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		candidates:  candidates,
		internships: internships,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Candidates exports job applications matching the filter.
func (s *ExportService) Candidates(ctx context.Context, filter models.CandidateFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.PageSize = 100
	items, _, err := s.candidates.ListCandidates(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidates")
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Phone", "Status", "Applied"},
	}
	for _, c := range items {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":    c.FullName,
			"Email":   c.Email,
			"Phone":   c.Phone,
			"Status":  string(c.Status),
			"Applied": c.AppliedAt.Format("2006-01-02"),
		})
	}
	return s.render(dataset, "job-candidates", "Job Candidates", format)
}

// Internships exports internship applications matching the filter.
func (s *ExportService) Internships(ctx context.Context, filter models.InternshipFilter, format ExportFormat) (*ExportResult, error) {
	filter.Page = 1
	filter.PageSize = 100
	items, _, err := s.internships.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Institution", "Major", "Status", "Applied"},
	}
	for _, a := range items {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Name":        a.FullName,
			"Email":       a.Email,
			"Institution": a.Institution,
			"Major":       a.Major,
			"Status":      string(a.Status),
			"Applied":     a.AppliedAt.Format("2006-01-02"),
		})
	}
	return s.render(dataset, "internship-applications", "Internship Applications", format)
}

func (s *ExportService) render(dataset export.Dataset, baseName, title string, format ExportFormat) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    baseName + "-" + stamp + ".csv",
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    baseName + "-" + stamp + ".pdf",
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

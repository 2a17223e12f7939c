package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type vacancyStore interface {
	CreateVacancy(ctx context.Context, vacancy *models.JobVacancy) error
	GetVacancyByID(ctx context.Context, id string) (*models.JobVacancy, error)
	ListVacancies(ctx context.Context, openOnly bool) ([]models.JobVacancy, error)
	UpdateVacancy(ctx context.Context, vacancy *models.JobVacancy) error
	CreateCandidate(ctx context.Context, candidate *models.JobCandidate) error
	GetCandidateByID(ctx context.Context, id string) (*models.JobCandidate, error)
	UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error
	ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.JobCandidate, int, error)
}

// VacancyService manages job openings and the applications against them.
type VacancyService struct {
	repo     vacancyStore
	activity activityRecorder
	logger   *zap.Logger
}

// NewVacancyService constructs the service.
func NewVacancyService(repo vacancyStore, activity activityRecorder, logger *zap.Logger) *VacancyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacancyService{repo: repo, activity: activity, logger: logger}
}

// CreateVacancy opens a new advertised position.
func (s *VacancyService) CreateVacancy(ctx context.Context, req dto.CreateVacancyRequest, actor *models.JWTClaims) (*models.JobVacancy, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	vacancy := &models.JobVacancy{
		Title:          strings.TrimSpace(req.Title),
		Slug:           Slugify(req.Title),
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		IsOpen:         true,
		ClosesAt:       req.ClosesAt,
	}
	if err := s.repo.CreateVacancy(ctx, vacancy); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vacancy")
	}
	s.record(ctx, actor, models.ActivityActionCreate, "job_vacancy", vacancy.ID)
	return vacancy, nil
}

// UpdateVacancy edits an existing position, including opening or closing it.
func (s *VacancyService) UpdateVacancy(ctx context.Context, id string, req dto.UpdateVacancyRequest, actor *models.JWTClaims) (*models.JobVacancy, error) {
	vacancy, err := s.loadVacancy(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		vacancy.Title = strings.TrimSpace(*req.Title)
		vacancy.Slug = Slugify(vacancy.Title)
	}
	if req.Description != nil {
		vacancy.Description = *req.Description
	}
	if req.Location != nil {
		vacancy.Location = *req.Location
	}
	if req.EmploymentType != nil {
		vacancy.EmploymentType = *req.EmploymentType
	}
	if req.IsOpen != nil {
		vacancy.IsOpen = *req.IsOpen
	}
	if req.ClosesAt != nil {
		vacancy.ClosesAt = req.ClosesAt
	}

	if err := s.repo.UpdateVacancy(ctx, vacancy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vacancy")
	}
	s.record(ctx, actor, models.ActivityActionUpdate, "job_vacancy", vacancy.ID)
	return vacancy, nil
}

// GetVacancy loads one position.
func (s *VacancyService) GetVacancy(ctx context.Context, id string) (*models.JobVacancy, error) {
	return s.loadVacancy(ctx, id)
}

// ListVacancies returns positions; the public site only sees open ones.
func (s *VacancyService) ListVacancies(ctx context.Context, openOnly bool) ([]models.JobVacancy, error) {
	vacancies, err := s.repo.ListVacancies(ctx, openOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacancies")
	}
	return vacancies, nil
}

// Apply records a public application against an open vacancy.
func (s *VacancyService) Apply(ctx context.Context, vacancyID string, req dto.ApplyCandidateRequest) (*models.JobCandidate, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "full_name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}

	vacancy, err := s.loadVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if !vacancy.IsOpen {
		return nil, appErrors.Clone(appErrors.ErrConflict, "vacancy is closed")
	}

	candidate := &models.JobCandidate{
		VacancyID:      vacancy.ID,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		CVPath:         req.CVPath,
		PortfolioFiles: req.PortfolioFiles,
		Status:         models.CandidateStatusReceived,
	}
	if err := s.repo.CreateCandidate(ctx, candidate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record application")
	}
	return candidate, nil
}

// ReviewCandidate moves an application through review.
func (s *VacancyService) ReviewCandidate(ctx context.Context, id string, req dto.UpdateCandidateStatusRequest, actor *models.JWTClaims) (*models.JobCandidate, error) {
	switch req.Status {
	case models.CandidateStatusReceived, models.CandidateStatusShortlisted, models.CandidateStatusRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown candidate status")
	}

	candidate, err := s.repo.GetCandidateByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}

	if err := s.repo.UpdateCandidateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update candidate")
	}
	candidate.Status = req.Status
	s.record(ctx, actor, models.ActivityActionUpdate, "job_candidate", candidate.ID)
	return candidate, nil
}

// ListCandidates returns applications with pagination.
func (s *VacancyService) ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.JobCandidate, *models.Pagination, error) {
	items, total, err := s.repo.ListCandidates(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list candidates")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

func (s *VacancyService) loadVacancy(ctx context.Context, id string) (*models.JobVacancy, error) {
	vacancy, err := s.repo.GetVacancyByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacancy")
	}
	return vacancy, nil
}

func (s *VacancyService) record(ctx context.Context, actor *models.JWTClaims, action, modelType, modelID string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, RecordParams{
		Actor:     actor,
		Action:    action,
		ModelType: modelType,
		ModelID:   modelID,
	})
}

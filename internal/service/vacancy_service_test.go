package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type vacancyRepoStub struct {
	vacancies  map[string]*models.JobVacancy
	candidates map[string]*models.JobCandidate
}

func newVacancyRepoStub() *vacancyRepoStub {
	return &vacancyRepoStub{
		vacancies:  make(map[string]*models.JobVacancy),
		candidates: make(map[string]*models.JobCandidate),
	}
}

func (r *vacancyRepoStub) CreateVacancy(ctx context.Context, vacancy *models.JobVacancy) error {
	if vacancy.ID == "" {
		vacancy.ID = "vacancy-" + vacancy.Slug
	}
	r.vacancies[vacancy.ID] = vacancy
	return nil
}

func (r *vacancyRepoStub) GetVacancyByID(ctx context.Context, id string) (*models.JobVacancy, error) {
	if v, ok := r.vacancies[id]; ok {
		return v, nil
	}
	return nil, sql.ErrNoRows
}

func (r *vacancyRepoStub) ListVacancies(ctx context.Context, openOnly bool) ([]models.JobVacancy, error) {
	var result []models.JobVacancy
	for _, v := range r.vacancies {
		if !openOnly || v.IsOpen {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (r *vacancyRepoStub) UpdateVacancy(ctx context.Context, vacancy *models.JobVacancy) error {
	if _, ok := r.vacancies[vacancy.ID]; !ok {
		return sql.ErrNoRows
	}
	r.vacancies[vacancy.ID] = vacancy
	return nil
}

func (r *vacancyRepoStub) CreateCandidate(ctx context.Context, candidate *models.JobCandidate) error {
	if candidate.ID == "" {
		candidate.ID = "candidate-1"
	}
	r.candidates[candidate.ID] = candidate
	return nil
}

func (r *vacancyRepoStub) GetCandidateByID(ctx context.Context, id string) (*models.JobCandidate, error) {
	if c, ok := r.candidates[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (r *vacancyRepoStub) UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error {
	c, ok := r.candidates[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Status = status
	return nil
}

func (r *vacancyRepoStub) ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.JobCandidate, int, error) {
	var result []models.JobCandidate
	for _, c := range r.candidates {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func TestVacancyServiceCreateOpensPosition(t *testing.T) {
	repo := newVacancyRepoStub()
	svc := NewVacancyService(repo, nil, nil)

	vacancy, err := svc.CreateVacancy(context.Background(), dto.CreateVacancyRequest{
		Title: "Staff Photographer",
	}, adminClaims())
	require.NoError(t, err)
	require.True(t, vacancy.IsOpen)
	require.Equal(t, "staff-photographer", vacancy.Slug)
}

func TestVacancyServiceApplyClosedVacancy(t *testing.T) {
	repo := newVacancyRepoStub()
	svc := NewVacancyService(repo, nil, nil)
	repo.vacancies["v1"] = &models.JobVacancy{ID: "v1", IsOpen: false}

	_, err := svc.Apply(context.Background(), "v1", dto.ApplyCandidateRequest{
		FullName: "Sari Dewi",
		Email:    "sari@example.test",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestVacancyServiceApplyStartsReceived(t *testing.T) {
	repo := newVacancyRepoStub()
	svc := NewVacancyService(repo, nil, nil)
	repo.vacancies["v1"] = &models.JobVacancy{ID: "v1", IsOpen: true}

	candidate, err := svc.Apply(context.Background(), "v1", dto.ApplyCandidateRequest{
		FullName: "Sari Dewi",
		Email:    "Sari@Example.Test",
	})
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusReceived, candidate.Status)
	require.Equal(t, "sari@example.test", candidate.Email)
}

func TestVacancyServiceReviewCandidate(t *testing.T) {
	repo := newVacancyRepoStub()
	svc := NewVacancyService(repo, nil, nil)
	repo.candidates["c1"] = &models.JobCandidate{ID: "c1", Status: models.CandidateStatusReceived}

	_, err := svc.ReviewCandidate(context.Background(), "c1", dto.UpdateCandidateStatusRequest{
		Status: models.CandidateStatus("HIRED"),
	}, adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	reviewed, err := svc.ReviewCandidate(context.Background(), "c1", dto.UpdateCandidateStatusRequest{
		Status: models.CandidateStatusShortlisted,
	}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, models.CandidateStatusShortlisted, reviewed.Status)
}

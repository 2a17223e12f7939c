package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type internshipRepoStub struct {
	items map[string]*models.InternshipApplication
}

func newInternshipRepoStub() *internshipRepoStub {
	return &internshipRepoStub{items: make(map[string]*models.InternshipApplication)}
}

func (r *internshipRepoStub) Create(ctx context.Context, app *models.InternshipApplication) error {
	if app.ID == "" {
		app.ID = "application-1"
	}
	r.items[app.ID] = app
	return nil
}

func (r *internshipRepoStub) GetByID(ctx context.Context, id string) (*models.InternshipApplication, error) {
	if a, ok := r.items[id]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func (r *internshipRepoStub) UpdateReview(ctx context.Context, app *models.InternshipApplication) error {
	if _, ok := r.items[app.ID]; !ok {
		return sql.ErrNoRows
	}
	r.items[app.ID] = app
	return nil
}

func (r *internshipRepoStub) List(ctx context.Context, filter models.InternshipFilter) ([]models.InternshipApplication, int, error) {
	var result []models.InternshipApplication
	for _, a := range r.items {
		result = append(result, *a)
	}
	return result, len(result), nil
}

func TestInternshipServiceApplyValidation(t *testing.T) {
	svc := NewInternshipService(newInternshipRepoStub(), nil, nil)

	_, err := svc.Apply(context.Background(), dto.CreateInternshipRequest{
		Email:       "student@example.test",
		Institution: "SMKN 1",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	_, err = svc.Apply(context.Background(), dto.CreateInternshipRequest{
		FullName:    "Student One",
		Email:       "student@example.test",
		Institution: "SMKN 1",
		StartDate:   &start,
		EndDate:     &end,
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInternshipServiceApplyStartsReceived(t *testing.T) {
	svc := NewInternshipService(newInternshipRepoStub(), nil, nil)

	app, err := svc.Apply(context.Background(), dto.CreateInternshipRequest{
		FullName:    "Student One",
		Email:       "Student@Example.Test",
		Institution: "SMKN 1",
	})
	require.NoError(t, err)
	require.Equal(t, models.InternshipStatusReceived, app.Status)
	require.Equal(t, "student@example.test", app.Email)
	require.Nil(t, app.ReviewedAt)
}

func TestInternshipServiceReviewOnce(t *testing.T) {
	repo := newInternshipRepoStub()
	svc := NewInternshipService(repo, &recorderStub{}, nil)
	repo.items["a1"] = &models.InternshipApplication{ID: "a1", Status: models.InternshipStatusReceived}

	reviewed, err := svc.Review(context.Background(), "a1", dto.ReviewInternshipRequest{
		Status: models.InternshipStatusAccepted,
	}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, models.InternshipStatusAccepted, reviewed.Status)
	require.Equal(t, "admin-1", *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	_, err = svc.Review(context.Background(), "a1", dto.ReviewInternshipRequest{
		Status: models.InternshipStatusRejected,
	}, adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

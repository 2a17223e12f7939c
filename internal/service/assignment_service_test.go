package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/internal/repository"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type assignmentRepoStub struct {
	items      map[string]*models.ContentAssignment
	listFilter models.AssignmentFilter
}

func newAssignmentRepoStub() *assignmentRepoStub {
	return &assignmentRepoStub{items: make(map[string]*models.ContentAssignment)}
}

func (r *assignmentRepoStub) Create(ctx context.Context, assignment *models.ContentAssignment) error {
	if assignment.ID == "" {
		assignment.ID = "assignment-1"
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentStatusPending
	}
	copy := *assignment
	r.items[assignment.ID] = &copy
	return nil
}

func (r *assignmentRepoStub) GetByID(ctx context.Context, id string) (*models.ContentAssignment, error) {
	if a, ok := r.items[id]; ok && a.DeletedAt == nil {
		copy := *a
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (r *assignmentRepoStub) UpdateDetails(ctx context.Context, assignment *models.ContentAssignment) error {
	if _, ok := r.items[assignment.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *assignment
	r.items[assignment.ID] = &copy
	return nil
}

func (r *assignmentRepoStub) Transition(ctx context.Context, params repository.TransitionParams) error {
	a, ok := r.items[params.ID]
	if !ok || a.DeletedAt != nil || a.Status != params.ExpectedStatus {
		return sql.ErrNoRows
	}
	a.Status = params.NewStatus
	a.UpdatedAt = params.UpdatedAt
	if params.AcknowledgedAt != nil {
		a.AcknowledgedAt = params.AcknowledgedAt
	}
	if params.CompletedAt != nil {
		a.CompletedAt = params.CompletedAt
	}
	return nil
}

func (r *assignmentRepoStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.ContentAssignment, int, error) {
	r.listFilter = filter
	var result []models.ContentAssignment
	for _, a := range r.items {
		if a.DeletedAt == nil {
			result = append(result, *a)
		}
	}
	return result, len(result), nil
}

func (r *assignmentRepoStub) SoftDelete(ctx context.Context, id string, now time.Time) error {
	a, ok := r.items[id]
	if !ok || a.DeletedAt != nil {
		return sql.ErrNoRows
	}
	a.DeletedAt = &now
	return nil
}

type assignmentNotifierStub struct {
	created []string
}

func (n *assignmentNotifierStub) AssignmentCreated(ctx context.Context, assignment *models.ContentAssignment) bool {
	n.created = append(n.created, assignment.ID)
	return true
}

func seedAssignment(repo *assignmentRepoStub, id, writerID string, status models.AssignmentStatus) {
	repo.items[id] = &models.ContentAssignment{
		ID:       id,
		AdminID:  "admin-1",
		WriterID: writerID,
		Status:   status,
	}
}

func TestAssignmentServiceCreateNotifiesWriter(t *testing.T) {
	repo := newAssignmentRepoStub()
	notifier := &assignmentNotifierStub{}
	svc := NewAssignmentService(repo, &recorderStub{}, notifier, nil)

	assignment, err := svc.Create(context.Background(), dto.CreateAssignmentRequest{
		WriterID:     "writer-1",
		RequiredPage: "home",
		Instruction:  "cover the council meeting",
	}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusPending, assignment.Status)
	require.Equal(t, "admin-1", assignment.AdminID)
	require.Equal(t, []string{assignment.ID}, notifier.created)
}

func TestAssignmentServiceTransitionForwardOnly(t *testing.T) {
	repo := newAssignmentRepoStub()
	svc := NewAssignmentService(repo, nil, nil, nil)
	seedAssignment(repo, "a1", "writer-1", models.AssignmentStatusPending)

	// A forward jump past intermediate statuses is allowed. Skipped statuses
	// leave their stamps alone.
	moved, err := svc.Transition(context.Background(), "a1", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusSubmitted,
	}, writerClaims("writer-1"))
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusSubmitted, moved.Status)
	require.Nil(t, moved.AcknowledgedAt)
	require.Nil(t, moved.CompletedAt)

	// Backward moves are rejected.
	_, err = svc.Transition(context.Background(), "a1", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusInProgress,
	}, writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceStampsAreIndependent(t *testing.T) {
	repo := newAssignmentRepoStub()
	svc := NewAssignmentService(repo, nil, nil, nil)

	// A direct PENDING->COMPLETED jump stamps completed_at only.
	seedAssignment(repo, "a1", "writer-1", models.AssignmentStatusPending)
	done, err := svc.Transition(context.Background(), "a1", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusCompleted,
	}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	require.Nil(t, done.AcknowledgedAt)

	// acknowledged_at is stamped only when the row actually enters ACKNOWLEDGED.
	seedAssignment(repo, "a2", "writer-1", models.AssignmentStatusPending)
	acked, err := svc.Transition(context.Background(), "a2", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusAcknowledged,
	}, writerClaims("writer-1"))
	require.NoError(t, err)
	require.NotNil(t, acked.AcknowledgedAt)
	require.Nil(t, acked.CompletedAt)
}

func TestAssignmentServiceWriterCannotComplete(t *testing.T) {
	repo := newAssignmentRepoStub()
	svc := NewAssignmentService(repo, nil, nil, nil)
	seedAssignment(repo, "a1", "writer-1", models.AssignmentStatusSubmitted)

	_, err := svc.Transition(context.Background(), "a1", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusCompleted,
	}, writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	completed, err := svc.Transition(context.Background(), "a1", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusCompleted,
	}, adminClaims())
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
}

func TestAssignmentServiceTransitionLostRace(t *testing.T) {
	repo := newAssignmentRepoStub()
	seedAssignment(repo, "a1", "writer-1", models.AssignmentStatusPending)

	// A concurrent actor moves the assignment between the load and the
	// guarded update; the service reports a conflict.
	svc := NewAssignmentService(&racingAssignmentStub{assignmentRepoStub: repo}, nil, nil, nil)
	_, err := svc.Transition(context.Background(), "a1", dto.TransitionAssignmentRequest{
		Status: models.AssignmentStatusAcknowledged,
	}, writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

// racingAssignmentStub simulates a concurrent writer by bumping the stored
// status after the service has loaded the assignment.
type racingAssignmentStub struct {
	*assignmentRepoStub
}

func (r *racingAssignmentStub) GetByID(ctx context.Context, id string) (*models.ContentAssignment, error) {
	a, err := r.assignmentRepoStub.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.items[id].Status = models.AssignmentStatusSubmitted
	return a, nil
}

func TestAssignmentServiceWriterScope(t *testing.T) {
	repo := newAssignmentRepoStub()
	svc := NewAssignmentService(repo, nil, nil, nil)
	seedAssignment(repo, "a1", "writer-2", models.AssignmentStatusPending)

	_, err := svc.Get(context.Background(), "a1", writerClaims("writer-1"))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, _, err = svc.List(context.Background(), models.AssignmentFilter{}, writerClaims("writer-1"))
	require.NoError(t, err)
	require.Equal(t, "writer-1", repo.listFilter.WriterID)
}

func TestAssignmentServiceNoEditsAfterCompletion(t *testing.T) {
	repo := newAssignmentRepoStub()
	svc := NewAssignmentService(repo, nil, nil, nil)
	seedAssignment(repo, "a1", "writer-1", models.AssignmentStatusCompleted)

	instruction := "new instruction"
	_, err := svc.Update(context.Background(), "a1", dto.UpdateAssignmentRequest{
		Instruction: &instruction,
	}, adminClaims())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/models"
)

func newAssignmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func assignmentRowColumns() []string {
	return []string{"id", "news_id", "admin_id", "writer_id", "required_page", "required_section",
		"required_menu", "position_order", "instruction", "context_reference", "status", "due_date",
		"acknowledged_at", "completed_at", "created_at", "updated_at", "deleted_at"}
}

func TestAssignmentRepositoryCreateDefaultsStatus(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO content_assignments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.ContentAssignment{
		AdminID:         "admin-1",
		WriterID:        "writer-1",
		RequiredPage:    "home",
		RequiredSection: "headline",
		RequiredMenu:    "news",
		Instruction:     "cover the council meeting",
	}
	require.NoError(t, repo.Create(context.Background(), assignment))
	require.NotEmpty(t, assignment.ID)
	require.Equal(t, models.AssignmentStatusPending, assignment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryTransition(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE content_assignments SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.Transition(context.Background(), TransitionParams{
		ID:             "assign-1",
		ExpectedStatus: models.AssignmentStatusPending,
		NewStatus:      models.AssignmentStatusAcknowledged,
		AcknowledgedAt: &now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	// A concurrent transition already moved the row; the guard must report it.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE content_assignments SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.Transition(context.Background(), TransitionParams{
		ID:             "assign-1",
		ExpectedStatus: models.AssignmentStatusPending,
		NewStatus:      models.AssignmentStatusAcknowledged,
		AcknowledgedAt: &now,
		UpdatedAt:      now,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAssignmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()

	repo := NewAssignmentRepository(db)
	rows := sqlmock.NewRows(assignmentRowColumns()).
		AddRow("assign-1", nil, "admin-1", "writer-1", "home", "headline", "news", 1,
			"cover the council meeting", nil, "PENDING", nil, nil, nil, time.Now(), time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, news_id, admin_id")).
		WithArgs("writer-1", "PENDING").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM content_assignments")).
		WithArgs("writer-1", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.AssignmentFilter{
		WriterID: "writer-1",
		Status:   models.AssignmentStatusPending,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

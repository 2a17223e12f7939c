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

func newCommentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCommentRepositoryCreateDefaultsAnonymous(t *testing.T) {
	db, mock, cleanup := newCommentRepoMock(t)
	defer cleanup()

	repo := NewCommentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO comments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	comment := &models.Comment{
		NewsID:     "news-1",
		AuthorName: "Reader",
		Body:       "great article",
	}
	require.NoError(t, repo.Create(context.Background(), comment))
	require.NotEmpty(t, comment.ID)
	require.Equal(t, models.CommentAuthorAnonymous, comment.UserType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepositoryUpdateModeration(t *testing.T) {
	db, mock, cleanup := newCommentRepoMock(t)
	defer cleanup()

	repo := NewCommentRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE comments SET is_approved")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.UpdateModeration(context.Background(), &models.Comment{
		ID:         "comment-1",
		IsApproved: true,
		ApprovedAt: &now,
	})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE comments SET is_approved")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateModeration(context.Background(), &models.Comment{ID: "missing"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newCommentRepoMock(t)
	defer cleanup()

	repo := NewCommentRepository(db)
	columns := []string{"id", "news_id", "user_id", "user_type", "author_name", "body", "is_approved",
		"is_spam", "approved_at", "created_at", "updated_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("comment-1", "news-1", nil, "ANONYMOUS", "Reader", "great article", true, false,
			time.Now(), time.Now(), time.Now())
	approved := true
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, news_id, user_id")).
		WithArgs("news-1", true).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM comments")).
		WithArgs("news-1", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.CommentFilter{
		NewsID:   "news-1",
		Approved: &approved,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

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

func newNewsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func newsRowColumns() []string {
	return []string{"id", "title", "slug", "excerpt", "body", "cover_path", "is_published", "is_scheduled",
		"published_at", "scheduled_publish_at", "status", "approved_by", "approved_at", "rejected_at",
		"rejection_reason", "author_email", "category_id", "writer_id", "created_at", "updated_at", "deleted_at"}
}

func TestNewsRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newNewsRepoMock(t)
	defer cleanup()

	repo := NewNewsRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO news")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	news := &models.News{
		Title:    "Town Hall Reopens",
		Slug:     "town-hall-reopens",
		Excerpt:  "short",
		Body:     "long body",
		WriterID: "writer-1",
	}
	require.NoError(t, repo.Create(context.Background(), news))
	require.NotEmpty(t, news.ID)
	require.Equal(t, models.NewsStatusDraft, news.Status)

	rows := sqlmock.NewRows(newsRowColumns()).
		AddRow(news.ID, "Town Hall Reopens", "town-hall-reopens", "short", "long body", nil, false, false,
			nil, nil, "DRAFT", nil, nil, nil, nil, nil, nil, "writer-1", time.Now(), time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, slug")).
		WithArgs(news.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), news.ID)
	require.NoError(t, err)
	require.Equal(t, news.ID, found.ID)
	require.Equal(t, models.NewsStatusDraft, found.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepositorySlugExists(t *testing.T) {
	db, mock, cleanup := newNewsRepoMock(t)
	defer cleanup()

	repo := NewNewsRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("town-hall-reopens", "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.SlugExists(context.Background(), "town-hall-reopens", "")
	require.NoError(t, err)
	require.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("town-hall-reopens", "news-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = repo.SlugExists(context.Background(), "town-hall-reopens", "news-1")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newNewsRepoMock(t)
	defer cleanup()

	repo := NewNewsRepository(db)
	rows := sqlmock.NewRows(newsRowColumns()).
		AddRow("news-1", "Budget Vote", "budget-vote", "x", "y", nil, true, false,
			time.Now(), nil, "APPROVED", "admin-1", time.Now(), nil, nil, nil, nil, "writer-1",
			time.Now(), time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, slug")).
		WithArgs("APPROVED", "writer-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM news")).
		WithArgs("APPROVED", "writer-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.NewsFilter{
		Status:   models.NewsStatusApproved,
		WriterID: "writer-1",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, total)
	require.Equal(t, "news-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewsRepositorySoftDeleteAndRestore(t *testing.T) {
	db, mock, cleanup := newNewsRepoMock(t)
	defer cleanup()

	repo := NewNewsRepository(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE news SET deleted_at = $2")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SoftDelete(context.Background(), "news-1", now))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE news SET deleted_at = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SoftDelete(context.Background(), "news-1", now)
	require.ErrorIs(t, err, sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE news SET deleted_at = NULL")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Restore(context.Background(), "news-1", now))
	require.NoError(t, mock.ExpectationsWereMet())
}

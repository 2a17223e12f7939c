package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wartakota/newsroom-api/internal/models"
)

const newsColumns = `id, title, slug, excerpt, body, cover_path, is_published, is_scheduled, published_at,
       scheduled_publish_at, status, approved_by, approved_at, rejected_at, rejection_reason,
       author_email, category_id, writer_id, created_at, updated_at, deleted_at`

// NewsRepository persists news articles.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository constructs the repository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// Create inserts a new article row.
func (r *NewsRepository) Create(ctx context.Context, news *models.News) error {
	if news.ID == "" {
		news.ID = uuid.NewString()
	}
	if news.Status == "" {
		news.Status = models.NewsStatusDraft
	}
	now := time.Now().UTC()
	if news.CreatedAt.IsZero() {
		news.CreatedAt = now
	}
	news.UpdatedAt = now

	const query = `INSERT INTO news
	(id, title, slug, excerpt, body, cover_path, is_published, is_scheduled, published_at, scheduled_publish_at,
	 status, approved_by, approved_at, rejected_at, rejection_reason, author_email, category_id, writer_id,
	 created_at, updated_at)
	VALUES (:id, :title, :slug, :excerpt, :body, :cover_path, :is_published, :is_scheduled, :published_at,
	 :scheduled_publish_at, :status, :approved_by, :approved_at, :rejected_at, :rejection_reason, :author_email,
	 :category_id, :writer_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, news); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// GetByID returns a live article by identifier.
func (r *NewsRepository) GetByID(ctx context.Context, id string) (*models.News, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE id = $1 AND deleted_at IS NULL LIMIT 1`, newsColumns)
	var news models.News
	if err := r.db.GetContext(ctx, &news, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find news by id: %w", err)
	}
	return &news, nil
}

// GetBySlug returns a live article by slug.
func (r *NewsRepository) GetBySlug(ctx context.Context, slug string) (*models.News, error) {
	query := fmt.Sprintf(`SELECT %s FROM news WHERE slug = $1 AND deleted_at IS NULL LIMIT 1`, newsColumns)
	var news models.News
	if err := r.db.GetContext(ctx, &news, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find news by slug: %w", err)
	}
	return &news, nil
}

// SlugExists reports whether any row, soft-deleted included, already holds
// the slug. excludeID scopes the check away from the row being updated.
func (r *NewsRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM news WHERE slug = $1 AND ($2 = '' OR id <> $2))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Update persists all mutable columns of an article.
func (r *NewsRepository) Update(ctx context.Context, news *models.News) error {
	news.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET
	 title = :title, slug = :slug, excerpt = :excerpt, body = :body, cover_path = :cover_path,
	 is_published = :is_published, is_scheduled = :is_scheduled, published_at = :published_at,
	 scheduled_publish_at = :scheduled_publish_at, status = :status, approved_by = :approved_by,
	 approved_at = :approved_at, rejected_at = :rejected_at, rejection_reason = :rejection_reason,
	 author_email = :author_email, category_id = :category_id, updated_at = :updated_at
	WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, news)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check news update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns live articles matching the filter with the total count.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	baseQuery := `FROM news WHERE deleted_at IS NULL`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.WriterID != "" {
		conditions = append(conditions, fmt.Sprintf("writer_id = $%d", len(args)+1))
		args = append(args, filter.WriterID)
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)+1))
		args = append(args, filter.CategoryID)
	}
	if filter.PublishedOnly {
		conditions = append(conditions, "is_published = TRUE")
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)+1))
		args = append(args, *filter.CreatedTo)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(excerpt) LIKE $%d OR LOWER(body) LIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":        true,
		"created_at":   true,
		"updated_at":   true,
		"published_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		newsColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var items []models.News
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}

	return items, total, nil
}

// ListDueScheduled returns unpublished articles whose scheduled publish time
// has passed.
func (r *NewsRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]models.News, error) {
	query := fmt.Sprintf(`SELECT %s FROM news
	WHERE deleted_at IS NULL AND is_scheduled = TRUE AND is_published = FALSE AND scheduled_publish_at <= $1
	ORDER BY scheduled_publish_at ASC`, newsColumns)
	var items []models.News
	if err := r.db.SelectContext(ctx, &items, query, now); err != nil {
		return nil, fmt.Errorf("list due scheduled news: %w", err)
	}
	return items, nil
}

// SoftDelete marks a live article deleted. Deleting an already-deleted row
// reports sql.ErrNoRows.
func (r *NewsRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE news SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("soft delete news: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check news delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Restore clears the deletion mark on a soft-deleted article.
func (r *NewsRepository) Restore(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE news SET deleted_at = NULL, updated_at = $2 WHERE id = $1 AND deleted_at IS NOT NULL`
	result, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("restore news: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check news restore rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

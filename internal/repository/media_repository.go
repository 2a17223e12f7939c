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

const mediaColumns = `id, news_id, media_type, file_path, file_size, position_in_article, is_approved,
       approved_by, approved_at, rejection_reason, uploaded_by, uploaded_at, created_at, updated_at, deleted_at`

// MediaRepository persists article media uploads.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository constructs the repository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create inserts a new media row.
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	if media.ID == "" {
		media.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if media.CreatedAt.IsZero() {
		media.CreatedAt = now
	}
	media.UpdatedAt = now

	const query = `INSERT INTO media
	(id, news_id, media_type, file_path, file_size, position_in_article, is_approved, approved_by, approved_at,
	 rejection_reason, uploaded_by, uploaded_at, created_at, updated_at)
	VALUES (:id, :news_id, :media_type, :file_path, :file_size, :position_in_article, :is_approved, :approved_by,
	 :approved_at, :rejection_reason, :uploaded_by, :uploaded_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, media); err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

// GetByID returns a live media row by identifier.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	query := fmt.Sprintf(`SELECT %s FROM media WHERE id = $1 AND deleted_at IS NULL LIMIT 1`, mediaColumns)
	var media models.Media
	if err := r.db.GetContext(ctx, &media, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return &media, nil
}

// Update persists review fields of a media row.
func (r *MediaRepository) Update(ctx context.Context, media *models.Media) error {
	media.UpdatedAt = time.Now().UTC()
	const query = `UPDATE media SET
	 media_type = :media_type, position_in_article = :position_in_article, is_approved = :is_approved,
	 approved_by = :approved_by, approved_at = :approved_at, rejection_reason = :rejection_reason,
	 updated_at = :updated_at
	WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, media)
	if err != nil {
		return fmt.Errorf("update media: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check media update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns live media rows matching the filter with the total count.
func (r *MediaRepository) List(ctx context.Context, filter models.MediaFilter) ([]models.Media, int, error) {
	baseQuery := `FROM media WHERE deleted_at IS NULL`
	var conditions []string
	var args []interface{}

	if filter.NewsID != "" {
		conditions = append(conditions, fmt.Sprintf("news_id = $%d", len(args)+1))
		args = append(args, filter.NewsID)
	}
	if filter.UploadedBy != "" {
		conditions = append(conditions, fmt.Sprintf("uploaded_by = $%d", len(args)+1))
		args = append(args, filter.UploadedBy)
	}
	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("is_approved = $%d", len(args)+1))
		args = append(args, *filter.Approved)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("media_type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY position_in_article ASC, uploaded_at DESC LIMIT %d OFFSET %d",
		mediaColumns, baseQuery, pageSize, offset)

	var items []models.Media
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	return items, total, nil
}

// SoftDelete marks a live media row deleted.
func (r *MediaRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE media SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("soft delete media: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check media delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

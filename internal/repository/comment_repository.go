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

const commentColumns = `id, news_id, user_id, user_type, author_name, body, is_approved, is_spam, approved_at,
       created_at, updated_at`

// CommentRepository persists article comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository constructs the repository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment row.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.UserType == "" {
		comment.UserType = models.CommentAuthorAnonymous
	}
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now

	const query = `INSERT INTO comments
	(id, news_id, user_id, user_type, author_name, body, is_approved, is_spam, approved_at, created_at, updated_at)
	VALUES (:id, :news_id, :user_id, :user_type, :author_name, :body, :is_approved, :is_spam, :approved_at,
	 :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// GetByID returns a comment by identifier.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE id = $1 LIMIT 1`, commentColumns)
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return &comment, nil
}

// UpdateModeration persists the moderation flags.
func (r *CommentRepository) UpdateModeration(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE comments SET is_approved = :is_approved, is_spam = :is_spam, approved_at = :approved_at,
	 updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("update comment moderation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check comment update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns comments matching the filter with the total count.
func (r *CommentRepository) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	baseQuery := `FROM comments WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.NewsID != "" {
		conditions = append(conditions, fmt.Sprintf("news_id = $%d", len(args)+1))
		args = append(args, filter.NewsID)
	}
	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("is_approved = $%d", len(args)+1))
		args = append(args, *filter.Approved)
	}
	if filter.Spam != nil {
		conditions = append(conditions, fmt.Sprintf("is_spam = $%d", len(args)+1))
		args = append(args, *filter.Spam)
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		commentColumns, baseQuery, pageSize, offset)

	var items []models.Comment
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	return items, total, nil
}

// Delete removes a comment permanently.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM comments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check comment delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

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

const assignmentColumns = `id, news_id, admin_id, writer_id, required_page, required_section, required_menu,
       position_order, instruction, context_reference, status, due_date, acknowledged_at, completed_at,
       created_at, updated_at, deleted_at`

// AssignmentRepository persists content assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment row, defaulting the status to PENDING.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.ContentAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentStatusPending
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO content_assignments
	(id, news_id, admin_id, writer_id, required_page, required_section, required_menu, position_order,
	 instruction, context_reference, status, due_date, acknowledged_at, completed_at, created_at, updated_at)
	VALUES (:id, :news_id, :admin_id, :writer_id, :required_page, :required_section, :required_menu,
	 :position_order, :instruction, :context_reference, :status, :due_date, :acknowledged_at, :completed_at,
	 :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// GetByID returns a live assignment by identifier.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.ContentAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_assignments WHERE id = $1 AND deleted_at IS NULL LIMIT 1`, assignmentColumns)
	var assignment models.ContentAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}

// UpdateDetails persists editable work-order fields.
func (r *AssignmentRepository) UpdateDetails(ctx context.Context, assignment *models.ContentAssignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE content_assignments SET
	 required_page = :required_page, required_section = :required_section, required_menu = :required_menu,
	 position_order = :position_order, instruction = :instruction, context_reference = :context_reference,
	 due_date = :due_date, updated_at = :updated_at
	WHERE id = :id AND deleted_at IS NULL`
	result, err := r.db.NamedExecContext(ctx, query, assignment)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assignment update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TransitionParams groups the columns touched by a guarded status move.
type TransitionParams struct {
	ID             string
	ExpectedStatus models.AssignmentStatus
	NewStatus      models.AssignmentStatus
	AcknowledgedAt *time.Time
	CompletedAt    *time.Time
	UpdatedAt      time.Time
}

// Transition applies a status move guarded on the expected current status,
// so a concurrent conflicting transition surfaces as sql.ErrNoRows instead
// of silently winning.
func (r *AssignmentRepository) Transition(ctx context.Context, params TransitionParams) error {
	setParts := []string{"status = :new_status", "updated_at = :updated_at"}
	if params.AcknowledgedAt != nil {
		setParts = append(setParts, "acknowledged_at = :acknowledged_at")
	}
	if params.CompletedAt != nil {
		setParts = append(setParts, "completed_at = :completed_at")
	}
	query := fmt.Sprintf(`UPDATE content_assignments SET %s
	WHERE id = :id AND status = :expected_status AND deleted_at IS NULL`,
		strings.Join(setParts, ", "))
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":              params.ID,
		"expected_status": params.ExpectedStatus,
		"new_status":      params.NewStatus,
		"acknowledged_at": params.AcknowledgedAt,
		"completed_at":    params.CompletedAt,
		"updated_at":      params.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("transition assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assignment transition rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns live assignments matching the filter with the total count.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.ContentAssignment, int, error) {
	baseQuery := `FROM content_assignments WHERE deleted_at IS NULL`
	var conditions []string
	var args []interface{}

	if filter.WriterID != "" {
		conditions = append(conditions, fmt.Sprintf("writer_id = $%d", len(args)+1))
		args = append(args, filter.WriterID)
	}
	if filter.AdminID != "" {
		conditions = append(conditions, fmt.Sprintf("admin_id = $%d", len(args)+1))
		args = append(args, filter.AdminID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.NewsID != "" {
		conditions = append(conditions, fmt.Sprintf("news_id = $%d", len(args)+1))
		args = append(args, filter.NewsID)
	}
	if filter.OverdueOnly {
		conditions = append(conditions, fmt.Sprintf("due_date < $%d AND status <> '%s'",
			len(args)+1, models.AssignmentStatusCompleted))
		args = append(args, time.Now().UTC())
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
		assignmentColumns, baseQuery, pageSize, offset)

	var items []models.ContentAssignment
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	return items, total, nil
}

// SoftDelete marks a live assignment deleted.
func (r *AssignmentRepository) SoftDelete(ctx context.Context, id string, now time.Time) error {
	const query = `UPDATE content_assignments SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("soft delete assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assignment delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

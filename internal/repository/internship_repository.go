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

const internshipColumns = `id, full_name, email, phone, institution, major, start_date, end_date,
       portfolio_files, status, reviewed_by, reviewed_at, applied_at`

// InternshipRepository persists internship applications.
type InternshipRepository struct {
	db *sqlx.DB
}

// NewInternshipRepository constructs the repository.
func NewInternshipRepository(db *sqlx.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

// Create inserts a new application.
func (r *InternshipRepository) Create(ctx context.Context, app *models.InternshipApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.InternshipStatusReceived
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now().UTC()
	}

	const query = `INSERT INTO internship_applications
	(id, full_name, email, phone, institution, major, start_date, end_date, portfolio_files, status, applied_at)
	VALUES (:id, :full_name, :email, :phone, :institution, :major, :start_date, :end_date, :portfolio_files,
	 :status, :applied_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create internship application: %w", err)
	}
	return nil
}

// GetByID returns an application by identifier.
func (r *InternshipRepository) GetByID(ctx context.Context, id string) (*models.InternshipApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM internship_applications WHERE id = $1 LIMIT 1`, internshipColumns)
	var app models.InternshipApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find internship application by id: %w", err)
	}
	return &app, nil
}

// UpdateReview records the reviewer's decision.
func (r *InternshipRepository) UpdateReview(ctx context.Context, app *models.InternshipApplication) error {
	const query = `UPDATE internship_applications SET status = :status, reviewed_by = :reviewed_by,
	 reviewed_at = :reviewed_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, app)
	if err != nil {
		return fmt.Errorf("update internship review: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check internship update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns applications matching the filter with the total count.
func (r *InternshipRepository) List(ctx context.Context, filter models.InternshipFilter) ([]models.InternshipApplication, int, error) {
	baseQuery := `FROM internship_applications WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(institution) LIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY applied_at DESC LIMIT %d OFFSET %d",
		internshipColumns, baseQuery, pageSize, offset)

	var items []models.InternshipApplication
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list internship applications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count internship applications: %w", err)
	}

	return items, total, nil
}

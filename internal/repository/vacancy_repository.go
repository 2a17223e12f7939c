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

const vacancyColumns = `id, title, slug, description, location, employment_type, is_open, closes_at, created_at, updated_at`

const candidateColumns = `id, vacancy_id, full_name, email, phone, cv_path, portfolio_files, status, applied_at`

// VacancyRepository persists job vacancies and their candidates.
type VacancyRepository struct {
	db *sqlx.DB
}

// NewVacancyRepository constructs the repository.
func NewVacancyRepository(db *sqlx.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

// CreateVacancy inserts a new vacancy.
func (r *VacancyRepository) CreateVacancy(ctx context.Context, vacancy *models.JobVacancy) error {
	if vacancy.ID == "" {
		vacancy.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if vacancy.CreatedAt.IsZero() {
		vacancy.CreatedAt = now
	}
	vacancy.UpdatedAt = now

	const query = `INSERT INTO job_vacancies (id, title, slug, description, location, employment_type, is_open, closes_at, created_at, updated_at)
	VALUES (:id, :title, :slug, :description, :location, :employment_type, :is_open, :closes_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vacancy); err != nil {
		return fmt.Errorf("create vacancy: %w", err)
	}
	return nil
}

// GetVacancyByID returns a vacancy by identifier.
func (r *VacancyRepository) GetVacancyByID(ctx context.Context, id string) (*models.JobVacancy, error) {
	query := fmt.Sprintf(`SELECT %s FROM job_vacancies WHERE id = $1 LIMIT 1`, vacancyColumns)
	var vacancy models.JobVacancy
	if err := r.db.GetContext(ctx, &vacancy, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find vacancy by id: %w", err)
	}
	return &vacancy, nil
}

// ListVacancies returns vacancies, optionally only open ones.
func (r *VacancyRepository) ListVacancies(ctx context.Context, openOnly bool) ([]models.JobVacancy, error) {
	query := fmt.Sprintf(`SELECT %s FROM job_vacancies`, vacancyColumns)
	if openOnly {
		query += ` WHERE is_open = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	var vacancies []models.JobVacancy
	if err := r.db.SelectContext(ctx, &vacancies, query); err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	return vacancies, nil
}

// UpdateVacancy persists mutable vacancy fields.
func (r *VacancyRepository) UpdateVacancy(ctx context.Context, vacancy *models.JobVacancy) error {
	vacancy.UpdatedAt = time.Now().UTC()
	const query = `UPDATE job_vacancies SET title = :title, slug = :slug, description = :description,
	 location = :location, employment_type = :employment_type, is_open = :is_open, closes_at = :closes_at,
	 updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, vacancy)
	if err != nil {
		return fmt.Errorf("update vacancy: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check vacancy update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateCandidate inserts a new application for a vacancy.
func (r *VacancyRepository) CreateCandidate(ctx context.Context, candidate *models.JobCandidate) error {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	if candidate.Status == "" {
		candidate.Status = models.CandidateStatusReceived
	}
	if candidate.AppliedAt.IsZero() {
		candidate.AppliedAt = time.Now().UTC()
	}

	const query = `INSERT INTO job_candidates (id, vacancy_id, full_name, email, phone, cv_path, portfolio_files, status, applied_at)
	VALUES (:id, :vacancy_id, :full_name, :email, :phone, :cv_path, :portfolio_files, :status, :applied_at)`
	if _, err := r.db.NamedExecContext(ctx, query, candidate); err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// GetCandidateByID returns a candidate by identifier.
func (r *VacancyRepository) GetCandidateByID(ctx context.Context, id string) (*models.JobCandidate, error) {
	query := fmt.Sprintf(`SELECT %s FROM job_candidates WHERE id = $1 LIMIT 1`, candidateColumns)
	var candidate models.JobCandidate
	if err := r.db.GetContext(ctx, &candidate, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find candidate by id: %w", err)
	}
	return &candidate, nil
}

// UpdateCandidateStatus moves an application through review.
func (r *VacancyRepository) UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error {
	const query = `UPDATE job_candidates SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update candidate status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check candidate update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListCandidates returns candidates matching the filter with the total count.
func (r *VacancyRepository) ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.JobCandidate, int, error) {
	baseQuery := `FROM job_candidates WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.VacancyID != "" {
		conditions = append(conditions, fmt.Sprintf("vacancy_id = $%d", len(args)+1))
		args = append(args, filter.VacancyID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
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
		candidateColumns, baseQuery, pageSize, offset)

	var candidates []models.JobCandidate
	if err := r.db.SelectContext(ctx, &candidates, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}

	return candidates, total, nil
}

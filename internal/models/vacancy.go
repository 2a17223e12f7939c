package models

import "time"

// CandidateStatus tracks review of a job application.
type CandidateStatus string

const (
	CandidateStatusReceived    CandidateStatus = "RECEIVED"
	CandidateStatusShortlisted CandidateStatus = "SHORTLISTED"
	CandidateStatusRejected    CandidateStatus = "REJECTED"
)

// JobVacancy is an open position advertised on the public site.
type JobVacancy struct {
	ID             string     `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Slug           string     `db:"slug" json:"slug"`
	Description    string     `db:"description" json:"description"`
	Location       string     `db:"location" json:"location"`
	EmploymentType string     `db:"employment_type" json:"employment_type"`
	IsOpen         bool       `db:"is_open" json:"is_open"`
	ClosesAt       *time.Time `db:"closes_at" json:"closes_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// JobCandidate is an application submitted against a vacancy.
// PortfolioFiles is a JSON array blob of stored file paths.
type JobCandidate struct {
	ID             string          `db:"id" json:"id"`
	VacancyID      string          `db:"vacancy_id" json:"vacancy_id"`
	FullName       string          `db:"full_name" json:"full_name"`
	Email          string          `db:"email" json:"email"`
	Phone          string          `db:"phone" json:"phone"`
	CVPath         *string         `db:"cv_path" json:"cv_path,omitempty"`
	PortfolioFiles []byte          `db:"portfolio_files" json:"portfolio_files,omitempty"`
	Status         CandidateStatus `db:"status" json:"status"`
	AppliedAt      time.Time       `db:"applied_at" json:"applied_at"`
}

// CandidateFilter constrains candidate listings.
type CandidateFilter struct {
	VacancyID string
	Status    CandidateStatus
	Search    string
	Page      int
	PageSize  int
}

package dto

import (
	"encoding/json"
	"time"

	"github.com/wartakota/newsroom-api/internal/models"
)

// CreateVacancyRequest opens a new position.
type CreateVacancyRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type"`
	ClosesAt       *time.Time `json:"closes_at,omitempty"`
}

// UpdateVacancyRequest carries partial vacancy edits.
type UpdateVacancyRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Location       *string    `json:"location,omitempty"`
	EmploymentType *string    `json:"employment_type,omitempty"`
	IsOpen         *bool      `json:"is_open,omitempty"`
	ClosesAt       *time.Time `json:"closes_at,omitempty"`
}

// ApplyCandidateRequest is the public application payload.
type ApplyCandidateRequest struct {
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CVPath         *string         `json:"cv_path,omitempty"`
	PortfolioFiles json.RawMessage `json:"portfolio_files,omitempty"`
}

// UpdateCandidateStatusRequest moves an application through review.
type UpdateCandidateStatusRequest struct {
	Status models.CandidateStatus `json:"status"`
}

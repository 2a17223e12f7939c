package dto

import (
	"encoding/json"
	"time"

	"github.com/wartakota/newsroom-api/internal/models"
)

// CreateInternshipRequest is the public application payload.
type CreateInternshipRequest struct {
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Institution    string          `json:"institution"`
	Major          string          `json:"major"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	PortfolioFiles json.RawMessage `json:"portfolio_files,omitempty"`
}

// ReviewInternshipRequest records the admin decision.
type ReviewInternshipRequest struct {
	Status models.InternshipStatus `json:"status"`
}

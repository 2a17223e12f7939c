package models

import "time"

// InternshipStatus tracks review of an internship application.
type InternshipStatus string

const (
	InternshipStatusReceived InternshipStatus = "RECEIVED"
	InternshipStatusAccepted InternshipStatus = "ACCEPTED"
	InternshipStatusRejected InternshipStatus = "REJECTED"
)

// InternshipApplication is a public application for an internship slot.
type InternshipApplication struct {
	ID             string           `db:"id" json:"id"`
	FullName       string           `db:"full_name" json:"full_name"`
	Email          string           `db:"email" json:"email"`
	Phone          string           `db:"phone" json:"phone"`
	Institution    string           `db:"institution" json:"institution"`
	Major          string           `db:"major" json:"major"`
	StartDate      *time.Time       `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time       `db:"end_date" json:"end_date,omitempty"`
	PortfolioFiles []byte           `db:"portfolio_files" json:"portfolio_files,omitempty"`
	Status         InternshipStatus `db:"status" json:"status"`
	ReviewedBy     *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	AppliedAt      time.Time        `db:"applied_at" json:"applied_at"`
}

// InternshipFilter constrains application listings.
type InternshipFilter struct {
	Status   InternshipStatus
	Search   string
	Page     int
	PageSize int
}

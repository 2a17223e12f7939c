package models

import "time"

// AssignmentStatus tracks the linear workflow of a content assignment.
type AssignmentStatus string

const (
	AssignmentStatusPending      AssignmentStatus = "PENDING"
	AssignmentStatusAcknowledged AssignmentStatus = "ACKNOWLEDGED"
	AssignmentStatusInProgress   AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusSubmitted    AssignmentStatus = "SUBMITTED"
	AssignmentStatusCompleted    AssignmentStatus = "COMPLETED"
)

// assignmentStatusRank orders the workflow. Transitions must strictly
// increase rank; forward jumps are allowed, backward moves are not.
var assignmentStatusRank = map[AssignmentStatus]int{
	AssignmentStatusPending:      0,
	AssignmentStatusAcknowledged: 1,
	AssignmentStatusInProgress:   2,
	AssignmentStatusSubmitted:    3,
	AssignmentStatusCompleted:    4,
}

// ValidAssignmentStatus reports whether the given value is a known status.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	_, ok := assignmentStatusRank[s]
	return ok
}

// CanTransitionAssignment reports whether moving from one status to another
// is allowed by the workflow.
func CanTransitionAssignment(from, to AssignmentStatus) bool {
	fromRank, okFrom := assignmentStatusRank[from]
	toRank, okTo := assignmentStatusRank[to]
	return okFrom && okTo && toRank > fromRank
}

// ContentAssignment is a work order from an admin to a writer.
type ContentAssignment struct {
	ID               string           `db:"id" json:"id"`
	NewsID           *string          `db:"news_id" json:"news_id,omitempty"`
	AdminID          string           `db:"admin_id" json:"admin_id"`
	WriterID         string           `db:"writer_id" json:"writer_id"`
	RequiredPage     string           `db:"required_page" json:"required_page"`
	RequiredSection  string           `db:"required_section" json:"required_section"`
	RequiredMenu     string           `db:"required_menu" json:"required_menu"`
	PositionOrder    int              `db:"position_order" json:"position_order"`
	Instruction      string           `db:"instruction" json:"instruction"`
	ContextReference *string          `db:"context_reference" json:"context_reference,omitempty"`
	Status           AssignmentStatus `db:"status" json:"status"`
	DueDate          *time.Time       `db:"due_date" json:"due_date,omitempty"`
	AcknowledgedAt   *time.Time       `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	CompletedAt      *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
	DeletedAt        *time.Time       `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Overdue is a derived predicate, never stored.
func (a *ContentAssignment) Overdue(now time.Time) bool {
	return a.DueDate != nil && a.DueDate.Before(now) && a.Status != AssignmentStatusCompleted
}

// AssignmentFilter constrains assignment listings.
type AssignmentFilter struct {
	WriterID    string
	AdminID     string
	Status      AssignmentStatus
	NewsID      string
	OverdueOnly bool
	Page        int
	PageSize    int
}

package dto

import (
	"time"

	"github.com/wartakota/newsroom-api/internal/models"
)

// CreateAssignmentRequest is the admin payload for a new work order.
type CreateAssignmentRequest struct {
	NewsID           *string    `json:"news_id,omitempty"`
	WriterID         string     `json:"writer_id"`
	RequiredPage     string     `json:"required_page"`
	RequiredSection  string     `json:"required_section"`
	RequiredMenu     string     `json:"required_menu"`
	PositionOrder    int        `json:"position_order"`
	Instruction      string     `json:"instruction"`
	ContextReference *string    `json:"context_reference,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
}

// UpdateAssignmentRequest carries partial edits to assignment details.
type UpdateAssignmentRequest struct {
	RequiredPage     *string    `json:"required_page,omitempty"`
	RequiredSection  *string    `json:"required_section,omitempty"`
	RequiredMenu     *string    `json:"required_menu,omitempty"`
	PositionOrder    *int       `json:"position_order,omitempty"`
	Instruction      *string    `json:"instruction,omitempty"`
	ContextReference *string    `json:"context_reference,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
}

// TransitionAssignmentRequest moves an assignment to a new workflow status.
type TransitionAssignmentRequest struct {
	Status models.AssignmentStatus `json:"status"`
}

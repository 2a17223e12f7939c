package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/dto"
	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/internal/repository"
	appErrors "github.com/wartakota/newsroom-api/pkg/errors"
)

type assignmentStore interface {
	Create(ctx context.Context, assignment *models.ContentAssignment) error
	GetByID(ctx context.Context, id string) (*models.ContentAssignment, error)
	UpdateDetails(ctx context.Context, assignment *models.ContentAssignment) error
	Transition(ctx context.Context, params repository.TransitionParams) error
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.ContentAssignment, int, error)
	SoftDelete(ctx context.Context, id string, now time.Time) error
}

type assignmentNotifier interface {
	AssignmentCreated(ctx context.Context, assignment *models.ContentAssignment) bool
}

// AssignmentService manages work orders issued by admins to writers. Status
// moves follow a strictly forward workflow; the repository guard turns a
// lost race into a conflict error.
type AssignmentService struct {
	repo     assignmentStore
	activity activityRecorder
	notifier assignmentNotifier
	logger   *zap.Logger
}

// NewAssignmentService constructs the service. Notifier may be nil.
func NewAssignmentService(repo assignmentStore, activity activityRecorder, notifier assignmentNotifier, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, activity: activity, notifier: notifier, logger: logger}
}

// Create issues a new work order to a writer.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest, actor *models.JWTClaims) (*models.ContentAssignment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if req.WriterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "writer_id is required")
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instruction is required")
	}
	if strings.TrimSpace(req.RequiredPage) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "required_page is required")
	}

	assignment := &models.ContentAssignment{
		NewsID:           req.NewsID,
		AdminID:          actor.UserID,
		WriterID:         req.WriterID,
		RequiredPage:     req.RequiredPage,
		RequiredSection:  req.RequiredSection,
		RequiredMenu:     req.RequiredMenu,
		PositionOrder:    req.PositionOrder,
		Instruction:      req.Instruction,
		ContextReference: req.ContextReference,
		Status:           models.AssignmentStatusPending,
		DueDate:          req.DueDate,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.record(ctx, actor, models.ActivityActionCreate, assignment.ID, "")
	if s.notifier != nil {
		s.notifier.AssignmentCreated(ctx, assignment)
	}
	return assignment, nil
}

// Get loads one assignment, restricting writers to their own work orders.
func (s *AssignmentService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.ContentAssignment, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role == models.RoleWriter && assignment.WriterID != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	return assignment, nil
}

// Update edits work-order details. Only the issuing side may edit, and only
// before completion.
func (s *AssignmentService) Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest, actor *models.JWTClaims) (*models.ContentAssignment, error) {
	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if assignment.Status == models.AssignmentStatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "completed assignments cannot be edited")
	}

	if req.RequiredPage != nil {
		assignment.RequiredPage = *req.RequiredPage
	}
	if req.RequiredSection != nil {
		assignment.RequiredSection = *req.RequiredSection
	}
	if req.RequiredMenu != nil {
		assignment.RequiredMenu = *req.RequiredMenu
	}
	if req.PositionOrder != nil {
		assignment.PositionOrder = *req.PositionOrder
	}
	if req.Instruction != nil {
		assignment.Instruction = *req.Instruction
	}
	if req.ContextReference != nil {
		assignment.ContextReference = req.ContextReference
	}
	if req.DueDate != nil {
		assignment.DueDate = req.DueDate
	}

	if err := s.repo.UpdateDetails(ctx, assignment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	s.record(ctx, actor, models.ActivityActionUpdate, assignment.ID, "")
	return assignment, nil
}

// Transition moves an assignment forward through its workflow. Acknowledging
// stamps acknowledged_at once; completing stamps completed_at once. Writers
// may advance their own assignments up to SUBMITTED; only admins complete.
func (s *AssignmentService) Transition(ctx context.Context, id string, req dto.TransitionAssignmentRequest, actor *models.JWTClaims) (*models.ContentAssignment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !models.ValidAssignmentStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown assignment status")
	}

	assignment, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleWriter {
		if assignment.WriterID != actor.UserID {
			return nil, appErrors.ErrForbidden
		}
		if req.Status == models.AssignmentStatusCompleted {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can complete an assignment")
		}
	}
	if !models.CanTransitionAssignment(assignment.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move assignment from %s to %s", assignment.Status, req.Status))
	}

	now := time.Now().UTC()
	params := repository.TransitionParams{
		ID:             assignment.ID,
		ExpectedStatus: assignment.Status,
		NewStatus:      req.Status,
		UpdatedAt:      now,
	}
	if assignment.AcknowledgedAt == nil && req.Status == models.AssignmentStatusAcknowledged {
		params.AcknowledgedAt = &now
	}
	if assignment.CompletedAt == nil && req.Status == models.AssignmentStatusCompleted {
		params.CompletedAt = &now
	}

	if err := s.repo.Transition(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "assignment status changed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to transition assignment")
	}

	assignment.Status = req.Status
	assignment.UpdatedAt = now
	if params.AcknowledgedAt != nil {
		assignment.AcknowledgedAt = params.AcknowledgedAt
	}
	if params.CompletedAt != nil {
		assignment.CompletedAt = params.CompletedAt
	}
	s.record(ctx, actor, models.ActivityActionTransition, assignment.ID, string(req.Status))
	return assignment, nil
}

// List returns assignments with pagination, scoping writers to their own.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter, actor *models.JWTClaims) ([]models.ContentAssignment, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleWriter {
		filter.WriterID = actor.UserID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return items, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Delete soft-deletes a work order.
func (s *AssignmentService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrAlreadyDeleted, "assignment already deleted")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.record(ctx, actor, models.ActivityActionDelete, id, "")
	return nil
}

func (s *AssignmentService) load(ctx context.Context, id string) (*models.ContentAssignment, error) {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

func (s *AssignmentService) record(ctx context.Context, actor *models.JWTClaims, action, modelID, description string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, RecordParams{
		Actor:       actor,
		Action:      action,
		ModelType:   "content_assignment",
		ModelID:     modelID,
		Description: description,
	})
}

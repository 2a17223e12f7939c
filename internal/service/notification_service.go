package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/pkg/config"
	"github.com/wartakota/newsroom-api/pkg/jobs"
	"github.com/wartakota/newsroom-api/pkg/mailer"
)

type notificationUserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type emailPayload struct {
	To      string
	Subject string
	Body    string
}

// NotificationService delivers editorial emails through a background queue.
// Delivery is best-effort: a failed send is retried by the queue and never
// blocks or fails the triggering operation.
type NotificationService struct {
	users   notificationUserStore
	mailer  mailer.Mailer
	queue   *jobs.Queue
	logger  *zap.Logger
	enabled bool
}

// NewNotificationService constructs the service and its delivery queue.
func NewNotificationService(users notificationUserStore, m mailer.Mailer, cfg config.NotificationsConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		users:   users,
		mailer:  m,
		logger:  logger,
		enabled: cfg.Enabled,
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.QueueWorkers,
		MaxRetries: cfg.QueueRetries,
		RetryDelay: cfg.QueueRetryDelay,
		Logger:     logger,
	})
	return s
}

// Start begins background delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the delivery workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

func (s *NotificationService) deliver(_ context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(emailPayload)
	if !ok {
		s.logger.Error("notification job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.mailer.Send(payload.To, payload.Subject, payload.Body)
}

// NewsApproved notifies the writer that the article passed review.
func (s *NotificationService) NewsApproved(ctx context.Context, news *models.News) bool {
	subject := fmt.Sprintf("Article approved: %s", news.Title)
	body := fmt.Sprintf("Your article %q has been approved and is ready for publication.", news.Title)
	return s.notifyWriter(ctx, news, subject, body)
}

// NewsRejected notifies the writer with the reviewer's reason.
func (s *NotificationService) NewsRejected(ctx context.Context, news *models.News, reason string) bool {
	subject := fmt.Sprintf("Article rejected: %s", news.Title)
	body := fmt.Sprintf("Your article %q was rejected.\n\nReason: %s", news.Title, reason)
	return s.notifyWriter(ctx, news, subject, body)
}

// NewsPublished notifies the writer that the article went live.
func (s *NotificationService) NewsPublished(ctx context.Context, news *models.News) bool {
	subject := fmt.Sprintf("Article published: %s", news.Title)
	body := fmt.Sprintf("Your article %q is now live at /news/%s.", news.Title, news.Slug)
	return s.notifyWriter(ctx, news, subject, body)
}

// AssignmentCreated notifies the writer about a new work order.
func (s *NotificationService) AssignmentCreated(ctx context.Context, assignment *models.ContentAssignment) bool {
	recipient := s.userEmail(ctx, assignment.WriterID)
	if recipient == "" {
		return false
	}
	subject := "New content assignment"
	body := fmt.Sprintf("You have been assigned new content for %s / %s.\n\nInstruction: %s",
		assignment.RequiredPage, assignment.RequiredSection, assignment.Instruction)
	if assignment.DueDate != nil {
		body += fmt.Sprintf("\nDue: %s", assignment.DueDate.Format("2006-01-02 15:04"))
	}
	return s.enqueue(recipient, subject, body)
}

// AccountCreated sends the initial credential email to a new user.
func (s *NotificationService) AccountCreated(_ context.Context, user *models.User, temporaryPassword string) bool {
	subject := "Your newsroom account"
	body := fmt.Sprintf("An account has been created for you.\n\nEmail: %s\nTemporary password: %s\n\nPlease change the password after your first login.",
		user.Email, temporaryPassword)
	return s.enqueue(user.Email, subject, body)
}

// AccountDeactivated informs the user their access was removed.
func (s *NotificationService) AccountDeactivated(_ context.Context, user *models.User) bool {
	subject := "Account deactivated"
	body := "Your newsroom account has been deactivated. Contact an administrator if you believe this is a mistake."
	return s.enqueue(user.Email, subject, body)
}

// notifyWriter resolves the recipient from the writer's account, falling
// back to the article's stored author email when the account is gone.
func (s *NotificationService) notifyWriter(ctx context.Context, news *models.News, subject, body string) bool {
	recipient := s.userEmail(ctx, news.WriterID)
	if recipient == "" && news.AuthorEmail != nil {
		recipient = *news.AuthorEmail
	}
	if recipient == "" {
		s.logger.Warn("no recipient for article notification", zap.String("news_id", news.ID))
		return false
	}
	return s.enqueue(recipient, subject, body)
}

func (s *NotificationService) userEmail(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to resolve notification recipient", zap.String("user_id", userID), zap.Error(err))
		}
		return ""
	}
	return user.Email
}

func (s *NotificationService) enqueue(to, subject, body string) bool {
	if !s.enabled {
		return false
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "email",
		Payload: emailPayload{To: to, Subject: subject, Body: body},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("to", to), zap.Error(err))
		return false
	}
	return true
}

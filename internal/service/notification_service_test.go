package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wartakota/newsroom-api/internal/models"
	"github.com/wartakota/newsroom-api/pkg/config"
)

type mailerStub struct {
	mu   sync.Mutex
	sent []emailPayload
}

func (m *mailerStub) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, emailPayload{To: to, Subject: subject, Body: body})
	return nil
}

func (m *mailerStub) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var addresses []string
	for _, payload := range m.sent {
		addresses = append(addresses, payload.To)
	}
	return addresses
}

type notificationUsersStub struct {
	users map[string]*models.User
}

func (r *notificationUsersStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func startedNotificationService(t *testing.T, users *notificationUsersStub, m *mailerStub, enabled bool) *NotificationService {
	t.Helper()
	svc := NewNotificationService(users, m, config.NotificationsConfig{
		Enabled:      enabled,
		QueueWorkers: 1,
	}, nil)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func TestNotificationServiceDeliversToWriterAccount(t *testing.T) {
	m := &mailerStub{}
	users := &notificationUsersStub{users: map[string]*models.User{
		"writer-1": {ID: "writer-1", Email: "writer@newsroom.test"},
	}}
	svc := startedNotificationService(t, users, m, true)

	ok := svc.NewsApproved(context.Background(), &models.News{
		ID: "news-1", Title: "Budget Vote", WriterID: "writer-1",
	})
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return len(m.sentTo()) == 1 && m.sentTo()[0] == "writer@newsroom.test"
	}, time.Second, 10*time.Millisecond)
}

func TestNotificationServiceFallsBackToAuthorEmail(t *testing.T) {
	m := &mailerStub{}
	users := &notificationUsersStub{users: map[string]*models.User{}}
	svc := startedNotificationService(t, users, m, true)

	authorEmail := "freelancer@example.test"
	ok := svc.NewsRejected(context.Background(), &models.News{
		ID: "news-1", Title: "Budget Vote", WriterID: "writer-gone", AuthorEmail: &authorEmail,
	}, "missing sources")
	require.True(t, ok)
	require.Eventually(t, func() bool {
		sent := m.sentTo()
		return len(sent) == 1 && sent[0] == authorEmail
	}, time.Second, 10*time.Millisecond)
}

func TestNotificationServiceNoRecipient(t *testing.T) {
	m := &mailerStub{}
	users := &notificationUsersStub{users: map[string]*models.User{}}
	svc := startedNotificationService(t, users, m, true)

	ok := svc.NewsPublished(context.Background(), &models.News{
		ID: "news-1", Title: "Budget Vote", WriterID: "writer-gone",
	})
	require.False(t, ok)
}

func TestNotificationServiceDisabled(t *testing.T) {
	m := &mailerStub{}
	users := &notificationUsersStub{users: map[string]*models.User{
		"writer-1": {ID: "writer-1", Email: "writer@newsroom.test"},
	}}
	svc := startedNotificationService(t, users, m, false)

	ok := svc.NewsApproved(context.Background(), &models.News{
		ID: "news-1", Title: "Budget Vote", WriterID: "writer-1",
	})
	require.False(t, ok)
}

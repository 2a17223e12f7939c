package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/wartakota/newsroom-api/pkg/config"
)

// Mailer delivers plaintext mail over SMTP.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer is the production Mailer backed by net/smtp.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
}

// NewSMTPMailer builds a mailer from config. A missing sender falls back to
// a no-reply address so delivery still works in development.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	sender := cfg.Sender
	if sender == "" {
		sender = "no-reply@localhost"
	}
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		sender:   sender,
	}
}

// Send delivers a single plaintext message. Delivery and bounce handling are
// entirely the transport's concern; the caller only sees the immediate error.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient address required")
	}

	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

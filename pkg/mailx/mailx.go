// Package mailx sends transactional email. The SMTP client is created once
// at startup; deployments without an SMTP host fall back to NoopSender,
// which logs the mail instead of delivering it.
package mailx

import (
	"context"
	"fmt"
	"log/slog"

	mail "github.com/wneessen/go-mail"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config for the SMTP sender.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail over authenticated SMTP.
type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("mailx: create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("mailx: from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mailx: to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mailx: send: %w", err)
	}
	return nil
}

// NoopSender is used when SMTP is not configured. It logs instead of sending
// so reset/invite flows still work end to end in development.
type NoopSender struct {
	Logger *slog.Logger
}

func (s NoopSender) Send(_ context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mailx: smtp disabled, dropping email", "to", msg.To, "subject", msg.Subject)
	return nil
}

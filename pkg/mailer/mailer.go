// Package mailer sends newsletter email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

var (
	errHostRequired   = errors.New("smtp host is required")
	errLoggerRequired = errors.New("mailer logger is required")
)

// Sender abstracts message delivery so tests can capture instead of dial.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Message is one outbound email.
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer delivers messages through a configured SMTP account.
type Mailer struct {
	sender    Sender
	fromName  string
	fromEmail string
	logger    *logger.Logger
}

// Option customizes the mailer, mainly for tests.
type Option func(*Mailer)

// WithSender overrides the SMTP dialer.
func WithSender(sender Sender) Option {
	return func(m *Mailer) {
		if sender != nil {
			m.sender = sender
		}
	}
}

// New initializes the mailer against the configured SMTP account.
func New(ctx context.Context, smtp config.SMTPConfig, news config.NewsletterConfig, logg *logger.Logger, opts ...Option) (*Mailer, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	m := &Mailer{
		fromName:  news.FromName,
		fromEmail: news.FromEmail,
		logger:    logg,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.sender == nil {
		if strings.TrimSpace(smtp.Host) == "" {
			return nil, errHostRequired
		}
		m.sender = gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	}

	logg.Info(ctx, "mailer initialized")
	return m, nil
}

// Send delivers one message to every recipient.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one recipient is required")
	}

	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.fromEmail, m.fromName)
	mail.SetHeader("To", msg.To...)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.HTMLBody)

	ctx = m.logger.WithFields(ctx, map[string]any{
		"recipients": len(msg.To),
		"subject":    msg.Subject,
	})
	m.logger.Info(ctx, "sending newsletter email")

	if err := m.sender.DialAndSend(mail); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("sending email %q", msg.Subject))
	}
	return nil
}

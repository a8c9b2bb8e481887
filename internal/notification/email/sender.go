// Package email delivers confirmation messages through a pluggable transport.
package email

import (
	"context"
	"errors"
	"log/slog"

	emailaddr "petitions/pkg/email"
)

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers one message. Implementations make exactly one attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("email: no recipient")

func (m Message) validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}
	if err := emailaddr.Validate(m.To); err != nil {
		return err
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "email delivered to log",
		"from", msg.From,
		"to", emailaddr.Redact(msg.To),
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
	)
	return nil
}

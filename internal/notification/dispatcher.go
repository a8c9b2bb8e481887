// Package notification sends the confirmation email for a recorded
// signature. Each job gets one attempt; failures become an Outcome and are
// never retried.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"petitions/internal/notification/email"
	"petitions/internal/notification/metrics"
	"petitions/internal/petition/models"
	emailaddr "petitions/pkg/email"
	"petitions/pkg/platform/sentinel"
)

// Status classifies a dispatch attempt.
type Status string

const (
	StatusSent     Status = "sent"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// Outcome is the result of one confirmation attempt.
type Outcome struct {
	Status  Status
	Message string
}

// SignatureFinder loads a signature together with the petition it belongs to.
type SignatureFinder interface {
	FindSignatureWithPetition(ctx context.Context, id int64) (*models.Signature, *models.Petition, error)
}

// Dispatcher sends confirmation emails.
type Dispatcher struct {
	finder  SignatureFinder
	sender  email.Sender
	from    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type DispatcherOption func(*Dispatcher)

func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithDispatcherMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(finder SignatureFinder, sender email.Sender, from string, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		finder: finder,
		sender: sender,
		from:   from,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendConfirmation emails the signer the petition's subject and content.
// A signature deleted before the job ran yields StatusNotFound and no email.
func (d *Dispatcher) SendConfirmation(ctx context.Context, signatureID int64) Outcome {
	start := time.Now()
	outcome := d.send(ctx, signatureID)
	d.metrics.ObserveOutcome(string(outcome.Status), start)
	return outcome
}

func (d *Dispatcher) send(ctx context.Context, signatureID int64) Outcome {
	signature, petition, err := d.finder.FindSignatureWithPetition(ctx, signatureID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Outcome{
				Status:  StatusNotFound,
				Message: fmt.Sprintf("Error: Signature with ID %d not found", signatureID),
			}
		}
		return failed(err)
	}

	msg := email.Message{
		From:    d.from,
		To:      signature.Email,
		Subject: petition.EmailSubject,
		Body:    petition.EmailContent,
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.WarnContext(ctx, "confirmation email failed",
			"signature_id", signatureID,
			"to", emailaddr.Redact(signature.Email),
			"error", err,
		)
		return failed(err)
	}
	return Outcome{
		Status:  StatusSent,
		Message: fmt.Sprintf("Confirmation email sent to %s for petition: %s", signature.Email, petition.Name),
	}
}

func failed(err error) Outcome {
	return Outcome{
		Status:  StatusFailed,
		Message: fmt.Sprintf("Error sending confirmation email: %v", err),
	}
}

package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"petitions/pkg/platform/circuit"
)

// ErrCircuitOpen is returned without contacting the transport while its
// breaker is open.
var ErrCircuitOpen = errors.New("email: transport circuit open")

// BreakerSender stops calling a failing transport for a cooldown so a mail
// outage does not tie up every worker on connection timeouts.
type BreakerSender struct {
	next    Sender
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreakerSender(next Sender, breaker *circuit.Breaker, logger *slog.Logger) *BreakerSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakerSender{next: next, breaker: breaker, logger: logger}
}

func (s *BreakerSender) Send(ctx context.Context, msg Message) error {
	// Bad addresses say nothing about transport health.
	if err := msg.validate(); err != nil {
		return err
	}
	if !s.breaker.Allow() {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, s.breaker.Name())
	}

	if err := s.next.Send(ctx, msg); err != nil {
		if s.breaker.Failure() {
			s.logger.WarnContext(ctx, "email transport circuit opened",
				"transport", s.breaker.Name(),
				"error", err.Error(),
			)
		}
		return err
	}
	if s.breaker.Success() {
		s.logger.InfoContext(ctx, "email transport circuit closed", "transport", s.breaker.Name())
	}
	return nil
}

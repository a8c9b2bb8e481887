package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petitions/pkg/platform/circuit"
)

type countingSender struct {
	calls int
	err   error
}

func (s *countingSender) Send(context.Context, Message) error {
	s.calls++
	return s.err
}

func TestBreakerSender(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	next := &countingSender{err: errors.New("dial tcp: connection refused")}
	breaker := circuit.New("smtp",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	sender := NewBreakerSender(next, breaker, nil)
	ctx := context.Background()

	require.Error(t, sender.Send(ctx, confirmation))
	require.Error(t, sender.Send(ctx, confirmation))
	assert.Equal(t, circuit.StateOpen, breaker.State())

	err := sender.Send(ctx, confirmation)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, next.calls, "open circuit skips the transport")

	now = now.Add(time.Minute)
	next.err = nil
	require.NoError(t, sender.Send(ctx, confirmation))
	assert.Equal(t, circuit.StateClosed, breaker.State())
	assert.Equal(t, 3, next.calls)
}

func TestBreakerSenderFailedTrialKeepsCircuitOpen(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	next := &countingSender{err: errors.New("421 service not available")}
	breaker := circuit.New("smtp",
		circuit.WithFailureThreshold(1),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	sender := NewBreakerSender(next, breaker, nil)
	ctx := context.Background()

	require.Error(t, sender.Send(ctx, confirmation))
	now = now.Add(time.Minute)
	err := sender.Send(ctx, confirmation)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCircuitOpen, "the trial reached the transport")
	assert.Equal(t, 2, next.calls)

	assert.ErrorIs(t, sender.Send(ctx, confirmation), ErrCircuitOpen)
	assert.Equal(t, 2, next.calls)
}

func TestBreakerSenderIgnoresInvalidRecipients(t *testing.T) {
	next := &countingSender{}
	breaker := circuit.New("ses", circuit.WithFailureThreshold(1))
	sender := NewBreakerSender(next, breaker, nil)

	err := sender.Send(context.Background(), Message{Subject: "no one"})
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Equal(t, circuit.StateClosed, breaker.State())
	assert.Zero(t, next.calls)
}

package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newSMTPBreaker(clock *fakeClock) *Breaker {
	return New("smtp",
		WithFailureThreshold(3),
		WithCooldown(time.Minute),
		WithClock(clock.now),
	)
}

func TestBreakerDefaults(t *testing.T) {
	b := New("ses")
	assert.Equal(t, "ses", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)

	b = New("ses", WithFailureThreshold(0), WithCooldown(-time.Second))
	assert.Equal(t, 5, b.threshold, "non-positive threshold keeps the default")
	assert.Equal(t, 30*time.Second, b.cooldown)
}

func TestBreakerTripsAfterConsecutiveSendFailures(t *testing.T) {
	b := newSMTPBreaker(&fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)})

	assert.False(t, b.Failure())
	assert.False(t, b.Failure())
	assert.True(t, b.Allow(), "mail still flows below the threshold")

	assert.True(t, b.Failure(), "third refused connection trips the breaker")
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
	assert.False(t, b.Failure(), "late failures do not report a second trip")
}

func TestBreakerDeliveryResetsFailureStreak(t *testing.T) {
	b := newSMTPBreaker(&fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)})

	b.Failure()
	b.Failure()
	assert.False(t, b.Success(), "success on a closed breaker is not a recovery")
	b.Failure()
	b.Failure()
	assert.Equal(t, StateClosed, b.State(), "the streak restarted after a delivery")
}

func TestBreakerAdmitsOneTrialAfterCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	b := newSMTPBreaker(clock)
	for i := 0; i < 3; i++ {
		b.Failure()
	}

	clock.advance(59 * time.Second)
	assert.False(t, b.Allow(), "still cooling down")

	clock.advance(time.Second)
	require.True(t, b.Allow(), "first send after the cooldown is the trial")
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.Allow(), "other workers wait for the trial")

	assert.True(t, b.Success())
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestBreakerFailedTrialRestartsCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	b := newSMTPBreaker(clock)
	for i := 0; i < 3; i++ {
		b.Failure()
	}

	clock.advance(time.Minute)
	require.True(t, b.Allow())
	assert.False(t, b.Failure(), "a failed trial is not a fresh trip")
	assert.Equal(t, StateOpen, b.State())

	clock.advance(30 * time.Second)
	assert.False(t, b.Allow(), "cooldown counts from the failed trial")
	clock.advance(30 * time.Second)
	assert.True(t, b.Allow())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
}

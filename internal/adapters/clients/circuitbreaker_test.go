package clients

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   3,
		Timeout:       30 * time.Second,
		HalfOpenLimit: 2,
	})
}

func TestCircuitBreaker_InitialState(t *testing.T) {
	cb := newTestBreaker()

	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_ClosedToOpen(t *testing.T) {
	cb := newTestBreaker()

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker()

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_OpenToHalfOpenAfterTimeout(t *testing.T) {
	cb := newTestBreaker()

	now := time.Now()
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordFailure()
	require.Equal(t, StateOpen, cb.State())

	// Before the timeout passes, still blocked.
	assert.False(t, cb.Allow())

	now = now.Add(31 * time.Second)
	assert.True(t, cb.Allow(), "first probe allowed after timeout")
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb := newTestBreaker()

	now := time.Now()
	cb.now = func() time.Time { return now }

	for range 3 {
		cb.RecordFailure()
	}

	now = now.Add(time.Minute)
	require.True(t, cb.Allow())
	require.True(t, cb.Allow())

	assert.False(t, cb.Allow(), "probes beyond HalfOpenLimit are blocked")
}

func TestCircuitBreaker_HalfOpenToClosed(t *testing.T) {
	cb := newTestBreaker()

	now := time.Now()
	cb.now = func() time.Time { return now }

	for range 3 {
		cb.RecordFailure()
	}

	now = now.Add(time.Minute)
	require.True(t, cb.Allow())
	cb.RecordSuccess()
	require.True(t, cb.Allow())
	cb.RecordSuccess()

	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker()

	now := time.Now()
	cb.now = func() time.Time { return now }

	for range 3 {
		cb.RecordFailure()
	}

	now = now.Add(time.Minute)
	require.True(t, cb.Allow())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_StateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	cb := newTestBreaker()

	transitions := make(chan [2]State, 1)
	cb.OnStateChange(func(from, to State) {
		transitions <- [2]State{from, to}
	})

	for range 3 {
		cb.RecordFailure()
	}

	select {
	case got := <-transitions:
		assert.Equal(t, [2]State{StateClosed, StateOpen}, got)
	case <-time.After(time.Second):
		t.Fatal("state change callback never fired")
	}
}

package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(t *testing.T, cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time, *[]CircuitState) {
	t.Helper()

	var transitions []CircuitState
	b := NewCircuitBreaker("feed", cfg, func(name string, _, to CircuitState) {
		if name != "feed" {
			t.Errorf("unexpected breaker name %q", name)
		}
		transitions = append(transitions, to)
	})
	now := time.Date(2022, 9, 17, 13, 30, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now, &transitions
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	b, now, transitions := newTestBreaker(t, CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(*transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", *transitions)
	}
	for i := range want {
		if (*transitions)[i] != want[i] {
			t.Fatalf("unexpected transitions: %v", *transitions)
		}
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	b, now, _ := newTestBreaker(t, CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
	})

	b.RecordFailure()
	*now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_RecordIgnoresNonFailures(t *testing.T) {
	b, _, _ := newTestBreaker(t, CircuitBreakerConfig{Enabled: true, FailureThreshold: 1})

	errNotFound := errors.New("not found")
	b.Record(errNotFound, func(err error) bool { return !errors.Is(err, errNotFound) })
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, got %s", state)
	}

	b.Record(errors.New("bad gateway"), nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open, got %s", state)
	}
}

func TestCircuitBreaker_DisabledIsNil(t *testing.T) {
	b := NewCircuitBreaker("webhook", CircuitBreakerConfig{Enabled: false, FailureThreshold: 1}, nil)
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}

	for i := 0; i < 3; i++ {
		b.RecordFailure()
		if err := b.Allow(); err != nil {
			t.Fatalf("nil breaker must admit calls: %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, got %s", state)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: -3})
	want := DefaultCircuitBreakerConfig()
	if got.FailureThreshold != want.FailureThreshold || got.OpenTimeout != want.OpenTimeout || got.HalfOpenMaxReq != want.HalfOpenMaxReq {
		t.Fatalf("unexpected normalized config: %+v", got)
	}
}

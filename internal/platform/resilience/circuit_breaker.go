package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// StateChangeFunc observes breaker transitions. It runs outside the
// breaker lock.
type StateChangeFunc func(name string, from, to CircuitState)

// CircuitBreaker guards one upstream dependency. A nil *CircuitBreaker is
// valid and admits every call, which is what a disabled config produces.
type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig

	mu                  sync.Mutex
	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
	halfOpenSuccesses   int
	onStateChange       StateChangeFunc
	now                 func() time.Time
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig, onStateChange StateChangeFunc) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &CircuitBreaker{
		name:          name,
		cfg:           NormalizeCircuitBreakerConfig(cfg),
		state:         CircuitStateClosed,
		onStateChange: onStateChange,
		now:           time.Now,
	}
}

func (b *CircuitBreaker) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			b.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrCircuitOpen, b.name)
		}
		b.setState(CircuitStateHalfOpen)
	}

	var err error
	if b.state == CircuitStateHalfOpen {
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxReq {
			err = fmt.Errorf("%w: %s probe limit reached", ErrCircuitOpen, b.name)
		} else {
			b.halfOpenInFlight++
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures = 0
	case CircuitStateHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.cfg.HalfOpenMaxReq && b.halfOpenInFlight == 0 {
			b.setState(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			b.setState(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.setState(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// Record feeds the outcome of one admitted call. Errors for which
// isFailure reports false count as success, so caller mistakes such as
// a 404 never open the breaker.
func (b *CircuitBreaker) Record(err error, isFailure func(error) bool) {
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
		return
	}
	b.RecordSuccess()
}

// State reports the effective state. An open breaker past its timeout
// reads as half-open even before the next Allow moves it there.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// setState must be called with mu held.
func (b *CircuitBreaker) setState(to CircuitState) {
	b.state = to
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	switch to {
	case CircuitStateClosed:
		b.consecutiveFailures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from == to || b.onStateChange == nil {
		return
	}
	b.onStateChange(b.name, from, to)
}

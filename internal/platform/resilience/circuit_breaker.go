package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Allow while the breaker refuses traffic.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type breakerPhase int

const (
	phaseClosed breakerPhase = iota
	phaseOpen
	phaseHalfOpen
)

func (p breakerPhase) label() CircuitState {
	switch p {
	case phaseOpen:
		return CircuitStateOpen
	case phaseHalfOpen:
		return CircuitStateHalfOpen
	default:
		return CircuitStateClosed
	}
}

// CircuitBreaker trips after a streak of transient upstream failures and,
// once the cooldown elapses, admits a bounded number of trial requests
// before closing again.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold   int
	cooldown    time.Duration
	trialBudget int

	phase          breakerPhase
	failureStreak  int
	openUntil      time.Time
	trialsInFlight int
	trialsPassed   int

	clock func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		threshold:   failureThreshold,
		cooldown:    openTimeout,
		trialBudget: halfOpenMaxReq,
		clock:       time.Now,
	}
}

// Allow reports whether a request may proceed. The half-open phase admits
// at most trialBudget requests at a time.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == phaseOpen {
		if b.clock().Before(b.openUntil) {
			return ErrCircuitOpen
		}
		b.phase = phaseHalfOpen
		b.trialsInFlight = 0
		b.trialsPassed = 0
	}

	if b.phase == phaseHalfOpen {
		if b.trialsInFlight >= b.trialBudget {
			return ErrCircuitOpen
		}
		b.trialsInFlight++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseClosed:
		b.failureStreak = 0
	case phaseHalfOpen:
		if b.trialsInFlight > 0 {
			b.trialsInFlight--
		}
		b.trialsPassed++
		if b.trialsPassed >= b.trialBudget && b.trialsInFlight == 0 {
			b.reset()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseClosed:
		b.failureStreak++
		if b.failureStreak >= b.threshold {
			b.trip()
		}
	case phaseHalfOpen:
		// A single failed trial request sends the breaker straight back to open.
		b.trip()
	case phaseOpen:
		b.openUntil = b.clock().Add(b.cooldown)
	}
}

// State reports the observable phase. An expired cooldown shows up as
// half-open even before the next Allow performs the transition.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == phaseOpen && !b.clock().Before(b.openUntil) {
		return CircuitStateHalfOpen
	}
	return b.phase.label()
}

func (b *CircuitBreaker) trip() {
	b.phase = phaseOpen
	b.openUntil = b.clock().Add(b.cooldown)
	b.trialsInFlight = 0
	b.trialsPassed = 0
}

func (b *CircuitBreaker) reset() {
	b.phase = phaseClosed
	b.failureStreak = 0
	b.trialsInFlight = 0
	b.trialsPassed = 0
	b.openUntil = time.Time{}
}

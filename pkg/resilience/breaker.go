package resilience

import (
	"errors"
	"sync"
	"time"

	"mindbloom/backend/pkg/logger"
)

// ErrOpen is returned when the breaker is open and the call is short-circuited
var ErrOpen = errors.New("circuit open")

// State represents the current state of a breaker
type State string

const (
	// StateClosed means calls are allowed to pass through
	StateClosed State = "closed"
	// StateOpen means calls are being short-circuited
	StateOpen State = "open"
	// StateHalfOpen means a limited number of probe calls are allowed
	StateHalfOpen State = "half-open"
)

// Settings configures a Breaker
type Settings struct {
	Name             string
	FailureThreshold uint
	SuccessThreshold uint
	RetryTimeout     time.Duration
}

// DefaultSettings returns defaults suitable for an upstream API dependency
func DefaultSettings(name string) Settings {
	return Settings{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		RetryTimeout:     30 * time.Second,
	}
}

// Breaker guards calls to an unreliable dependency. After FailureThreshold
// consecutive failures it opens and fails fast until RetryTimeout passes,
// then lets probe calls through until SuccessThreshold successes close it.
type Breaker struct {
	name             string
	state            State
	failureThreshold uint
	successThreshold uint
	retryTimeout     time.Duration
	failureCount     uint
	successCount     uint
	nextAttemptTime  time.Time
	mutex            sync.Mutex
	log              *logger.Logger
}

// NewBreaker creates a breaker with the given settings
func NewBreaker(settings Settings, log *logger.Logger) *Breaker {
	return &Breaker{
		name:             settings.Name,
		state:            StateClosed,
		failureThreshold: settings.FailureThreshold,
		successThreshold: settings.SuccessThreshold,
		retryTimeout:     settings.RetryTimeout,
		log:              log,
	}
}

// Do runs fn through the breaker. When the breaker is open it returns
// ErrOpen without calling fn.
func (b *Breaker) Do(fn func() error) error {
	if !b.allow() {
		b.log.Warn("Circuit breaker short-circuiting call", "name", b.name)
		return ErrOpen
	}

	if err := fn(); err != nil {
		b.recordFailure(err)
		return err
	}

	b.recordSuccess()
	return nil
}

// State returns the breaker's current state
func (b *Breaker) State() State {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.state
}

func (b *Breaker) allow() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().After(b.nextAttemptTime) {
			b.state = StateHalfOpen
			b.successCount = 0
			b.log.Info("Circuit breaker half-open", "name", b.name)
			return true
		}
		return false
	case StateHalfOpen:
		return b.successCount < b.successThreshold
	}

	return false
}

func (b *Breaker) recordSuccess() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount = 0
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = StateClosed
			b.failureCount = 0
			b.log.Info("Circuit breaker closed", "name", b.name)
		}
	}
}

func (b *Breaker) recordFailure(err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount++
		if b.failureCount >= b.failureThreshold {
			b.open()
		}
	case StateHalfOpen:
		b.open()
	}

	b.log.Warn("Circuit breaker recorded failure",
		"name", b.name,
		"state", string(b.state),
		"error", err.Error(),
	)
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.nextAttemptTime = time.Now().Add(b.retryTimeout)
	b.log.Info("Circuit breaker opened",
		"name", b.name,
		"failures", b.failureCount,
		"nextAttempt", b.nextAttemptTime.Format(time.RFC3339),
	)
}

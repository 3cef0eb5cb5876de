// Package circuitbreaker wraps sony/gobreaker with typed results and the
// error codes the rest of the service understands.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ardika/scanarb/internal/apperror"
)

// Config controls when a breaker trips and how long it stays open.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultConfig returns settings suited to upstream HTTP providers:
// trip after 5 consecutive failures, probe again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// CircuitBreaker guards calls that return a value of type T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a breaker from cfg.
func New[T any](cfg Config) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker. While the breaker is open it fails
// fast with CodeCircuitOpen instead of calling fn.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := c.cb.Execute(fn)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		var zero T
		return zero, apperror.New(apperror.CodeCircuitOpen,
			apperror.WithCause(err),
			apperror.WithContext("breaker", c.cb.Name()),
		)
	}
	return result, err
}

// State reports the breaker's current state name (closed, half-open, open).
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}

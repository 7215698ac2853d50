// Package resilience provides fault tolerance patterns for external service calls.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	Name             string        // Name for logging/metrics
	FailureThreshold uint32        // Consecutive failures before opening (default: 5)
	Cooldown         time.Duration // Time to wait before half-open (default: 30s)
	HalfOpenRequests uint32        // Max requests allowed in half-open (default: 1)
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig(name string) *BreakerConfig {
	return &BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// Breaker wraps gobreaker with a func() error interface.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a circuit breaker with the given config.
func NewBreaker(cfg *BreakerConfig) *Breaker {
	if cfg == nil {
		cfg = DefaultBreakerConfig("default")
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn with circuit breaker protection.
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// Name returns the breaker name.
func (b *Breaker) Name() string {
	return b.cb.Name()
}

// State returns the current state as a string (closed, open, half-open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}

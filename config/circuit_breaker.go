package config

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	BreakerMaps   = "GoogleMaps"
	BreakerOpenAI = "OpenAI"
)

// NewCircuitBreaker creates a circuit breaker for a remote dependency.
// The circuit opens after 3 consecutive failures. A call abandoned because
// its caller cancelled is not counted against the dependency.
func NewCircuitBreaker(name string, log *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration
	switch name {
	case BreakerMaps:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

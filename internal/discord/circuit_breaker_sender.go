package discord

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"noterelay/internal/config"
	"noterelay/pkg/circuitbreaker"
)

const breakerName = "discord-delivery"

// CircuitBreakerSender stops calling Discord while it is failing. Only
// transport errors and 5xx responses count as failures; 4xx answers mean
// Discord is healthy and the request itself was bad.
type CircuitBreakerSender struct {
	next    Sender
	breaker *circuitbreaker.Breaker
}

func NewCircuitBreakerSender(next Sender, cfg config.CircuitBreakerConfig) *CircuitBreakerSender {
	settings := circuitbreaker.SettingsFromConfig(breakerName, cfg)
	settings.IsSuccessful = func(err error) bool {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return !statusErr.ServerSide()
		}
		return err == nil
	}

	return &CircuitBreakerSender{
		next:    next,
		breaker: circuitbreaker.New(settings),
	}
}

func (s *CircuitBreakerSender) Execute(ctx context.Context, hook Webhook, msg Message) error {
	err := s.breaker.Run(ctx, func(ctx context.Context) error {
		return s.next.Execute(ctx, hook, msg)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &TransportError{Op: "circuit " + breakerName, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			return &TransportError{Op: "post", Err: err}
		}
	}
	return err
}

func (s *CircuitBreakerSender) State() string {
	return s.breaker.State().String()
}

func (s *CircuitBreakerSender) IsOpen() bool {
	return s.breaker.IsOpen()
}

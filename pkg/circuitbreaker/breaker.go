package circuitbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"noterelay/internal/config"
	"noterelay/pkg/metrics"
)

const (
	defaultMaxRequests  = 3
	defaultInterval     = 60 * time.Second
	defaultTimeout      = 30 * time.Second
	defaultFailureRatio = 0.5
	defaultMinRequests  = 5
)

// Settings configures a Breaker. Zero values fall back to the package defaults.
type Settings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
	// IsSuccessful decides which errors count against the breaker. nil counts every error.
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from, to gobreaker.State)
}

// SettingsFromConfig maps the circuit_breaker config section onto Settings.
func SettingsFromConfig(name string, cfg config.CircuitBreakerConfig) Settings {
	return Settings{
		Name:         name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		FailureRatio: cfg.FailureRatio,
		MinRequests:  cfg.MinRequests,
	}
}

func (s Settings) withDefaults() Settings {
	if s.MaxRequests == 0 {
		s.MaxRequests = defaultMaxRequests
	}
	if s.Interval <= 0 {
		s.Interval = defaultInterval
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = defaultFailureRatio
	}
	if s.MinRequests == 0 {
		s.MinRequests = defaultMinRequests
	}
	return s
}

// Breaker trips once at least MinRequests calls were made in the current
// interval and the failure share reached FailureRatio.
type Breaker struct {
	cb           *gobreaker.CircuitBreaker
	isSuccessful func(err error) bool
}

func New(s Settings) *Breaker {
	s = s.withDefaults()

	isSuccessful := s.IsSuccessful
	if isSuccessful == nil {
		isSuccessful = func(err error) bool { return err == nil }
	}

	minRequests, failureRatio := s.MinRequests, s.FailureRatio
	settings := gobreaker.Settings{
		Name:         s.Name,
		MaxRequests:  s.MaxRequests,
		Interval:     s.Interval,
		Timeout:      s.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			setStateGauge(name, to)
			if s.OnStateChange != nil {
				s.OnStateChange(name, from, to)
			}
		},
	}

	cb := gobreaker.NewCircuitBreaker(settings)
	setStateGauge(s.Name, cb.State())

	return &Breaker{cb: cb, isSuccessful: isSuccessful}
}

// Run calls fn through the breaker. A done ctx short-circuits without
// touching the breaker counts. While open, Run returns gobreaker.ErrOpenState
// or gobreaker.ErrTooManyRequests without calling fn.
func (b *Breaker) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	state := b.cb.State().String()
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})

	metrics.CircuitBreakerRequests.WithLabelValues(b.cb.Name(), state).Inc()
	if err != nil && !b.isSuccessful(err) {
		metrics.CircuitBreakerFailures.WithLabelValues(b.cb.Name()).Inc()
	}
	return err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

func (b *Breaker) Name() string {
	return b.cb.Name()
}

func (b *Breaker) IsOpen() bool {
	return b.cb.State() == gobreaker.StateOpen
}

func setStateGauge(name string, state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(v)
}

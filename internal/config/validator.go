package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateServer(cfg.Server); err != nil {
		errs = append(errs, err)
	}

	if err := validateLogging(cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	if err := validateDedup(cfg.Dedup); err != nil {
		errs = append(errs, err)
	}

	if err := validateDelivery(cfg.Delivery); err != nil {
		errs = append(errs, err)
	}

	if cfg.RateLimit.Enabled {
		if err := validateRateLimit(cfg.RateLimit); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.CircuitBreaker.Enabled {
		if err := validateCircuitBreaker(cfg.CircuitBreaker); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateServer(cfg ServerConfig) error {
	if len(cfg.ListenAddrs) == 0 && (cfg.Port < 1 || cfg.Port > 65535) {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	for i, addr := range cfg.ListenAddrs {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return &ValidationError{
				Field:   fmt.Sprintf("server.listen_addrs[%d]", i),
				Message: fmt.Sprintf("listen address %q is invalid: %v", addr, err),
			}
		}
	}

	if cfg.ReadTimeout <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeout <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		}
	}

	if cfg.MaxBodyBytes <= 0 {
		return &ValidationError{
			Field:   "server.max_body_bytes",
			Message: "max body size must be positive",
		}
	}

	return nil
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Format {
	case "", "json", "console":
		return nil
	default:
		return &ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown log format: %s (supported: json, console)", cfg.Format),
		}
	}
}

func validateDedup(cfg DedupConfig) error {
	if cfg.Capacity <= 0 {
		return &ValidationError{
			Field:   "dedup.capacity",
			Message: fmt.Sprintf("capacity must be positive, got %d", cfg.Capacity),
		}
	}
	return nil
}

func validateDelivery(cfg DeliveryConfig) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:   "delivery.base_url",
			Message: fmt.Sprintf("base URL must be an absolute http(s) URL, got %q", cfg.BaseURL),
		}
	}

	if cfg.UserAgent == "" {
		return &ValidationError{
			Field:   "delivery.user_agent",
			Message: "user agent cannot be empty",
		}
	}

	if cfg.Timeout <= 0 {
		return &ValidationError{
			Field:   "delivery.timeout",
			Message: "timeout must be positive",
		}
	}

	return nil
}

func validateRateLimit(cfg RateLimitConfig) error {
	if cfg.RPS <= 0 {
		return &ValidationError{
			Field:   "rate_limit.rps",
			Message: "rps must be positive",
		}
	}

	if cfg.Burst <= 0 {
		return &ValidationError{
			Field:   "rate_limit.burst",
			Message: "burst must be positive",
		}
	}

	if cfg.CleanupInterval <= 0 {
		return &ValidationError{
			Field:   "rate_limit.cleanup_interval",
			Message: "cleanup interval must be positive",
		}
	}

	return nil
}

func validateCircuitBreaker(cfg CircuitBreakerConfig) error {
	if cfg.FailureRatio < 0 || cfg.FailureRatio > 1 {
		return &ValidationError{
			Field:   "circuit_breaker.failure_ratio",
			Message: fmt.Sprintf("failure ratio must be within [0, 1], got %v", cfg.FailureRatio),
		}
	}

	if cfg.Timeout < 0 || cfg.Interval < 0 {
		return &ValidationError{
			Field:   "circuit_breaker.timeout",
			Message: "timeout and interval must be non-negative",
		}
	}

	return nil
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"noterelay/internal/config"
	"noterelay/internal/logger"
)

// ShutdownFunc releases one resource during shutdown.
type ShutdownFunc func(ctx context.Context) error

type Base struct {
	Config *config.Config
	Logger logger.Logger

	closers []namedCloser
}

type namedCloser struct {
	name string
	fn   ShutdownFunc
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config: cfg,
		Logger: log,
	}
}

// OnShutdown registers fn to run during Shutdown. Closers run in reverse
// registration order.
func (b *Base) OnShutdown(name string, fn ShutdownFunc) {
	b.closers = append(b.closers, namedCloser{name: name, fn: fn})
}

func (b *Base) Shutdown(ctx context.Context) error {
	b.Logger.Info("Shutting down application...")

	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		c := b.closers[i]
		if err := c.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown error: %w", c.name, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	b.Logger.Info("Application exited successfully")
	return nil
}

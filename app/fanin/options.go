package fanin

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adamzdara/Sample-Codes/core/mq"
)

// AppOption configures an App.
type AppOption func(*App) error

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithRegistry sets the Prometheus registry served on /metrics.
func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = reg
		return nil
	}
}

// WithHandler replaces the default logging handler used for configured identifiers.
func WithHandler(h mq.Handler) AppOption {
	return func(app *App) error {
		if h == nil {
			return errors.New("handler cannot be nil")
		}
		app.handler = h
		return nil
	}
}

// WithChild attaches an extra child queue. If the queue has a
// Run(context.Context) error method it runs alongside the backends.
func WithChild(q mq.Queue) AppOption {
	return func(app *App) error {
		if q == nil {
			return errors.New("child queue cannot be nil")
		}
		app.extra = append(app.extra, q)
		return nil
	}
}

package fanin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/adamzdara/Sample-Codes/core/config"
	"github.com/adamzdara/Sample-Codes/core/health"
	"github.com/adamzdara/Sample-Codes/core/logger"
	"github.com/adamzdara/Sample-Codes/core/mq"
	"github.com/adamzdara/Sample-Codes/core/server"
)

// App aggregates every configured backend behind one CompositeQueue and
// serves metrics and health endpoints.
type App struct {
	config    Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	handler   mq.Handler
	extra     []mq.Queue
	composite *mq.CompositeQueue
	server    *server.Server
}

// NewApp loads Config from the environment, applies opts and builds the
// composite queue and HTTP server. Backends connect in Run.
func NewApp(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(app.config)
	}

	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		)
	}

	metrics, err := mq.NewPrometheusMetrics(app.config.MetricsNamespace, app.registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	compositeOpts := []mq.CompositeOption{
		mq.WithCompositeName(app.config.AppName),
		mq.WithCompositeLogger(app.logger),
		mq.WithMetrics(metrics),
	}
	if app.config.RejectDuplicateChildren {
		compositeOpts = append(compositeOpts, mq.WithRejectDuplicateChildren())
	}
	app.composite = mq.NewCompositeQueue(compositeOpts...)

	if app.handler == nil {
		app.handler = app.logMessage
	}
	app.handler = mq.Chain(app.handler,
		mq.Logging(app.logger),
		mq.Retry(app.config.HandlerRetries, 100*time.Millisecond),
		mq.Timeout(app.config.HandlerTimeout),
	)

	srv, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
	if err != nil {
		return nil, err
	}
	app.server = srv

	return app, nil
}

// Composite returns the application's composite queue.
func (a *App) Composite() *mq.CompositeQueue {
	return a.composite
}

// Ready is closed once the HTTP server accepts connections.
func (a *App) Ready() <-chan struct{} {
	return a.server.Ready()
}

// Addr returns the HTTP server address.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Run connects the backends, attaches them to the composite, subscribes the
// configured identifiers and blocks until ctx is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	backends, err := a.connectBackends(ctx)
	defer func() {
		if err := a.composite.Close(); err != nil && !errors.Is(err, mq.ErrQueueClosed) {
			a.logger.Error("composite close failed", logger.Error(err))
		}
		for _, b := range backends {
			if b.closer == nil {
				continue
			}
			if err := b.closer(); err != nil {
				a.logger.Warn("backend close failed", logger.Queue(b.name), logger.Error(err))
			}
		}
	}()
	if err != nil {
		return err
	}

	checks := make([]health.Check, 0, len(backends))
	for _, b := range backends {
		if err := a.composite.AddChild(b.queue); err != nil {
			return fmt.Errorf("attach %s: %w", b.name, err)
		}
		if b.check != nil {
			checks = append(checks, b.check)
		}
	}

	for _, id := range a.config.Identifiers {
		if _, err := a.composite.Subscribe(id, a.handler); err != nil {
			return fmt.Errorf("subscribe %q: %w", id, err)
		}
	}

	stats := a.composite.Stats()
	a.logger.Info("fan-in ready",
		logger.Count("children", stats.Children),
		logger.Count("observers", stats.Observers),
		logger.Count("bindings", stats.Bindings))

	g, ctx := errgroup.WithContext(ctx)

	for _, b := range backends {
		if b.run == nil {
			continue
		}
		g.Go(func() error {
			if err := b.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s: %w", b.name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return a.server.Run(ctx, a.routes(checks))
	})

	return g.Wait()
}

func (a *App) routes(checks []health.Check) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /health/live", health.Liveness())
	mux.Handle("GET /health/ready", health.Readiness(a.logger, checks...))
	return mux
}

func (a *App) logMessage(ctx context.Context, msg mq.Message) error {
	a.logger.InfoContext(ctx, "message received",
		logger.Identifier(msg.Identifier),
		logger.MessageID(msg.ID))
	return nil
}

func newLogger(cfg Config) *slog.Logger {
	if cfg.Env == "production" {
		return logger.New(logger.WithProduction(cfg.AppName), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(logger.WithDevelopment(cfg.AppName))
}

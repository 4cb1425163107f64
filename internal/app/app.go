package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sentoz/schema-server/internal/config"
	"github.com/sentoz/schema-server/internal/document"
	"github.com/sentoz/schema-server/internal/metrics"
	"github.com/sentoz/schema-server/internal/scheduler"
	"github.com/sentoz/schema-server/internal/tracing"
	"github.com/sentoz/schema-server/internal/vars"
	"github.com/sentoz/schema-server/internal/watcher"
	"github.com/sentoz/schema-server/internal/web"
)

const watcherJobName = "watcher:document"

// App represents the main application with all its dependencies.
type App struct {
	cfg          *config.Config
	source       *document.Source
	metrics      *metrics.Metrics
	tracer       *tracing.Tracer
	scheduler    *scheduler.Scheduler
	watcher      *watcher.Watcher
	schemaServer *web.Server
	opsServer    *web.Server
}

// New creates and initializes a new App instance. The public listener is
// bound here, so an unusable address fails startup.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	source := document.NewSource(cfg.DocumentPath)

	// Collectors back the request instrumentation even when /metrics is off.
	m := metrics.New()

	tracer, err := tracing.New(ctx, tracing.Config{
		ServiceName:    vars.Name,
		ServiceVersion: vars.Version,
		Exporter:       cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRate:     cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("create tracer: %w", err)
	}

	sched, err := scheduler.New(1)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	a := &App{
		cfg:       cfg,
		source:    source,
		metrics:   m,
		tracer:    tracer,
		scheduler: sched,
	}

	if cfg.Watch.Enabled {
		a.watcher, err = watcher.New(source, m, nil)
		if err != nil {
			return nil, fmt.Errorf("create watcher: %w", err)
		}
	}

	public, err := web.NewPublicHandler(cfg.Route, source, m, tracer)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("create schema handler: %w", err)
	}

	a.schemaServer, err = web.NewServer("schema", cfg.Listen, public, cfg.ReadHeaderTimeout.Std())
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("create schema server: %w", err)
	}

	opsAddr := fmt.Sprintf(":%d", cfg.MetricsPort)
	a.opsServer, err = web.NewServer("ops", opsAddr,
		web.NewOpsHandler(source.Stat, m, cfg.MetricsEnabled),
		cfg.ReadHeaderTimeout.Std())
	if err != nil {
		log.Warn().
			Str("addr", opsAddr).
			Err(err).
			Msg("Failed to create operations server, metrics/health endpoints will be unavailable")
		// Continue without ops server
		a.opsServer = nil
	}

	return a, nil
}

// SchemaAddr returns the bound address of the public listener.
func (a *App) SchemaAddr() string {
	return a.schemaServer.Addr()
}

// Run starts the servers and background jobs and blocks until the context
// is canceled.
func (a *App) Run(ctx context.Context) error {
	if a.watcher != nil {
		w := a.watcher
		if err := a.scheduler.AddIntervalJob(watcherJobName, a.cfg.Watch.Interval.Std(), func() {
			w.Check(ctx)
		}); err != nil {
			return fmt.Errorf("register document watcher: %w", err)
		}
	}

	if err := a.source.Stat(); err != nil {
		log.Warn().Err(err).Msg("Document is not available yet, requests will fail until it appears")
	}

	a.schemaServer.Start()
	if a.opsServer != nil {
		a.opsServer.Start()
	}

	log.Info().
		Str("route", a.cfg.Route).
		Str("document_path", a.cfg.DocumentPath).
		Bool("watch", a.watcher != nil).
		Bool("tracing", a.tracer.Enabled()).
		Msg("schema-server started")

	// Blocks until the context is canceled
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("scheduler stopped with error: %w", err)
	}

	log.Info().Msg("schema-server stopped")
	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if a.schemaServer != nil {
		if err := a.schemaServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.opsServer != nil {
		if err := a.opsServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	a.scheduler.Stop()

	if err := a.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
	}

	return errors.Join(errs...)
}

// cleanup releases what New created before a startup failure.
func (a *App) cleanup() {
	a.scheduler.Stop()
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		log.Debug().Err(err).Msg("Tracer shutdown after failed startup")
	}
}

// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vitrine/internal/api"
	"github.com/starford/vitrine/internal/reveal"
	"github.com/starford/vitrine/internal/siteservice"
	"github.com/starford/vitrine/internal/source"
	"github.com/starford/vitrine/internal/sse"
)

// sweepEvery is how often idle reveal instances are looked for.
const sweepEvery = time.Minute

// newApplication applies opts and checks that a configuration was given.
func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger builds the structured JSON logger and installs it as the default.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// newSource builds the content source selected by the configuration.
func newSource(cfg *SourceConfig) (source.Source, error) {
	switch cfg.Mode {
	case SourceModeFile:
		src, err := source.NewFile(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("init file source: %w", err)
		}
		return src, nil
	case SourceModeHTTP, "":
		return source.NewHTTP(cfg.BaseURL, cfg.HTTPOptions()...), nil
	default:
		return nil, fmt.Errorf("unknown source mode %q", cfg.Mode)
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("version", app.version),
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source_mode", cfg.Source.Mode),
		slog.String("source_base_url", cfg.Source.BaseURL),
		slog.String("source_dir", cfg.Source.Dir),
		slog.Duration("refresh_interval", cfg.Source.RefreshInterval),
		slog.String("log_level", cfg.App.LogLevel.String()))

	src, err := newSource(&cfg.Source)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	svc := siteservice.New(src,
		siteservice.WithInterval(cfg.Source.RefreshInterval),
		siteservice.WithLogger(logger),
		siteservice.WithPublisher(broker),
	)

	obs := reveal.NewObserver(cfg.Reveal.Options())
	defer obs.Close()

	apiRouter := api.NewRouter(svc, obs, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	// Ready once either collection has been fetched at least once.
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if svc.Version() == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"starting"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(runCtx)

	// Poll the content source.
	svc.Start(gCtx)
	g.Go(func() error {
		<-gCtx.Done()
		svc.Stop()
		return nil
	})

	// In file mode, refresh as soon as a content file changes.
	if cfg.Source.Mode == SourceModeFile {
		g.Go(func() error {
			if err := source.Watch(gCtx, cfg.Source.Dir, logger, svc.FileChanged); err != nil {
				logger.Warn("content watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Release reveal instances whose clients went away.
	g.Go(func() error {
		obs.RunSweeper(gCtx, sweepEvery, cfg.Reveal.IdleTTL, logger)
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// SSE handlers only return once the broker closes their channels.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

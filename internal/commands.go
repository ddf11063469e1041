package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/vitrine/internal/mcpserver"
	"github.com/starford/vitrine/internal/siteservice"
	"github.com/starford/vitrine/internal/source"
)

// Resolve fetches both collections once and writes the resolved page as
// indented JSON to w. An unreachable source is logged and the defaults are
// written, the same way the page would render.
func Resolve(ctx context.Context, w io.Writer, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	src, err := newSource(&app.config.Source)
	if err != nil {
		return err
	}
	svc := siteservice.New(src, siteservice.WithLogger(logger))
	if err := svc.Refresh(ctx); err != nil {
		logger.Warn("refresh failed, writing defaults", slog.String("error", err.Error()))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(svc.View().Map()); err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	return nil
}

// ServeMCP keeps the content fresh and serves the MCP tools on stdio until
// stdin closes.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	src, err := newSource(&cfg.Source)
	if err != nil {
		return err
	}
	svc := siteservice.New(src,
		siteservice.WithInterval(cfg.Source.RefreshInterval),
		siteservice.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc.Start(ctx)
	defer svc.Stop()

	if cfg.Source.Mode == SourceModeFile {
		go func() {
			if err := source.Watch(ctx, cfg.Source.Dir, logger, svc.FileChanged); err != nil {
				logger.Warn("content watcher stopped", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("MCP server starting on stdio", slog.String("version", app.version))
	return mcpserver.New(svc, app.version).ServeStdio()
}

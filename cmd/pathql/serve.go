// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/pathql/pathql/internal/config"
	"github.com/pathql/pathql/internal/logging"
	"github.com/pathql/pathql/internal/luamodifier"
	"github.com/pathql/pathql/internal/modifierdir"
	"github.com/pathql/pathql/internal/observability"
	"github.com/pathql/pathql/pkg/errutil"
)

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	addr      string
	logFormat string
}

const (
	defaultServeAddr = "127.0.0.1:9101"
	defaultLogFormat = "json"
)

// NewServeCmd creates the serve subcommand, which runs the /query, /metrics,
// /healthz/liveness and /healthz/readiness HTTP endpoints (spec's ambient observability surface)
// until it receives a shutdown signal.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run pathql as an HTTP query server",
		Long: `Start an HTTP server exposing a /query endpoint for evaluating path
expressions against a posted JSON document, along with /metrics,
/healthz/liveness and /healthz/readiness for operational monitoring.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", defaultServeAddr, "HTTP listen address")
	cmd.Flags().StringVar(&cfg.logFormat, "log-format", defaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(ctx context.Context, cfg *serveConfig, cmd *cobra.Command) error {
	logging.SetDefault("pathql", version, cfg.logFormat)

	slog.Info("starting pathql server", "addr", cfg.addr)

	cliCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("operation", "load config").Wrap(err)
	}

	ready := false
	srv := observability.NewServer(cfg.addr, func() bool { return ready })

	if cliCfg.ModifierDir != "" {
		names, loadErr := modifierdir.Load(ctx, cliCfg.ModifierDir, srv.Modifiers(), luamodifier.NewHost())
		if loadErr != nil {
			return oops.Code("MODIFIER_LOAD_FAILED").With("dir", cliCfg.ModifierDir).Wrap(loadErr)
		}
		slog.Info("loaded custom modifiers", "dir", cliCfg.ModifierDir, "names", names)
	}

	errChan, err := srv.Start()
	if err != nil {
		return oops.Code("SERVER_START_FAILED").With("operation", "start observability server").With("addr", cfg.addr).Wrap(err)
	}
	ready = true

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go monitorServerErrors(ctx, cancel, errChan)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("pathql server listening on " + srv.Addr())
	slog.Info("pathql server ready", "addr", srv.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		errutil.LogError(slog.Default(), "error stopping pathql server", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// monitorServerErrors watches errChan for an async serve error and
// triggers shutdown if one arrives before the channel closes cleanly.
func monitorServerErrors(ctx context.Context, cancel func(), errChan <-chan error) {
	select {
	case err, ok := <-errChan:
		if !ok {
			return
		}
		if err != nil {
			errutil.LogError(slog.Default(), "server error, triggering shutdown", err)
			cancel()
		}
	case <-ctx.Done():
	}
}

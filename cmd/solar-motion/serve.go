package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/openhelio/solar-motion/internal/adapter/http"
	"github.com/openhelio/solar-motion/internal/config"
	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/observability"
	"github.com/openhelio/solar-motion/internal/pipeline"
	"github.com/openhelio/solar-motion/internal/render"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the visualization HTTP service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	renderer := render.NewFrameRenderer(render.DefaultStyle())
	runner := pipeline.NewRunner(domain.DefaultTable(), renderer, logger, metrics, cfg.ShareLink, cfg.GIFFPS, cfg.QRSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, cfg.MaxUploadBytes(), cfg.QRSize, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the renderer so /readyz flips once the first frame can actually
	// be produced.
	go func() {
		if err := runner.Warmup(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("renderer warmup failed", "error", err)
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

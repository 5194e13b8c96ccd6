package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"dafoerum/internal/devreload"
	"dafoerum/internal/metrics"
	apptracing "dafoerum/internal/otel"
	"dafoerum/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forum server",
	Long:  "Start the forum website, the JSON API and, in development, the hot reload listener.",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from SITE_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Site.Addr = serveAddr
	}

	shutdownTracing, err := apptracing.Init(ctx, cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup_failed", slog.String("error", err.Error()))
		return err
	}
	defer closeStore()

	cacheClient := openCache(ctx, cfg.Redis, logger)
	defer cacheClient.Close()

	objects, err := openStorage(ctx, cfg.MinIO, logger)
	if err != nil {
		logger.Error("startup_failed", slog.String("error", err.Error()))
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	forumMetrics := metrics.New(reg)

	forums := service.NewForumService(store, service.ForumOptions{
		Cache:    postCache(cacheClient),
		CacheTTL: cfg.Redis.LatestPostsTTL,
		Metrics:  forumMetrics,
		Logger:   logger,
	})
	attachments := service.NewAttachmentService(objects, store, forumMetrics)

	var reload *devreload.Server
	reloadPort := 0
	if cfg.IsDevelopment() {
		reload = devreload.New(logger)
		reloadPort = cfg.Site.ReloadPort
	}

	app, err := newApp(appDeps{
		cfg:         cfg,
		log:         logger,
		registry:    reg,
		metrics:     forumMetrics,
		limiter:     cacheClient,
		forums:      forums,
		attachments: attachments,
		ping:        store.Ping,
		reloadPort:  reloadPort,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listening", slog.String("addr", cfg.Site.Addr), slog.String("store", cfg.StoreDriver))
		errCh <- app.Listen(cfg.Site.Addr)
	}()
	if reload != nil {
		go func() {
			if err := reload.Listen(cfg.Site.ReloadAddr()); err != nil {
				logger.Warn("dev_reload_stopped", slog.String("error", err.Error()))
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("server_failed", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if reload != nil {
		errs = append(errs, reload.Shutdown(shutdownCtx))
	}
	errs = append(errs, app.ShutdownWithContext(shutdownCtx))
	errs = append(errs, shutdownTracing(shutdownCtx))
	return errors.Join(errs...)
}

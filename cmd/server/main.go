package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"personalinfo/internal/personalinfo/handler"
	"personalinfo/internal/personalinfo/metrics"
	"personalinfo/internal/personalinfo/service"
	"personalinfo/internal/platform/config"
	"personalinfo/internal/platform/httpserver"
	"personalinfo/internal/platform/logger"
	platformmetrics "personalinfo/internal/platform/metrics"
	httptransport "personalinfo/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the server
// lifecycle small. Business logic lives in internal/personalinfo.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("failed to close store", "error", err)
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)
	svc := service.New(store, service.WithLogger(log), service.WithMetrics(m))
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
		Health:         store,
		Gatherer:       prometheus.DefaultGatherer,
		HTTPMetrics:    platformmetrics.New(prometheus.DefaultRegisterer),
	}, handler.New(svc, log, m))

	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting personalinfo server", "addr", cfg.Server.Addr, "backend", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"cimrepo/internal/dispatch"
	"cimrepo/internal/dispatch/metrics"
	"cimrepo/internal/platform/config"
	"cimrepo/internal/platform/httpserver"
	"cimrepo/internal/platform/logger"
	"cimrepo/internal/provider"
	"cimrepo/internal/repository"
	httptransport "cimrepo/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Repository semantics live in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	repo := repository.New()
	if err := repo.AddNamespace(cfg.DefaultNamespace); err != nil {
		log.Error("failed to create default namespace", "error", err)
		os.Exit(1)
	}
	if err := seedQualifiers(repo, cfg.DefaultNamespace); err != nil {
		log.Error("failed to seed qualifier declarations", "error", err)
		os.Exit(1)
	}

	registry := provider.NewRegistry(repo, log)
	service := dispatch.New(repo, registry, log, metrics.New())
	handler := httptransport.NewHandler(service, log)
	router := httptransport.NewRouter(handler)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting cimrepo server",
			"addr", cfg.Addr, "namespace", cfg.DefaultNamespace)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

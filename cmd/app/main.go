package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/split-ledger/pkg/api"
	"github.com/chris/split-ledger/pkg/audit"
	"github.com/chris/split-ledger/pkg/bootstrap"
	"github.com/chris/split-ledger/pkg/config"
	"github.com/chris/split-ledger/pkg/expenses"
	"github.com/chris/split-ledger/pkg/handlers"
	"github.com/chris/split-ledger/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	notifier, drainNotifier, err := bootstrap.NewNotifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create notifier", "error", err)
		os.Exit(1)
	}
	defer drainNotifier()

	locker, closeLocker := bootstrap.NewLocker(cfg)
	defer closeLocker()

	auditor := audit.New(store, locker, logger)
	service := expenses.NewService(store, notifier, auditor, logger)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Identity)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimw.Recoverer)

	// Use the generated function to mount our handler on the router
	api.HandlerFromMux(handlers.NewApiHandler(service, logger), router)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

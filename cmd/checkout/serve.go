package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application/checkout"
	"github.com/DanielPopoola/mpesa-checkout/internal/interfaces/rest"
	"github.com/DanielPopoola/mpesa-checkout/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(orBackground(ctx), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.logger
	cfg := a.cfg

	var history rest.HistoryReader
	var ready rest.HealthCheck
	if a.db != nil {
		history = a.journal
		ready = a.db.Ping

		reconciler := worker.NewReconciler(
			a.journal,
			a.gateway,
			checkout.NewClassifier(cfg.Polling.PendingCodes),
			cfg.Reconciler.StaleAfter,
			cfg.Reconciler.Interval,
			cfg.Reconciler.BatchSize,
			logger,
		)
		go reconciler.Start(ctx)
	}

	handler := rest.NewRouter(rest.RouterConfig{
		Handler:        rest.NewHandler(a.controller, history, a.branding(), logger),
		Metrics:        promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
		Ready:          ready,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
	return nil
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

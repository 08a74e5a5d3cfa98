package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/mpesa-checkout/internal/application/checkout"
	"github.com/DanielPopoola/mpesa-checkout/internal/config"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/mpesa-checkout/internal/metrics"
	"github.com/DanielPopoola/mpesa-checkout/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app holds the components shared by every command.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	gateway    *mpesa.Client
	db         *postgres.DB
	journal    domain.AttemptRepository
	registry   *prometheus.Registry
	controller *checkout.Controller
}

func newApp(ctx context.Context, listener checkout.OutcomeListener) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		gateway:  mpesa.NewClient(cfg.Mpesa, logger),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []checkout.Option{
		checkout.WithLogger(logger),
		checkout.WithObserver(metrics.New(a.registry)),
	}
	if listener != nil {
		opts = append(opts, checkout.WithOutcomeListener(listener))
	}

	if cfg.Database != nil {
		db, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		a.journal = postgres.NewAttemptRepository(db)
		opts = append(opts, checkout.WithJournal(a.journal))
	} else {
		logger.Info("no database configured, attempts will not be journaled")
	}

	// The initiation budget covers the token request and the push itself.
	policy := checkout.PolicyFromConfig(cfg.Polling, 2*cfg.Mpesa.ConnTimeout)
	a.controller = checkout.NewController(a.gateway, scheduler.New(), policy, opts...)

	logger.Info("checkout ready",
		"environment", cfg.Mpesa.Environment,
		"short_code", cfg.Mpesa.ShortCode,
		"max_wait", policy.Ceiling(),
	)
	return a, nil
}

func (a *app) branding() domain.Branding {
	return domain.Branding{
		AccountPrefix: a.cfg.Checkout.AccountPrefix,
		ProductName:   a.cfg.Checkout.ProductName,
		CallbackURL:   a.cfg.Checkout.CallbackURL,
	}
}

// Close abandons any in-flight attempt, flushes the journal and closes the pool.
func (a *app) Close() {
	a.controller.Close()
	if a.db != nil {
		a.db.Close()
	}
}

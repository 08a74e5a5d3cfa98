// Package worker runs background maintenance over the attempt journal.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application"
	"github.com/DanielPopoola/mpesa-checkout/internal/application/checkout"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
)

// Reconciler closes journaled attempts that were left awaiting approval,
// typically because the process stopped while polling.
type Reconciler struct {
	repo       domain.AttemptRepository
	gateway    application.Gateway
	classifier checkout.Classifier
	staleAfter time.Duration
	interval   time.Duration
	batchSize  int
	logger     *slog.Logger
}

func NewReconciler(
	repo domain.AttemptRepository,
	gateway application.Gateway,
	classifier checkout.Classifier,
	staleAfter time.Duration,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		repo:       repo,
		gateway:    gateway,
		classifier: classifier,
		staleAfter: staleAfter,
		interval:   interval,
		batchSize:  batchSize,
		logger:     logger,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("starting attempt reconciler",
		"interval", r.interval,
		"stale_after", r.staleAfter,
		"batch_size", r.batchSize,
	)

	r.run(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping attempt reconciler")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// RunOnce executes a single reconciliation cycle.
func (r *Reconciler) RunOnce(ctx context.Context) {
	r.run(ctx)
}

func (r *Reconciler) run(ctx context.Context) {
	stale, err := r.repo.FindAwaiting(ctx, r.staleAfter, r.batchSize)
	if err != nil {
		r.logger.Error("failed to fetch stale attempts", "error", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	r.logger.Info("reconciling stale attempts", "count", len(stale))

	for _, attempt := range stale {
		outcome := r.resolve(ctx, attempt)
		if err := attempt.Complete(outcome); err != nil {
			r.logger.Error("failed to close stale attempt", "attempt_id", attempt.ID, "error", err)
			continue
		}
		if err := r.repo.Save(ctx, attempt); err != nil {
			r.logger.Error("failed to save reconciled attempt", "attempt_id", attempt.ID, "error", err)
			continue
		}
		r.logger.Info("reconciled stale attempt",
			"attempt_id", attempt.ID,
			"checkout_request_id", attempt.CheckoutRequestID,
			"state", attempt.Status,
		)
	}
}

// resolve asks the provider one last time. Attempts without a checkout
// handle, or whose status cannot be read, are closed as unverified.
func (r *Reconciler) resolve(ctx context.Context, attempt *domain.Attempt) domain.Outcome {
	if attempt.CheckoutRequestID == "" {
		return domain.TimedOut(application.ReasonUnverified)
	}

	res, err := r.gateway.QueryStatus(ctx, attempt.CheckoutRequestID)
	if err != nil {
		r.logger.Warn("final status query failed",
			"attempt_id", attempt.ID,
			"category", application.CategorizeError(err),
			"error", err,
		)
		return domain.TimedOut(application.ReasonUnverified)
	}

	outcome := r.classifier.Classify(res, attempt.CheckoutRequestID)
	if !outcome.IsTerminal() {
		return domain.TimedOut(application.ReasonTimeout)
	}
	return outcome
}

// Package application holds the ports the checkout flow depends on and the
// error taxonomy shared by its adapters.
package application

import (
	"context"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
)

// Gateway is the port for the external payment provider.
type Gateway interface {
	Initiate(ctx context.Context, req domain.PaymentRequest) (*mpesa.InitiateResult, error)
	QueryStatus(ctx context.Context, checkoutRequestID string) (*mpesa.StatusResult, error)
}

// Observer receives lifecycle events for metrics.
type Observer interface {
	AttemptStarted()
	InitiationFailed(category ErrorCategory)
	PollCompleted(resultCode string, err error)
	AttemptFinished(outcome domain.Outcome, elapsed time.Duration)
	AttemptAbandoned()
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) AttemptStarted() {}
func (NopObserver) InitiationFailed(ErrorCategory) {}
func (NopObserver) PollCompleted(string, error) {}
func (NopObserver) AttemptFinished(domain.Outcome, time.Duration) {}
func (NopObserver) AttemptAbandoned() {}

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application/checkout"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
	"github.com/DanielPopoola/mpesa-checkout/internal/mocks"
	"github.com/DanielPopoola/mpesa-checkout/internal/worker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const staleAfter = 10 * time.Minute

func newAttempt(t *testing.T, checkoutRequestID string) *domain.Attempt {
	t.Helper()

	attempt, err := domain.NewAttempt(uuid.New().String(), domain.PaymentRequest{
		PhoneNumber: "0712345678",
		Amount:      500,
	})
	require.NoError(t, err)
	if checkoutRequestID != "" {
		require.NoError(t, attempt.Accept(checkoutRequestID, ""))
	}
	return attempt
}

func newReconciler(repo *mocks.MockAttemptRepository, gateway *mocks.MockGateway) *worker.Reconciler {
	return worker.NewReconciler(
		repo,
		gateway,
		checkout.NewClassifier([]string{"1037"}),
		staleAfter,
		time.Minute,
		25,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestReconciler_RunOnce(t *testing.T) {
	tests := []struct {
		name      string
		handle    string
		status    *mpesa.StatusResult
		statusErr error
		want      domain.Outcome
	}{
		{
			name:   "provider reports success",
			handle: "ws_CO_ok",
			status: &mpesa.StatusResult{ResultCode: "0", ReceiptNumber: "QGR123"},
			want:   domain.Succeeded("QGR123"),
		},
		{
			name:   "provider reports cancellation",
			handle: "ws_CO_cancel",
			status: &mpesa.StatusResult{ResultCode: "1032"},
			want:   domain.Cancelled("Payment was cancelled"),
		},
		{
			name:   "still pending after the polling window",
			handle: "ws_CO_pending",
			status: &mpesa.StatusResult{ResultCode: "1037"},
			want:   domain.TimedOut("Payment timeout. Please try again."),
		},
		{
			name:      "status cannot be read",
			handle:    "ws_CO_err",
			statusErr: &mpesa.TransportError{Op: "query", StatusCode: 503},
			want:      domain.TimedOut("Unable to verify payment status"),
		},
		{
			name: "never accepted by the provider",
			want: domain.TimedOut("Unable to verify payment status"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAttemptRepository(t)
			gateway := mocks.NewMockGateway(t)
			attempt := newAttempt(t, tt.handle)

			repo.EXPECT().FindAwaiting(mock.Anything, staleAfter, 25).Return([]*domain.Attempt{attempt}, nil).Once()
			if tt.handle != "" {
				gateway.EXPECT().QueryStatus(mock.Anything, tt.handle).Return(tt.status, tt.statusErr).Once()
			}

			var saved *domain.Attempt
			repo.EXPECT().Save(mock.Anything, mock.Anything).
				Run(func(_ context.Context, a *domain.Attempt) { saved = a.Clone() }).
				Return(nil).Once()

			newReconciler(repo, gateway).RunOnce(context.Background())

			require.NotNil(t, saved)
			assert.Equal(t, tt.want.State(), saved.Status)
			assert.Equal(t, tt.want, saved.Outcome())
			assert.NotNil(t, saved.CompletedAt)
		})
	}
}

func TestReconciler_ContinuesAfterSaveFailure(t *testing.T) {
	repo := mocks.NewMockAttemptRepository(t)
	gateway := mocks.NewMockGateway(t)
	first := newAttempt(t, "ws_CO_1")
	second := newAttempt(t, "ws_CO_2")

	repo.EXPECT().FindAwaiting(mock.Anything, staleAfter, 25).Return([]*domain.Attempt{first, second}, nil).Once()
	gateway.EXPECT().QueryStatus(mock.Anything, mock.Anything).
		Return(&mpesa.StatusResult{ResultCode: "0", ReceiptNumber: "QGR1"}, nil).Twice()
	repo.EXPECT().Save(mock.Anything, first).Return(errors.New("connection reset")).Once()
	repo.EXPECT().Save(mock.Anything, second).Return(nil).Once()

	newReconciler(repo, gateway).RunOnce(context.Background())
}

func TestReconciler_LookupFailure(t *testing.T) {
	repo := mocks.NewMockAttemptRepository(t)
	gateway := mocks.NewMockGateway(t)

	repo.EXPECT().FindAwaiting(mock.Anything, staleAfter, 25).Return(nil, errors.New("db down")).Once()

	newReconciler(repo, gateway).RunOnce(context.Background())
}

func TestReconciler_StartStopsWithContext(t *testing.T) {
	repo := mocks.NewMockAttemptRepository(t)
	gateway := mocks.NewMockGateway(t)
	repo.EXPECT().FindAwaiting(mock.Anything, staleAfter, 25).Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newReconciler(repo, gateway).Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}

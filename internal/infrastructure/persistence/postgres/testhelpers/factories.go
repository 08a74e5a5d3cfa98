package testhelpers

import (
	"testing"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// DefaultRequest is a valid subscription request for the LearnBot pro plan.
func DefaultRequest() domain.PaymentRequest {
	return domain.PaymentRequest{
		PhoneNumber:      "0712345678",
		Amount:           500,
		AccountReference: "LEARNBOT_PRO",
		Description:      "LearnBot pro Subscription",
		CallbackURL:      "https://example.com/api/mpesa/callback",
	}
}

// NewAttempt creates an attempt awaiting approval. When checkoutRequestID is
// non-empty the attempt has been accepted by the provider.
func NewAttempt(t *testing.T, checkoutRequestID string) *domain.Attempt {
	t.Helper()

	attempt, err := domain.NewAttempt(uuid.New().String(), DefaultRequest())
	require.NoError(t, err)

	if checkoutRequestID != "" {
		require.NoError(t, attempt.Accept(checkoutRequestID, "29115-34620561-1"))
	}
	return attempt
}

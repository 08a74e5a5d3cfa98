package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/mpesa-checkout/internal/application"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want application.ErrorCategory
	}{
		{"nil", nil, ""},
		{"credential", &mpesa.CredentialError{StatusCode: 401}, application.CategoryCredential},
		{"wrapped credential", fmt.Errorf("initiate: %w", &mpesa.CredentialError{Message: "x"}), application.CategoryCredential},
		{"rejected", &mpesa.InitiationRejected{ResponseCode: "1"}, application.CategoryInitiationRejected},
		{"transport", &mpesa.TransportError{Op: "query", StatusCode: 503}, application.CategoryTransport},
		{"deadline", &mpesa.TransportError{Op: "query", Err: context.DeadlineExceeded}, application.CategoryTimeout},
		{"validation", domain.NewInvalidAmountError(0), application.CategoryClientError},
		{"in flight", domain.NewAttemptInFlightError(domain.StateAwaitingApproval), application.CategoryBusinessRule},
		{"cancelled outcome", domain.NewOutcomeError(domain.Cancelled("Payment was cancelled")), application.CategoryUserCancelled},
		{"failed outcome", domain.NewOutcomeError(domain.Failed("Payment failed")), application.CategoryProviderFailure},
		{"timed out outcome", domain.NewOutcomeError(domain.TimedOut("Payment timeout. Please try again.")), application.CategoryTimeout},
		{"unknown", errors.New("boom"), application.CategoryTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.CategorizeError(tt.err))
		})
	}
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "Insufficient balance",
		application.FailureReason(&mpesa.InitiationRejected{ResponseCode: "1", Description: "Insufficient balance"}))
	assert.Equal(t, application.ReasonInitiationFailed,
		application.FailureReason(&mpesa.InitiationRejected{ResponseCode: "1"}))
	assert.Equal(t, application.ReasonCredential,
		application.FailureReason(&mpesa.CredentialError{StatusCode: 400}))
	assert.Equal(t, application.ReasonTransport,
		application.FailureReason(&mpesa.TransportError{Op: "initiate", StatusCode: 500}))
	assert.Equal(t, `invalid phone number "123"`,
		application.FailureReason(domain.NewInvalidPhoneNumberError("123")))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, application.ToHTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, application.ToHTTPStatus(domain.NewMissingRequiredFieldError("plan")))
	assert.Equal(t, http.StatusConflict, application.ToHTTPStatus(domain.NewAttemptInFlightError(domain.StateAwaitingApproval)))
	assert.Equal(t, http.StatusConflict, application.ToHTTPStatus(domain.NewInvalidTransitionError(domain.StateSucceeded, domain.StateIdle)))
	assert.Equal(t, http.StatusBadGateway, application.ToHTTPStatus(&mpesa.TransportError{Op: "initiate", StatusCode: 500}))
	assert.Equal(t, http.StatusInternalServerError, application.ToHTTPStatus(domain.NewOutcomeError(domain.Failed("x"))))
}

func TestToErrorCode(t *testing.T) {
	assert.Equal(t, domain.ErrCodeAttemptInFlight, application.ToErrorCode(domain.NewAttemptInFlightError(domain.StateAwaitingApproval)))
	assert.Equal(t, "CREDENTIAL_ERROR", application.ToErrorCode(&mpesa.CredentialError{}))
	assert.Equal(t, "INTERNAL_ERROR", application.ToErrorCode(nil))
}

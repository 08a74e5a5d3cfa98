package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/infrastructure/mpesa"
)

// ErrorCategory represents the nature of an error for logging and metrics
type ErrorCategory string

const (
	CategoryCredential         ErrorCategory = "CREDENTIAL_ERROR"
	CategoryTransport          ErrorCategory = "TRANSPORT_ERROR"
	CategoryInitiationRejected ErrorCategory = "INITIATION_REJECTED"
	CategoryProviderFailure    ErrorCategory = "PROVIDER_FAILURE"
	CategoryUserCancelled      ErrorCategory = "USER_CANCELLED"
	CategoryTimeout            ErrorCategory = "TIMEOUT"
	CategoryClientError        ErrorCategory = "CLIENT_ERROR"
	CategoryBusinessRule       ErrorCategory = "BUSINESS_RULE"
)

const (
	ReasonInitiationFailed = "Payment initiation failed"
	ReasonCredential       = "Failed to get M-PESA access token"
	ReasonTransport        = "Failed to initiate M-PESA payment"
	ReasonPaymentFailed    = "Payment failed"
	ReasonUserCancelled    = "Payment was cancelled"
	ReasonTimeout          = "Payment timeout. Please try again."
	ReasonUnverified       = "Unable to verify payment status"
	ReasonAbandoned        = "Payment abandoned"
)

// CategorizeError determines the error category for logging and metrics
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	if _, ok := mpesa.IsCredentialError(err); ok {
		return CategoryCredential
	}
	if _, ok := mpesa.IsInitiationRejected(err); ok {
		return CategoryInitiationRejected
	}
	if _, ok := mpesa.IsTransportError(err); ok {
		return CategoryTransport
	}

	if domainErr, ok := domain.IsDomainError(err); ok {
		switch domainErr.Code {
		case domain.ErrCodeMissingRequiredField,
			domain.ErrCodeInvalidAmount,
			domain.ErrCodeInvalidPhoneNumber:
			return CategoryClientError
		case domain.ErrCodeProviderFailure:
			return CategoryProviderFailure
		case domain.ErrCodeUserCancelled:
			return CategoryUserCancelled
		case domain.ErrCodeTimeout:
			return CategoryTimeout
		default:
			return CategoryBusinessRule
		}
	}

	// Default: transport (anything else came off the wire)
	return CategoryTransport
}

// FailureReason is the message shown to the user when err ends an attempt
// during initiation.
func FailureReason(err error) string {
	if rejected, ok := mpesa.IsInitiationRejected(err); ok {
		if rejected.Description == "" {
			return ReasonInitiationFailed
		}
		return rejected.Description
	}
	if _, ok := mpesa.IsCredentialError(err); ok {
		return ReasonCredential
	}
	if domainErr, ok := domain.IsDomainError(err); ok {
		return domainErr.Message
	}
	return ReasonTransport
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if domainErr, ok := domain.IsDomainError(err); ok {
		switch domainErr.Code {
		case domain.ErrCodeMissingRequiredField,
			domain.ErrCodeInvalidAmount,
			domain.ErrCodeInvalidPhoneNumber:
			return http.StatusBadRequest
		case domain.ErrCodeInvalidTransition,
			domain.ErrCodeAttemptInFlight,
			domain.ErrCodeHandleAlreadyAssigned:
			return http.StatusConflict
		}
	}

	switch CategorizeError(err) {
	case CategoryCredential, CategoryTransport, CategoryInitiationRejected:
		return http.StatusBadGateway
	case CategoryTimeout:
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if domainErr, ok := domain.IsDomainError(err); ok {
		return domainErr.Code
	}
	if category := CategorizeError(err); category != "" {
		return string(category)
	}
	return "INTERNAL_ERROR"
}

package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Retryable interface for errors that can be retried
type Retryable interface {
	IsRetryable() bool
}

const (
	ErrCodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodeInvalidPhoneNumber    = "INVALID_PHONE_NUMBER"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeAttemptInFlight       = "ATTEMPT_IN_FLIGHT"
	ErrCodeHandleAlreadyAssigned = "HANDLE_ALREADY_ASSIGNED"
	ErrCodeProviderFailure       = "PROVIDER_FAILURE"
	ErrCodeUserCancelled         = "USER_CANCELLED"
	ErrCodeTimeout               = "TIMEOUT"
)

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidAmountError(amount int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %d", amount),
	}
}

func NewInvalidPhoneNumberError(raw string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidPhoneNumber,
		Message: fmt.Sprintf("invalid phone number %q", raw),
	}
}

func NewInvalidTransitionError(from, to State) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewAttemptInFlightError(state State) *DomainError {
	return &DomainError{
		Code:    ErrCodeAttemptInFlight,
		Message: fmt.Sprintf("a payment attempt is already %s", state),
	}
}

func NewHandleAlreadyAssignedError(handle string) *DomainError {
	return &DomainError{
		Code:    ErrCodeHandleAlreadyAssigned,
		Message: fmt.Sprintf("attempt already holds checkout request %s", handle),
	}
}

// NewOutcomeError converts a terminal non-success outcome into an error carrying
// the reason shown to the user.
func NewOutcomeError(o Outcome) *DomainError {
	switch o.Kind {
	case OutcomeCancelled:
		return &DomainError{Code: ErrCodeUserCancelled, Message: o.Reason}
	case OutcomeTimedOut:
		return &DomainError{Code: ErrCodeTimeout, Message: o.Reason}
	default:
		return &DomainError{Code: ErrCodeProviderFailure, Message: o.Reason}
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// IsDomainError returns the DomainError wrapped in err, if any.
func IsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	ok := errors.As(err, &domainErr)
	return domainErr, ok
}

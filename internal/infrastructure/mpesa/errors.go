package mpesa

import (
	"errors"
	"fmt"
	"net/http"
)

// CredentialError means the OAuth token exchange failed. It is fatal to the
// call that needed the token.
type CredentialError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *CredentialError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("failed to get M-PESA access token: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to get M-PESA access token: %s (status: %d)", e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("failed to get M-PESA access token: %s", e.Message)
	}
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// TransportError covers network failures, non-2xx statuses and unreadable
// responses from the provider.
type TransportError struct {
	Op         string
	StatusCode int
	ErrorCode  string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mpesa %s: %v", e.Op, e.Err)
	}
	if e.ErrorCode != "" {
		return fmt.Sprintf("mpesa %s error [%s]: %s (status: %d)", e.Op, e.ErrorCode, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("mpesa %s returned status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) IsRetryable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// InitiationRejected means the provider processed the STK push request and
// declined it.
type InitiationRejected struct {
	ResponseCode string
	Description  string
}

func (e *InitiationRejected) Error() string {
	if e.Description == "" {
		return "Payment initiation failed"
	}
	return e.Description
}

func IsCredentialError(err error) (*CredentialError, bool) {
	var credErr *CredentialError
	ok := errors.As(err, &credErr)
	return credErr, ok
}

func IsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	ok := errors.As(err, &transportErr)
	return transportErr, ok
}

func IsInitiationRejected(err error) (*InitiationRejected, bool) {
	var rejected *InitiationRejected
	ok := errors.As(err, &rejected)
	return rejected, ok
}

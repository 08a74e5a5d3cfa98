// Package domain models a single M-PESA checkout attempt and its lifecycle
package domain

import (
	"slices"
	"time"
)

// State represents where a checkout is in its lifecycle
type State string

const (
	StateIdle             State = "IDLE"
	StateAwaitingApproval State = "AWAITING_APPROVAL"
	StateSucceeded        State = "SUCCEEDED"
	StateFailed           State = "FAILED"
	StateCancelled        State = "CANCELLED"
	StateTimedOut         State = "TIMED_OUT"
)

// IsTerminal reports whether no automatic transition leaves s.
func (s State) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled, StateTimedOut:
		return true
	default:
		return false
	}
}

// Resettable reports whether a "try again" may move s back to idle.
func (s State) Resettable() bool {
	switch s {
	case StateFailed, StateCancelled, StateTimedOut:
		return true
	default:
		return false
	}
}

type Attempt struct {
	ID      string
	Request PaymentRequest
	Status  State

	CheckoutRequestID string
	MerchantRequestID string
	ReceiptNumber     string
	FailureReason     string

	PollCount   int
	CreatedAt   time.Time
	AcceptedAt  *time.Time
	CompletedAt *time.Time
}

// NewAttempt opens an attempt for req. The attempt starts out awaiting approval
// with no checkout handle.
func NewAttempt(id string, req PaymentRequest) (*Attempt, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("attempt ID")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return &Attempt{
		ID:        id,
		Request:   req,
		Status:    StateAwaitingApproval,
		CreatedAt: time.Now(),
	}, nil
}

// Accept records the checkout handle issued by the provider.
func (a *Attempt) Accept(checkoutRequestID, merchantRequestID string) error {
	if a.Status != StateAwaitingApproval {
		return NewInvalidTransitionError(a.Status, StateAwaitingApproval)
	}
	if a.CheckoutRequestID != "" {
		return NewHandleAlreadyAssignedError(a.CheckoutRequestID)
	}
	if checkoutRequestID == "" {
		return NewMissingRequiredFieldError("checkout request ID")
	}

	now := time.Now()
	a.CheckoutRequestID = checkoutRequestID
	a.MerchantRequestID = merchantRequestID
	a.AcceptedAt = &now
	return nil
}

// RecordPoll counts one status query against the attempt.
func (a *Attempt) RecordPoll() {
	a.PollCount++
}

// Complete moves the attempt into the terminal state described by o.
func (a *Attempt) Complete(o Outcome) error {
	target := o.State()
	if err := a.transition(target); err != nil {
		return err
	}

	switch o.Kind {
	case OutcomeSucceeded:
		a.ReceiptNumber = o.Receipt
	default:
		a.FailureReason = o.Reason
	}

	now := time.Now()
	a.CompletedAt = &now
	return nil
}

// Outcome rebuilds the outcome from a completed attempt.
func (a *Attempt) Outcome() Outcome {
	switch a.Status {
	case StateSucceeded:
		return Succeeded(a.ReceiptNumber)
	case StateFailed:
		return Failed(a.FailureReason)
	case StateCancelled:
		return Cancelled(a.FailureReason)
	case StateTimedOut:
		return TimedOut(a.FailureReason)
	default:
		return Pending()
	}
}

func (a *Attempt) transition(target State) error {
	if err := a.canTransitionTo(target); err != nil {
		return err
	}
	a.Status = target
	return nil
}

func (a *Attempt) canTransitionTo(target State) error {
	switch a.Status {
	case StateAwaitingApproval:
		return a.allow(target, StateSucceeded, StateFailed, StateCancelled, StateTimedOut)
	}
	return NewInvalidTransitionError(a.Status, target)
}

func (a *Attempt) allow(target State, allowed ...State) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(a.Status, target)
}

// IsTerminal reports whether the attempt has reached its single terminal state.
func (a *Attempt) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// Clone returns a copy that is safe to hand outside the owning controller.
func (a *Attempt) Clone() *Attempt {
	c := *a
	if a.AcceptedAt != nil {
		t := *a.AcceptedAt
		c.AcceptedAt = &t
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Reconstitute - Special constructor for loading from DB
func Reconstitute(
	id string, req PaymentRequest, status State,
	checkoutRequestID, merchantRequestID, receiptNumber, failureReason string,
	pollCount int,
	createdAt time.Time, acceptedAt, completedAt *time.Time,
) *Attempt {
	return &Attempt{
		ID:                id,
		Request:           req,
		Status:            status,
		CheckoutRequestID: checkoutRequestID,
		MerchantRequestID: merchantRequestID,
		ReceiptNumber:     receiptNumber,
		FailureReason:     failureReason,
		PollCount:         pollCount,
		CreatedAt:         createdAt,
		AcceptedAt:        acceptedAt,
		CompletedAt:       completedAt,
	}
}

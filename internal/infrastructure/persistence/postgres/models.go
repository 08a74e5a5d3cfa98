package postgres

import (
	"time"
)

// AttemptModel mirrors a row of payment_attempts.
type AttemptModel struct {
	ID                string
	PhoneNumber       string
	Amount            int64
	AccountReference  string
	Description       string
	CallbackURL       string
	Status            string
	CheckoutRequestID *string
	MerchantRequestID *string
	ReceiptNumber     *string
	FailureReason     *string
	PollCount         int
	CreatedAt         time.Time
	AcceptedAt        *time.Time
	CompletedAt       *time.Time
}

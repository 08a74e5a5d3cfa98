package domain

import (
	"fmt"
	"strings"
)

// PaymentRequest is what gets sent to the provider for one attempt.
type PaymentRequest struct {
	PhoneNumber      string
	Amount           int64
	AccountReference string
	Description      string
	CallbackURL      string
}

// Validate checks the preconditions for initiating a payment.
func (r PaymentRequest) Validate() error {
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return NewMissingRequiredFieldError("phone number")
	}
	if r.Amount <= 0 {
		return NewInvalidAmountError(r.Amount)
	}
	return nil
}

// Branding controls how subscription requests are labelled on the customer's statement.
type Branding struct {
	AccountPrefix string
	ProductName   string
	CallbackURL   string
}

// NewSubscriptionRequest builds the request for subscribing to plan.
func NewSubscriptionRequest(plan string, amount int64, phone string, b Branding) (PaymentRequest, error) {
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return PaymentRequest{}, NewMissingRequiredFieldError("plan")
	}

	req := PaymentRequest{
		PhoneNumber:      strings.Join(strings.Fields(phone), ""),
		Amount:           amount,
		AccountReference: fmt.Sprintf("%s_%s", b.AccountPrefix, strings.ToUpper(plan)),
		Description:      fmt.Sprintf("%s %s Subscription", b.ProductName, plan),
		CallbackURL:      b.CallbackURL,
	}
	if err := req.Validate(); err != nil {
		return PaymentRequest{}, err
	}
	return req, nil
}

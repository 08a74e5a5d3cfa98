package postgres

import (
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
)

// toDomainModel: maps db model to domain entity
func toDomainModel(m AttemptModel) *domain.Attempt {
	return domain.Reconstitute(
		m.ID,
		domain.PaymentRequest{
			PhoneNumber:      m.PhoneNumber,
			Amount:           m.Amount,
			AccountReference: m.AccountReference,
			Description:      m.Description,
			CallbackURL:      m.CallbackURL,
		},
		domain.State(m.Status),
		deref(m.CheckoutRequestID),
		deref(m.MerchantRequestID),
		deref(m.ReceiptNumber),
		deref(m.FailureReason),
		m.PollCount,
		m.CreatedAt,
		m.AcceptedAt,
		m.CompletedAt,
	)
}

// toDBModel: maps domain entity to db model
func toDBModel(a *domain.Attempt) *AttemptModel {
	return &AttemptModel{
		ID:                a.ID,
		PhoneNumber:       a.Request.PhoneNumber,
		Amount:            a.Request.Amount,
		AccountReference:  a.Request.AccountReference,
		Description:       a.Request.Description,
		CallbackURL:       a.Request.CallbackURL,
		Status:            string(a.Status),
		CheckoutRequestID: nullable(a.CheckoutRequestID),
		MerchantRequestID: nullable(a.MerchantRequestID),
		ReceiptNumber:     nullable(a.ReceiptNumber),
		FailureReason:     nullable(a.FailureReason),
		PollCount:         a.PollCount,
		CreatedAt:         a.CreatedAt,
		AcceptedAt:        a.AcceptedAt,
		CompletedAt:       a.CompletedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

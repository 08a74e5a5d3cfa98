// Package rest exposes the checkout controller over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application/checkout"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CheckoutService is the part of the checkout controller the API drives.
type CheckoutService interface {
	Start(ctx context.Context, req domain.PaymentRequest) (checkout.View, error)
	Snapshot() checkout.View
	Abandon() checkout.View
	Reset() (checkout.View, error)
}

// HistoryReader lists journaled attempts.
type HistoryReader interface {
	FindRecent(ctx context.Context, limit int) ([]*domain.Attempt, error)
}

type PayRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Plan        string `json:"plan" validate:"required,max=32"`
}

// AttemptResponse is a journaled attempt as returned by the history endpoint.
type AttemptResponse struct {
	ID                string       `json:"id"`
	State             domain.State `json:"state"`
	Amount            int64        `json:"amount"`
	AccountReference  string       `json:"account_reference"`
	CheckoutRequestID string       `json:"checkout_request_id,omitempty"`
	ReceiptNumber     string       `json:"receipt_number,omitempty"`
	FailureReason     string       `json:"failure_reason,omitempty"`
	PollCount         int          `json:"poll_count"`
	CreatedAt         time.Time    `json:"created_at"`
	CompletedAt       *time.Time   `json:"completed_at,omitempty"`
}

type Handler struct {
	checkout CheckoutService
	history  HistoryReader
	branding domain.Branding
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler wires the API to svc. history may be nil when no journal is configured.
func NewHandler(svc CheckoutService, history HistoryReader, branding domain.Branding, logger *slog.Logger) *Handler {
	return &Handler{
		checkout: svc,
		history:  history,
		branding: branding,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/payments", h.HandlePay)
	r.Get("/payments/current", h.HandleCurrent)
	r.Post("/payments/current/abandon", h.HandleAbandon)
	r.Post("/payments/current/reset", h.HandleReset)
	r.Get("/payments/history", h.HandleHistory)

	return r
}

// HandlePay starts a checkout. It answers 202 while the customer is being
// prompted and 200 when initiation already produced an outcome.
func (h *Handler) HandlePay(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithValidationError(w, err)
		return
	}

	payment, err := domain.NewSubscriptionRequest(req.Plan, req.Amount, req.PhoneNumber, h.branding)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.checkout.Start(r.Context(), payment)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if view.State == domain.StateAwaitingApproval {
		status = http.StatusAccepted
	}
	respondWithJSON(w, status, view)
}

func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.checkout.Snapshot())
}

func (h *Handler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.checkout.Abandon())
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	view, err := h.checkout.Reset()
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "JOURNAL_DISABLED", "Attempt history is not recorded")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	attempts, err := h.history.FindRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list attempts", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list attempts")
		return
	}

	out := make([]AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, AttemptResponse{
			ID:                a.ID,
			State:             a.Status,
			Amount:            a.Request.Amount,
			AccountReference:  a.Request.AccountReference,
			CheckoutRequestID: a.CheckoutRequestID,
			ReceiptNumber:     a.ReceiptNumber,
			FailureReason:     a.FailureReason,
			PollCount:         a.PollCount,
			CreatedAt:         a.CreatedAt,
			CompletedAt:       a.CompletedAt,
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *Handler) respondWithValidationError(w http.ResponseWriter, err error) {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}

	respondWithJSON(w, http.StatusBadRequest, &APIError{
		Code:    "VALIDATION_ERROR",
		Message: "Request validation failed",
		Details: details,
	})
}

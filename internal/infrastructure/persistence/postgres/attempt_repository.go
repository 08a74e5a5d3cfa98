package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAttemptNotFound = errors.New("payment attempt not found")
	// ErrDuplicateCheckoutRequest means another attempt already holds the checkout handle.
	ErrDuplicateCheckoutRequest = errors.New("checkout request already journaled for another attempt")
	// ErrAttemptClosed means the stored attempt already reached a terminal state.
	ErrAttemptClosed = errors.New("payment attempt already closed")
)

const attemptColumns = `
	id, phone_number, amount, account_reference, description, callback_url,
	status, checkout_request_id, merchant_request_id, receipt_number, failure_reason,
	poll_count, created_at, accepted_at, completed_at`

type AttemptRepository struct {
	db *DB
}

func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Save inserts the attempt, or overwrites the mutable columns of an existing
// row that is still awaiting approval. A closed row is never rewritten.
func (r *AttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	query := `
		INSERT INTO payment_attempts (` + attemptColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			checkout_request_id = EXCLUDED.checkout_request_id,
			merchant_request_id = EXCLUDED.merchant_request_id,
			receipt_number = EXCLUDED.receipt_number,
			failure_reason = EXCLUDED.failure_reason,
			poll_count = EXCLUDED.poll_count,
			accepted_at = EXCLUDED.accepted_at,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW()
		WHERE payment_attempts.status = 'AWAITING_APPROVAL'
	`

	m := toDBModel(attempt)
	tag, err := r.db.Pool.Exec(ctx, query,
		m.ID,
		m.PhoneNumber,
		m.Amount,
		m.AccountReference,
		m.Description,
		m.CallbackURL,
		m.Status,
		m.CheckoutRequestID,
		m.MerchantRequestID,
		m.ReceiptNumber,
		m.FailureReason,
		m.PollCount,
		m.CreatedAt,
		m.AcceptedAt,
		m.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateCheckoutRequest
		}
		return fmt.Errorf("failed to save payment attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAttemptClosed
	}

	return nil
}

// FindByID retrieves an attempt
func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE id = $1`

	row := r.db.Pool.QueryRow(ctx, query, id)
	return scanAttempt(row)
}

// FindByCheckoutRequestID retrieves the attempt holding a checkout handle
func (r *AttemptRepository) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM payment_attempts WHERE checkout_request_id = $1`

	row := r.db.Pool.QueryRow(ctx, query, checkoutRequestID)
	return scanAttempt(row)
}

// FindRecent lists the newest attempts first
func (r *AttemptRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Attempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent attempts: %w", err)
	}
	return collectAttempts(rows)
}

// FindAwaiting finds attempts still awaiting approval that were created before now-olderThan
func (r *AttemptRepository) FindAwaiting(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Attempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE status = 'AWAITING_APPROVAL'
		  AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("query awaiting attempts: %w", err)
	}
	return collectAttempts(rows)
}

func collectAttempts(rows pgx.Rows) ([]*domain.Attempt, error) {
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Attempt, error) {
		m, err := scanModel(row)
		if err != nil {
			return nil, err
		}
		return toDomainModel(m), nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan payment attempts: %w", err)
	}
	return results, nil
}

// scanAttempt converts a database row into a domain Attempt.
// Returns ErrAttemptNotFound if the row doesn't exist.
func scanAttempt(row pgx.Row) (*domain.Attempt, error) {
	m, err := scanModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to scan payment attempt: %w", err)
	}
	return toDomainModel(m), nil
}

func scanModel(row pgx.Row) (AttemptModel, error) {
	var m AttemptModel
	err := row.Scan(
		&m.ID, &m.PhoneNumber, &m.Amount, &m.AccountReference, &m.Description, &m.CallbackURL,
		&m.Status, &m.CheckoutRequestID, &m.MerchantRequestID, &m.ReceiptNumber, &m.FailureReason,
		&m.PollCount, &m.CreatedAt, &m.AcceptedAt, &m.CompletedAt,
	)
	return m, err
}

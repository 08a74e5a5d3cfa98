package domain

import (
	"context"
	"time"
)

// AttemptRepository is the journal of payment attempts.
type AttemptRepository interface {
	// Save inserts the attempt or overwrites its previously saved state
	Save(ctx context.Context, attempt *Attempt) error

	// FindByID retrieves an attempt
	FindByID(ctx context.Context, id string) (*Attempt, error)

	// FindByCheckoutRequestID retrieves the attempt holding a provider checkout handle
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*Attempt, error)

	// FindRecent lists the most recently created attempts
	FindRecent(ctx context.Context, limit int) ([]*Attempt, error)

	// FindAwaiting lists attempts still awaiting approval that were created more than olderThan ago
	FindAwaiting(ctx context.Context, olderThan time.Duration, limit int) ([]*Attempt, error)
}

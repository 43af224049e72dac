package repository

import (
	"context"

	"agripay/internal/domain"
)

// AttemptRepository defines the persistence operations for payment attempts.
type AttemptRepository interface {
	// Create persists a new payment attempt.
	Create(ctx context.Context, attempt *domain.PaymentAttempt) error

	// GetByID retrieves a payment attempt by ID.
	GetByID(ctx context.Context, id string) (*domain.PaymentAttempt, error)

	// UpdateResolution persists the terminal fields of a resolved attempt:
	// state, receipt, failure reason, attempts made and resolution time.
	UpdateResolution(ctx context.Context, attempt *domain.PaymentAttempt) error
}

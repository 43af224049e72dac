package repository

import (
	"context"

	"agripay/internal/domain"
)

// TransactionRepository defines access to the durable M-Pesa transaction
// records keyed by CheckoutRequestID.
type TransactionRepository interface {
	// GetByTransactionID retrieves a transaction record.
	// Returns ErrNotFound when no record exists yet.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)

	// Upsert inserts or updates a transaction record from the result
	// callback. A record already in a terminal status is never modified.
	Upsert(ctx context.Context, record *domain.TransactionRecord) error
}

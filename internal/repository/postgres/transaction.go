package postgres

import (
	"context"
	"database/sql"
	"errors"

	"agripay/internal/domain"
	"agripay/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// GetByTransactionID retrieves a transaction record by its checkout request ID.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	query := `
		SELECT transaction_id, status, COALESCE(mpesa_receipt_number, ''),
		       amount, phone_number, COALESCE(result_desc, ''),
		       created_at, updated_at
		FROM mpesa_transactions WHERE transaction_id = $1
	`

	var record domain.TransactionRecord
	err := r.q.QueryRowContext(ctx, query, transactionID).Scan(
		&record.TransactionID,
		&record.Status,
		&record.MpesaReceiptNumber,
		&record.Amount,
		&record.PhoneNumber,
		&record.ResultDesc,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &record, nil
}

// Upsert inserts or updates a transaction record. The WHERE guard keeps
// terminal statuses append-only: once completed or failed, a record is never
// rewritten, even if the provider re-delivers the callback.
func (r *TransactionRepository) Upsert(ctx context.Context, record *domain.TransactionRecord) error {
	query := `
		INSERT INTO mpesa_transactions
			(transaction_id, status, mpesa_receipt_number, amount, phone_number,
			 result_desc, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NOW(), NOW())
		ON CONFLICT (transaction_id) DO UPDATE
		SET status = EXCLUDED.status,
		    mpesa_receipt_number = EXCLUDED.mpesa_receipt_number,
		    result_desc = EXCLUDED.result_desc,
		    updated_at = NOW()
		WHERE mpesa_transactions.status = $7
	`

	_, err := r.q.ExecContext(ctx, query,
		record.TransactionID,
		record.Status,
		record.MpesaReceiptNumber,
		record.Amount,
		record.PhoneNumber,
		record.ResultDesc,
		domain.TransactionStatusPending,
	)

	return err
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"agripay/internal/domain"
	"agripay/internal/repository"
)

// AttemptRepository is a PostgreSQL implementation of repository.AttemptRepository.
type AttemptRepository struct {
	q Querier
}

// NewAttemptRepository creates a new PostgreSQL attempt repository.
func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{q: db}
}

// NewAttemptRepositoryWithTx creates an attempt repository using a transaction.
func NewAttemptRepositoryWithTx(tx *sql.Tx) *AttemptRepository {
	return &AttemptRepository{q: tx}
}

// Create persists a new payment attempt.
func (r *AttemptRepository) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		INSERT INTO payment_attempts
			(id, checkout_request_id, customer_id, kind, target_id, phone_number,
			 amount, account_reference, description, state, attempts_made, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		attempt.ID,
		attempt.CheckoutRequestID,
		attempt.CustomerID,
		attempt.Kind,
		attempt.TargetID,
		attempt.PhoneNumber,
		attempt.Amount,
		attempt.AccountReference,
		attempt.Description,
		attempt.State,
		attempt.AttemptsMade,
		attempt.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment attempt by ID.
func (r *AttemptRepository) GetByID(ctx context.Context, id string) (*domain.PaymentAttempt, error) {
	query := `
		SELECT id, checkout_request_id, customer_id, kind, target_id, phone_number,
		       amount, account_reference, description, state, attempts_made,
		       COALESCE(receipt_number, ''), COALESCE(failure_reason, ''),
		       created_at, resolved_at
		FROM payment_attempts WHERE id = $1
	`

	var attempt domain.PaymentAttempt
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&attempt.ID,
		&attempt.CheckoutRequestID,
		&attempt.CustomerID,
		&attempt.Kind,
		&attempt.TargetID,
		&attempt.PhoneNumber,
		&attempt.Amount,
		&attempt.AccountReference,
		&attempt.Description,
		&attempt.State,
		&attempt.AttemptsMade,
		&attempt.ReceiptNumber,
		&attempt.FailureReason,
		&attempt.CreatedAt,
		&attempt.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &attempt, nil
}

// UpdateResolution persists the terminal fields of a resolved attempt.
// Rows already in a terminal state are left untouched.
func (r *AttemptRepository) UpdateResolution(ctx context.Context, attempt *domain.PaymentAttempt) error {
	query := `
		UPDATE payment_attempts
		SET state = $1, attempts_made = $2, receipt_number = NULLIF($3, ''),
		    failure_reason = NULLIF($4, ''), resolved_at = $5
		WHERE id = $6
		  AND state NOT IN ($7, $8, $9)
	`

	result, err := r.q.ExecContext(ctx, query,
		attempt.State,
		attempt.AttemptsMade,
		attempt.ReceiptNumber,
		attempt.FailureReason,
		attempt.ResolvedAt,
		attempt.ID,
		domain.AttemptStateCompleted,
		domain.AttemptStateFailed,
		domain.AttemptStateTimedOut,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

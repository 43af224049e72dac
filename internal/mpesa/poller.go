package mpesa

import (
	"context"
	"time"

	"agripay/internal/domain"
)

// StatusStore is the read-only view of durable transaction records. Writes
// belong to the callback path; the poller never mutates the store.
type StatusStore interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error)
}

// PollConfig holds the polling tunables. GraceDelay is the fixed wait before
// the first status check, giving the STK prompt time to reach the subscriber
// and the result callback time to land.
type PollConfig struct {
	GraceDelay  time.Duration
	Interval    time.Duration
	MaxAttempts int
}

// Resolution is the terminal outcome of one AwaitResolution call.
type Resolution struct {
	State    domain.AttemptState
	Receipt  string
	Reason   string
	Attempts int
}

// SleepFunc suspends until the duration elapses or the context is done.
// Injected so the state machine is testable without real time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Poller resolves a CheckoutRequestID to a terminal outcome by polling the
// transaction record at fixed intervals.
type Poller struct {
	store StatusStore
	cfg   PollConfig
	sleep SleepFunc
}

// NewPoller creates a new Poller.
func NewPoller(store StatusStore, cfg PollConfig) *Poller {
	return &Poller{
		store: store,
		cfg:   cfg,
		sleep: sleepContext,
	}
}

// AwaitResolution polls until the record reaches a terminal status or the
// attempt budget runs out. It returns exactly one Resolution; a cancelled
// context stops polling and returns the context error with no Resolution.
//
// A missing record and a transient query error are both treated as pending:
// the result callback may simply not have landed yet, and aborting early
// would misreport a payment that is still in flight.
func (p *Poller) AwaitResolution(ctx context.Context, checkoutRequestID string) (*Resolution, error) {
	if err := p.sleep(ctx, p.cfg.GraceDelay); err != nil {
		return nil, err
	}

	attempts := 0
	for {
		record, err := p.store.GetByTransactionID(ctx, checkoutRequestID)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err == nil && record != nil {
			switch record.Status {
			case domain.TransactionStatusCompleted:
				receipt := record.MpesaReceiptNumber
				if receipt == "" {
					receipt = checkoutRequestID
				}
				return &Resolution{
					State:    domain.AttemptStateCompleted,
					Receipt:  receipt,
					Attempts: attempts,
				}, nil
			case domain.TransactionStatusFailed:
				return &Resolution{
					State:    domain.AttemptStateFailed,
					Reason:   record.ResultDesc,
					Attempts: attempts,
				}, nil
			}
		}

		attempts++
		if attempts >= p.cfg.MaxAttempts {
			return &Resolution{
				State:    domain.AttemptStateTimedOut,
				Attempts: attempts,
			}, nil
		}

		if err := p.sleep(ctx, p.cfg.Interval); err != nil {
			return nil, err
		}
	}
}

// sleepContext is the production SleepFunc.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

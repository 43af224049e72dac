package domain

import "time"

// AttemptState represents the current state of a payment attempt.
type AttemptState string

const (
	AttemptStateInitiating           AttemptState = "INITIATING"
	AttemptStateAwaitingConfirmation AttemptState = "AWAITING_CONFIRMATION"
	AttemptStateCompleted            AttemptState = "COMPLETED"
	AttemptStateFailed               AttemptState = "FAILED"
	AttemptStateTimedOut             AttemptState = "TIMED_OUT"
)

// IsTerminal reports whether no further transition can occur from the state.
func (s AttemptState) IsTerminal() bool {
	switch s {
	case AttemptStateCompleted, AttemptStateFailed, AttemptStateTimedOut:
		return true
	}
	return false
}

// PurchaseKind identifies what a payment attempt is paying for.
type PurchaseKind string

const (
	PurchaseKindGeneric PurchaseKind = "GENERIC"
	PurchaseKindService PurchaseKind = "SERVICE"
	PurchaseKindCourse  PurchaseKind = "COURSE"
	PurchaseKindCrop    PurchaseKind = "CROP_ORDER"
	PurchaseKindLoanFee PurchaseKind = "LOAN_FEE"
)

// PaymentRequest is the input for a single STK push initiation.
type PaymentRequest struct {
	PhoneNumber      string
	Amount           float64
	AccountReference string
	Description      string
}

// PaymentAttempt represents one outstanding STK push cycle. It is owned by
// the checkout invocation that created it and is never shared across
// concurrent attempts.
type PaymentAttempt struct {
	ID                string
	CheckoutRequestID string
	CustomerID        string
	Kind              PurchaseKind
	TargetID          string
	PhoneNumber       string
	Amount            float64
	AccountReference  string
	Description       string
	State             AttemptState
	AttemptsMade      int
	ReceiptNumber     string
	FailureReason     string
	CreatedAt         time.Time
	ResolvedAt        *time.Time
}

// Resolve transitions the attempt to a terminal state. Transitions out of a
// terminal state are ignored so a late resolution can never overwrite an
// earlier one.
func (a *PaymentAttempt) Resolve(state AttemptState, at time.Time) bool {
	if a.State.IsTerminal() || !state.IsTerminal() {
		return false
	}
	a.State = state
	a.ResolvedAt = &at
	return true
}

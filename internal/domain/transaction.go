package domain

import "time"

// TransactionStatus is the status vocabulary of the durable transaction
// record written by the M-Pesa result callback. It is deliberately distinct
// from AttemptState: the record is owned by the callback writer, the attempt
// by the checkout flow.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether the status can no longer change. Once a record
// leaves pending it never reverts.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

// TransactionRecord is the durable row keyed by the CheckoutRequestID issued
// at initiation. The poller only ever reads it.
type TransactionRecord struct {
	TransactionID      string
	Status             TransactionStatus
	MpesaReceiptNumber string
	Amount             float64
	PhoneNumber        string
	ResultDesc         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

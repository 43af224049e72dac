package domain

import "time"

// PaymentReceipt is the customer-facing record of a confirmed payment.
type PaymentReceipt struct {
	ID            string
	AttemptID     string
	CustomerID    string
	Kind          PurchaseKind
	ReceiptNumber string
	PhoneNumber   string
	Amount        float64
	Description   string
	IssuedAt      time.Time
}

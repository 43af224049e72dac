package domain

import "time"

// CropOrder is a marketplace purchase of farm produce, created only after
// the payment attempt completed.
type CropOrder struct {
	ID            string
	CustomerID    string
	ListingID     string
	Amount        float64
	ReceiptNumber string
	CreatedAt     time.Time
}

// CourseEnrollment unlocks a course for a customer after payment.
type CourseEnrollment struct {
	ID            string
	CustomerID    string
	CourseID      string
	Amount        float64
	ReceiptNumber string
	CreatedAt     time.Time
}

// LoanApplication records a paid loan application fee.
type LoanApplication struct {
	ID            string
	CustomerID    string
	ProductID     string
	FeeAmount     float64
	ReceiptNumber string
	CreatedAt     time.Time
}

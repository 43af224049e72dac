package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agripay/internal/domain"
)

// ReceiptService issues customer receipts for confirmed payments.
type ReceiptService struct {
	notificationService *NotificationService
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(notificationService *NotificationService) *ReceiptService {
	return &ReceiptService{
		notificationService: notificationService,
	}
}

// IssueReceipt builds a receipt for a completed attempt and notifies the
// customer it is ready.
func (s *ReceiptService) IssueReceipt(ctx context.Context, attempt *domain.PaymentAttempt) (*domain.PaymentReceipt, error) {
	if attempt == nil || attempt.State != domain.AttemptStateCompleted {
		return nil, ErrInvalidAttemptID
	}

	receipt := &domain.PaymentReceipt{
		ID:            uuid.New().String(),
		AttemptID:     attempt.ID,
		CustomerID:    attempt.CustomerID,
		Kind:          attempt.Kind,
		ReceiptNumber: attempt.ReceiptNumber,
		PhoneNumber:   attempt.PhoneNumber,
		Amount:        attempt.Amount,
		Description:   attempt.Description,
		IssuedAt:      time.Now(),
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyReceiptReady(ctx, receipt)
	}

	return receipt, nil
}

// FormatReceipt formats the receipt as a string (for SMS/email).
func (s *ReceiptService) FormatReceipt(receipt *domain.PaymentReceipt) string {
	return `
=====================================
        PAYMENT RECEIPT
=====================================
Receipt No:  ` + receipt.ReceiptNumber + `
Date:        ` + receipt.IssuedAt.Format("Jan 02, 2006 3:04 PM") + `

Paid by:     ` + receipt.PhoneNumber + `
For:         ` + receipt.Description + `
Amount:      KES ` + formatAmount(receipt.Amount) + `

=====================================
   Thank you for growing with us!
=====================================
`
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

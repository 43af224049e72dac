package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"agripay/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentSuccess        NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed         NotificationType = "PAYMENT_FAILED"
	NotificationPaymentTimedOut       NotificationType = "PAYMENT_TIMED_OUT"
	NotificationPurchaseRecorded      NotificationType = "PURCHASE_RECORDED"
	NotificationReconciliationPending NotificationType = "RECONCILIATION_PENDING"
	NotificationReceiptReady          NotificationType = "RECEIPT_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Africa's Talking, Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyPaymentSuccess notifies the customer of a confirmed payment.
func (s *NotificationService) NotifyPaymentSuccess(ctx context.Context, attempt *domain.PaymentAttempt) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentSuccess,
		RecipientID: attempt.CustomerID,
		Title:       "Payment Received",
		Message:     fmt.Sprintf("Your payment of KES %.0f was received. Receipt %s.", attempt.Amount, attempt.ReceiptNumber),
		Data: map[string]interface{}{
			"attempt_id": attempt.ID,
			"receipt":    attempt.ReceiptNumber,
			"amount":     attempt.Amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed notifies the customer of an explicit provider failure.
// The failure is retryable.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, attempt *domain.PaymentAttempt) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: attempt.CustomerID,
		Title:       "Payment Failed",
		Message:     fmt.Sprintf("Your payment of KES %.0f failed. Please try again.", attempt.Amount),
		Data: map[string]interface{}{
			"attempt_id": attempt.ID,
			"reason":     attempt.FailureReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentTimedOut tells the customer confirmation never arrived. The
// payment may still have gone through, so the message asks them to verify
// rather than retry blindly.
func (s *NotificationService) NotifyPaymentTimedOut(ctx context.Context, attempt *domain.PaymentAttempt) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentTimedOut,
		RecipientID: attempt.CustomerID,
		Title:       "Payment Not Confirmed",
		Message:     "We could not confirm your payment. Check your M-Pesa messages before paying again.",
		Data: map[string]interface{}{
			"attempt_id": attempt.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPurchaseRecorded notifies the customer their purchase is booked.
func (s *NotificationService) NotifyPurchaseRecorded(ctx context.Context, attempt *domain.PaymentAttempt) error {
	return s.send(ctx, Notification{
		Type:        NotificationPurchaseRecorded,
		RecipientID: attempt.CustomerID,
		Title:       "Purchase Complete",
		Message:     purchaseMessage(attempt.Kind),
		Data: map[string]interface{}{
			"attempt_id": attempt.ID,
			"kind":       attempt.Kind,
			"target_id":  attempt.TargetID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyReconciliationPending tells the customer the payment went through
// but the purchase record could not be written; the receipt number gives
// them a reference for support.
func (s *NotificationService) NotifyReconciliationPending(ctx context.Context, attempt *domain.PaymentAttempt) error {
	return s.send(ctx, Notification{
		Type:        NotificationReconciliationPending,
		RecipientID: attempt.CustomerID,
		Title:       "Payment Received",
		Message:     fmt.Sprintf("Your payment was received (receipt %s) but we could not complete the order. Contact support with your receipt.", attempt.ReceiptNumber),
		Data: map[string]interface{}{
			"attempt_id": attempt.ID,
			"receipt":    attempt.ReceiptNumber,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyReceiptReady notifies the customer that the receipt is ready.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, receipt *domain.PaymentReceipt) error {
	return s.send(ctx, Notification{
		Type:        NotificationReceiptReady,
		RecipientID: receipt.CustomerID,
		Title:       "Receipt Ready",
		Message:     fmt.Sprintf("Your receipt for KES %.0f is ready", receipt.Amount),
		Data: map[string]interface{}{
			"receipt_id": receipt.ID,
			"attempt_id": receipt.AttemptID,
		},
		CreatedAt: time.Now(),
	})
}

func purchaseMessage(kind domain.PurchaseKind) string {
	switch kind {
	case domain.PurchaseKindCrop:
		return "Your order has been placed. The seller will contact you for delivery."
	case domain.PurchaseKindCourse:
		return "Your course has been unlocked. Happy learning!"
	case domain.PurchaseKindLoanFee:
		return "Your loan application has been submitted for review."
	default:
		return "Your payment is complete."
	}
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would store the notification and fan
	// out to SMS/push/email channels.

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agripay/internal/domain"
	"agripay/internal/repository"
)

// Reconciler creates the durable purchase record after a payment attempt
// completed. Reconciliation is best-effort: the payment is already final, so
// a failed write is reported to the customer with the receipt number for
// manual follow-up and never rolls back or hides the payment success.
type Reconciler struct {
	orderRepo repository.OrderRepository
	notifier  *NotificationService
}

// NewReconciler creates a new Reconciler.
func NewReconciler(orderRepo repository.OrderRepository, notifier *NotificationService) *Reconciler {
	return &Reconciler{
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

// Reconcile persists the purchase record matching the attempt's kind.
// Generic and service payments carry no purchase record.
func (r *Reconciler) Reconcile(ctx context.Context, attempt *domain.PaymentAttempt) error {
	var err error

	switch attempt.Kind {
	case domain.PurchaseKindCrop:
		err = r.orderRepo.CreateCropOrder(ctx, &domain.CropOrder{
			ID:            uuid.New().String(),
			CustomerID:    attempt.CustomerID,
			ListingID:     attempt.TargetID,
			Amount:        attempt.Amount,
			ReceiptNumber: attempt.ReceiptNumber,
			CreatedAt:     time.Now(),
		})
	case domain.PurchaseKindCourse:
		err = r.orderRepo.CreateCourseEnrollment(ctx, &domain.CourseEnrollment{
			ID:            uuid.New().String(),
			CustomerID:    attempt.CustomerID,
			CourseID:      attempt.TargetID,
			Amount:        attempt.Amount,
			ReceiptNumber: attempt.ReceiptNumber,
			CreatedAt:     time.Now(),
		})
	case domain.PurchaseKindLoanFee:
		err = r.orderRepo.CreateLoanApplication(ctx, &domain.LoanApplication{
			ID:            uuid.New().String(),
			CustomerID:    attempt.CustomerID,
			ProductID:     attempt.TargetID,
			FeeAmount:     attempt.Amount,
			ReceiptNumber: attempt.ReceiptNumber,
			CreatedAt:     time.Now(),
		})
	default:
		return nil
	}

	if err != nil {
		if r.notifier != nil {
			r.notifier.NotifyReconciliationPending(ctx, attempt)
		}
		return fmt.Errorf("failed to record %s purchase: %w", attempt.Kind, err)
	}

	if r.notifier != nil {
		r.notifier.NotifyPurchaseRecorded(ctx, attempt)
	}

	return nil
}

package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"agripay/internal/domain"
	"agripay/internal/mpesa"
	"agripay/internal/service"
)

func TestReconciliation_WriteFailureDoesNotDemotePayment(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(&mpesa.Resolution{
		State:   domain.AttemptStateCompleted,
		Receipt: "QJ7XXXX",
	})
	orders := NewMockOrderRepository()
	orders.CropOrderError = errors.New("relation does not exist")
	svc := newCheckoutService(attempts, initiator, resolver, orders, nil)

	attempt, err := svc.Checkout(context.Background(), cropCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitResolved(t, attempts)

	stored := attempts.GetAttempt(attempt.ID)
	if stored.State != domain.AttemptStateCompleted {
		t.Errorf("expected COMPLETED despite failed order write, got %s", stored.State)
	}
	if stored.ReceiptNumber != "QJ7XXXX" {
		t.Errorf("expected receipt to survive reconciliation failure, got %q", stored.ReceiptNumber)
	}
	if got := atomic.LoadInt32(&orders.CropOrderCallCount); got != 1 {
		t.Errorf("expected one attempted order write, got %d", got)
	}
}

func TestReconciliation_KindRouting(t *testing.T) {
	t.Parallel()

	notifier := service.NewNotificationService()
	orders := NewMockOrderRepository()
	reconciler := service.NewReconciler(orders, notifier)

	base := domain.PaymentAttempt{
		ID:            "attempt-1",
		CustomerID:    "cust-1",
		Amount:        500,
		ReceiptNumber: "QJ7XXXX",
		State:         domain.AttemptStateCompleted,
	}

	course := base
	course.Kind = domain.PurchaseKindCourse
	course.TargetID = "course-9"
	if err := reconciler.Reconcile(context.Background(), &course); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loan := base
	loan.Kind = domain.PurchaseKindLoanFee
	loan.TargetID = "product-2"
	if err := reconciler.Reconcile(context.Background(), &loan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	generic := base
	generic.Kind = domain.PurchaseKindGeneric
	if err := reconciler.Reconcile(context.Background(), &generic); err != nil {
		t.Fatalf("unexpected error for generic payment: %v", err)
	}

	if got := atomic.LoadInt32(&orders.EnrollmentCallCount); got != 1 {
		t.Errorf("expected 1 enrollment, got %d", got)
	}
	if got := atomic.LoadInt32(&orders.LoanCallCount); got != 1 {
		t.Errorf("expected 1 loan application, got %d", got)
	}
	if got := atomic.LoadInt32(&orders.CropOrderCallCount); got != 0 {
		t.Errorf("expected no crop orders, got %d", got)
	}
}

func TestGetAttemptStatus_ReturnsTerminalOutcome(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(&mpesa.Resolution{
		State:   domain.AttemptStateCompleted,
		Receipt: "QJ7XXXX",
	})
	svc := newCheckoutService(attempts, initiator, resolver, NewMockOrderRepository(), nil)

	attempt, err := svc.Checkout(context.Background(), cropCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitResolved(t, attempts)

	status, err := svc.GetAttemptStatus(context.Background(), attempt.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != domain.AttemptStateCompleted {
		t.Errorf("expected COMPLETED, got %s", status.State)
	}
	if status.ReceiptNumber != "QJ7XXXX" {
		t.Errorf("expected receipt in status, got %q", status.ReceiptNumber)
	}

	if _, err := svc.GetAttemptStatus(context.Background(), ""); !errors.Is(err, service.ErrInvalidAttemptID) {
		t.Errorf("expected ErrInvalidAttemptID for empty id, got %v", err)
	}
}

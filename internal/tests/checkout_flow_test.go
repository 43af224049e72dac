package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"agripay/internal/domain"
	"agripay/internal/mpesa"
	redisstore "agripay/internal/redis"
	"agripay/internal/service"
)

func newCheckoutService(
	attempts *MockAttemptRepository,
	initiator *MockInitiator,
	resolver *MockResolver,
	orders *MockOrderRepository,
	locks redisstore.LockStoreInterface,
) *service.CheckoutService {
	notifier := service.NewNotificationService()
	receipts := service.NewReceiptService(notifier)
	reconciler := service.NewReconciler(orders, notifier)
	return service.NewCheckoutService(attempts, initiator, resolver, reconciler, notifier, receipts, locks, nil)
}

func cropCheckout() service.CheckoutRequest {
	return service.CheckoutRequest{
		CustomerID:       "cust-1",
		Kind:             domain.PurchaseKindCrop,
		TargetID:         "listing-7",
		PhoneNumber:      "0712345678",
		Amount:           1500,
		AccountReference: "CROP-listing-7",
		Description:      "Crop order",
	}
}

func waitResolved(t *testing.T, attempts *MockAttemptRepository) string {
	t.Helper()
	select {
	case id := <-attempts.Resolved:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for attempt resolution")
		return ""
	}
}

func TestCheckout_InvalidPhone_NeverInitiates(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(nil)
	svc := newCheckoutService(attempts, initiator, resolver, NewMockOrderRepository(), nil)

	req := cropCheckout()
	req.PhoneNumber = "12345"

	_, err := svc.Checkout(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr *service.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *service.ValidationError, got %T", err)
	}
	if got := atomic.LoadInt32(&initiator.InitiateCallCount); got != 0 {
		t.Errorf("expected no initiation for invalid phone, got %d calls", got)
	}
}

func TestCheckout_InitiationRejection_NoPolling(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("")
	initiator.Error = &mpesa.InitiationError{Description: "Insufficient balance"}
	resolver := NewMockResolver(nil)
	svc := newCheckoutService(attempts, initiator, resolver, NewMockOrderRepository(), nil)

	_, err := svc.Checkout(context.Background(), cropCheckout())
	if err == nil {
		t.Fatal("expected initiation error")
	}
	if err.Error() != "Insufficient balance" {
		t.Errorf("expected provider description to surface, got %q", err.Error())
	}
	if got := atomic.LoadInt32(&resolver.AwaitCallCount); got != 0 {
		t.Errorf("expected poller never to start, got %d calls", got)
	}
	if got := atomic.LoadInt32(&attempts.CreateCallCount); got != 0 {
		t.Errorf("expected no attempt row on initiation failure, got %d", got)
	}
}

func TestCheckout_SuccessPath_CreatesOrder(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(&mpesa.Resolution{
		State:    domain.AttemptStateCompleted,
		Receipt:  "QJ7XXXX",
		Attempts: 2,
	})
	orders := NewMockOrderRepository()
	svc := newCheckoutService(attempts, initiator, resolver, orders, nil)

	attempt, err := svc.Checkout(context.Background(), cropCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempt.State != domain.AttemptStateAwaitingConfirmation {
		t.Errorf("expected AWAITING_CONFIRMATION, got %s", attempt.State)
	}

	waitResolved(t, attempts)

	stored := attempts.GetAttempt(attempt.ID)
	if stored == nil {
		t.Fatal("attempt not found")
	}
	if stored.State != domain.AttemptStateCompleted {
		t.Errorf("expected COMPLETED, got %s", stored.State)
	}
	if stored.ReceiptNumber != "QJ7XXXX" {
		t.Errorf("expected receipt QJ7XXXX, got %q", stored.ReceiptNumber)
	}

	cropOrders := orders.CropOrders()
	if len(cropOrders) != 1 {
		t.Fatalf("expected 1 crop order, got %d", len(cropOrders))
	}
	if cropOrders[0].ReceiptNumber != "QJ7XXXX" {
		t.Errorf("expected order to carry the receipt, got %q", cropOrders[0].ReceiptNumber)
	}
	if got := atomic.LoadInt32(&attempts.UpdateResolutionCallCount); got != 1 {
		t.Errorf("expected exactly one resolution write, got %d", got)
	}
}

func TestCheckout_ExplicitDecline_NoOrder(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(&mpesa.Resolution{
		State:  domain.AttemptStateFailed,
		Reason: "Request cancelled by user",
	})
	orders := NewMockOrderRepository()
	svc := newCheckoutService(attempts, initiator, resolver, orders, nil)

	attempt, err := svc.Checkout(context.Background(), cropCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitResolved(t, attempts)

	stored := attempts.GetAttempt(attempt.ID)
	if stored.State != domain.AttemptStateFailed {
		t.Errorf("expected FAILED, got %s", stored.State)
	}
	if stored.FailureReason != "Request cancelled by user" {
		t.Errorf("unexpected failure reason %q", stored.FailureReason)
	}
	if got := atomic.LoadInt32(&orders.CropOrderCallCount); got != 0 {
		t.Errorf("expected no order after decline, got %d writes", got)
	}
}

func TestCheckout_Timeout_DistinctFromFailure(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(&mpesa.Resolution{
		State:    domain.AttemptStateTimedOut,
		Attempts: 30,
	})
	orders := NewMockOrderRepository()
	svc := newCheckoutService(attempts, initiator, resolver, orders, nil)

	attempt, err := svc.Checkout(context.Background(), cropCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitResolved(t, attempts)

	stored := attempts.GetAttempt(attempt.ID)
	if stored.State != domain.AttemptStateTimedOut {
		t.Errorf("expected TIMED_OUT, got %s", stored.State)
	}
	if stored.FailureReason == "" {
		t.Error("expected a verify-manually message on timeout")
	}
	if stored.AttemptsMade != 30 {
		t.Errorf("expected 30 attempts recorded, got %d", stored.AttemptsMade)
	}
	if got := atomic.LoadInt32(&orders.CropOrderCallCount); got != 0 {
		t.Errorf("expected no order after timeout, got %d writes", got)
	}
}

func TestCheckout_ConcurrentAttemptBlocked(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(nil)
	locks := NewMockLockStore()
	locks.Hold("CROP-listing-7")
	svc := newCheckoutService(attempts, initiator, resolver, NewMockOrderRepository(), locks)

	_, err := svc.Checkout(context.Background(), cropCheckout())
	if !errors.Is(err, service.ErrPaymentInFlight) {
		t.Fatalf("expected ErrPaymentInFlight, got %v", err)
	}
	if got := atomic.LoadInt32(&initiator.InitiateCallCount); got != 0 {
		t.Errorf("expected no initiation while locked, got %d calls", got)
	}
}

func TestCheckout_LockReleasedAfterResolution(t *testing.T) {
	t.Parallel()

	attempts := NewMockAttemptRepository()
	initiator := NewMockInitiator("ws_CO_123")
	resolver := NewMockResolver(&mpesa.Resolution{
		State:   domain.AttemptStateCompleted,
		Receipt: "QJ7XXXX",
	})
	locks := NewMockLockStore()
	svc := newCheckoutService(attempts, initiator, resolver, NewMockOrderRepository(), locks)

	_, err := svc.Checkout(context.Background(), cropCheckout())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitResolved(t, attempts)

	// The release happens right after the resolution write.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&locks.ReleaseCallCount) == 0 {
		select {
		case <-deadline:
			t.Fatal("lock never released after resolution")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

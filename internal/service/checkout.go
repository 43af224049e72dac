package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"agripay/internal/domain"
	"agripay/internal/mpesa"
	"agripay/internal/phone"
	redisstore "agripay/internal/redis"
	"agripay/internal/repository"
)

// PaymentInitiator is the interface for submitting an STK push.
type PaymentInitiator interface {
	Initiate(ctx context.Context, req domain.PaymentRequest) (string, error)
}

// StatusResolver resolves a checkout request ID to a terminal outcome.
type StatusResolver interface {
	AwaitResolution(ctx context.Context, checkoutRequestID string) (*mpesa.Resolution, error)
}

// lockTTL bounds how long an account reference stays locked if the process
// dies mid-poll; it should exceed the full polling horizon.
const lockTTL = 10 * time.Minute

// CheckoutRequest contains the parameters every pay-for-X call site supplies.
type CheckoutRequest struct {
	CustomerID       string
	Kind             domain.PurchaseKind
	TargetID         string
	PhoneNumber      string
	Amount           float64
	AccountReference string
	Description      string
}

// CheckoutService orchestrates a payment attempt end to end: validate the
// phone number, initiate the STK push, then resolve it in the background and
// reconcile the purchase.
type CheckoutService struct {
	attemptRepo repository.AttemptRepository
	gateway     PaymentInitiator
	poller      StatusResolver
	reconciler  *Reconciler
	notifier    *NotificationService
	receipts    *ReceiptService
	locks       redisstore.LockStoreInterface
	cache       redisstore.CacheStoreInterface
}

// NewCheckoutService creates a new CheckoutService. locks and cache may be
// nil, in which case locking and caching are skipped.
func NewCheckoutService(
	attemptRepo repository.AttemptRepository,
	gateway PaymentInitiator,
	poller StatusResolver,
	reconciler *Reconciler,
	notifier *NotificationService,
	receipts *ReceiptService,
	locks redisstore.LockStoreInterface,
	cache redisstore.CacheStoreInterface,
) *CheckoutService {
	return &CheckoutService{
		attemptRepo: attemptRepo,
		gateway:     gateway,
		poller:      poller,
		reconciler:  reconciler,
		notifier:    notifier,
		receipts:    receipts,
		locks:       locks,
		cache:       cache,
	}
}

// Checkout validates the request, initiates the STK push and starts the
// background resolution. It returns the attempt in AWAITING_CONFIRMATION;
// the caller polls GetAttemptStatus for the outcome.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*domain.PaymentAttempt, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.AccountReference == "" {
		return nil, ErrInvalidAccountReference
	}
	if req.Kind != domain.PurchaseKindGeneric && req.Kind != domain.PurchaseKindService && req.TargetID == "" {
		return nil, ErrInvalidTargetID
	}

	if msg := phone.ValidationError(req.PhoneNumber, true); msg != "" {
		return nil, &ValidationError{Message: msg}
	}
	msisdn, err := phone.Normalize(req.PhoneNumber)
	if err != nil {
		return nil, &ValidationError{Message: "Enter a valid M-Pesa number"}
	}

	locked := s.acquireLock(ctx, req.AccountReference)
	if s.locks != nil && !locked {
		return nil, ErrPaymentInFlight
	}

	checkoutRequestID, err := s.gateway.Initiate(ctx, domain.PaymentRequest{
		PhoneNumber:      msisdn,
		Amount:           req.Amount,
		AccountReference: req.AccountReference,
		Description:      req.Description,
	})
	if err != nil {
		s.releaseLock(req.AccountReference)
		return nil, err
	}

	attempt := &domain.PaymentAttempt{
		ID:                uuid.New().String(),
		CheckoutRequestID: checkoutRequestID,
		CustomerID:        req.CustomerID,
		Kind:              req.Kind,
		TargetID:          req.TargetID,
		PhoneNumber:       msisdn,
		Amount:            req.Amount,
		AccountReference:  req.AccountReference,
		Description:       req.Description,
		State:             domain.AttemptStateAwaitingConfirmation,
		CreatedAt:         time.Now(),
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		// The push is already on its way to the subscriber; without the
		// attempt row there is nothing to poll against.
		s.releaseLock(req.AccountReference)
		return nil, err
	}

	// Detached from the request context: the STK prompt outlives the HTTP
	// request, and finishing the request must not stop the poll loop. The
	// goroutine gets its own copy so the caller's attempt stays immutable.
	polled := *attempt
	go s.resolve(&polled)

	return attempt, nil
}

// resolve runs the poll loop to a terminal state and applies the outcome.
func (s *CheckoutService) resolve(attempt *domain.PaymentAttempt) {
	ctx := context.Background()
	defer s.releaseLock(attempt.AccountReference)

	res, err := s.poller.AwaitResolution(ctx, attempt.CheckoutRequestID)
	if err != nil {
		log.Printf("poll for attempt %s aborted: %v", attempt.ID, err)
		return
	}

	now := time.Now()
	if !attempt.Resolve(res.State, now) {
		return
	}
	attempt.AttemptsMade = res.Attempts

	switch res.State {
	case domain.AttemptStateCompleted:
		attempt.ReceiptNumber = res.Receipt
		s.notifier.NotifyPaymentSuccess(ctx, attempt)
		if s.receipts != nil {
			_, _ = s.receipts.IssueReceipt(ctx, attempt)
		}
		if s.reconciler != nil {
			if err := s.reconciler.Reconcile(ctx, attempt); err != nil {
				// The payment is final; a bookkeeping failure must not
				// demote the outcome.
				log.Printf("reconciliation for attempt %s failed: %v", attempt.ID, err)
			}
		}
	case domain.AttemptStateFailed:
		attempt.FailureReason = res.Reason
		if attempt.FailureReason == "" {
			attempt.FailureReason = "Payment failed. Please try again."
		}
		s.notifier.NotifyPaymentFailed(ctx, attempt)
	case domain.AttemptStateTimedOut:
		attempt.FailureReason = "We could not confirm your payment. Check your M-Pesa messages before retrying."
		s.notifier.NotifyPaymentTimedOut(ctx, attempt)
	}

	if err := s.attemptRepo.UpdateResolution(ctx, attempt); err != nil {
		log.Printf("failed to persist resolution for attempt %s: %v", attempt.ID, err)
	}

	s.cacheAttempt(ctx, attempt)
}

// AttemptStatus is the client-facing view of a payment attempt.
type AttemptStatus struct {
	ID            string
	State         domain.AttemptState
	Amount        float64
	ReceiptNumber string
	FailureReason string
}

// GetAttemptStatus retrieves the current status of a payment attempt, served
// from cache when the frontend is polling.
func (s *CheckoutService) GetAttemptStatus(ctx context.Context, attemptID string) (*AttemptStatus, error) {
	if attemptID == "" {
		return nil, ErrInvalidAttemptID
	}

	if s.cache != nil {
		cached, err := s.cache.GetAttempt(ctx, attemptID)
		if err == nil && cached != nil {
			return &AttemptStatus{
				ID:            cached.ID,
				State:         domain.AttemptState(cached.State),
				Amount:        cached.Amount,
				ReceiptNumber: cached.ReceiptNumber,
				FailureReason: cached.FailureReason,
			}, nil
		}
	}

	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	s.cacheAttempt(ctx, attempt)

	return &AttemptStatus{
		ID:            attempt.ID,
		State:         attempt.State,
		Amount:        attempt.Amount,
		ReceiptNumber: attempt.ReceiptNumber,
		FailureReason: attempt.FailureReason,
	}, nil
}

func (s *CheckoutService) acquireLock(ctx context.Context, accountReference string) bool {
	if s.locks == nil {
		return true
	}
	ok, err := s.locks.AcquirePaymentLock(ctx, accountReference, lockTTL)
	if err != nil {
		// Redis being down degrades to unguarded checkouts.
		log.Printf("payment lock for %s unavailable: %v", accountReference, err)
		return true
	}
	return ok
}

func (s *CheckoutService) releaseLock(accountReference string) {
	if s.locks == nil {
		return
	}
	if err := s.locks.ReleasePaymentLock(context.Background(), accountReference); err != nil {
		log.Printf("failed to release payment lock for %s: %v", accountReference, err)
	}
}

func (s *CheckoutService) cacheAttempt(ctx context.Context, attempt *domain.PaymentAttempt) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetAttempt(ctx, &redisstore.CachedAttempt{
		ID:            attempt.ID,
		State:         string(attempt.State),
		Amount:        attempt.Amount,
		ReceiptNumber: attempt.ReceiptNumber,
		FailureReason: attempt.FailureReason,
		Terminal:      attempt.State.IsTerminal(),
	})
	if err != nil {
		log.Printf("failed to cache attempt %s: %v", attempt.ID, err)
	}
}

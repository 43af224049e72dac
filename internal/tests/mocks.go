package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"agripay/internal/domain"
	"agripay/internal/mpesa"
	"agripay/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ATTEMPT REPOSITORY
// ──────────────────────────────────────────────

// MockAttemptRepository is a mock implementation of AttemptRepository.
type MockAttemptRepository struct {
	mu       sync.RWMutex
	attempts map[string]*domain.PaymentAttempt

	// Counters for verification
	CreateCallCount           int32
	UpdateResolutionCallCount int32

	// Error injection
	CreateError           error
	UpdateResolutionError error

	// Resolved is signalled once per persisted resolution so tests can wait
	// for the background poll goroutine without sleeping.
	Resolved chan string
}

// NewMockAttemptRepository creates a new mock attempt repository.
func NewMockAttemptRepository() *MockAttemptRepository {
	return &MockAttemptRepository{
		attempts: make(map[string]*domain.PaymentAttempt),
		Resolved: make(chan string, 8),
	}
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *domain.PaymentAttempt) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *attempt
	m.attempts[attempt.ID] = &copy
	return nil
}

func (m *MockAttemptRepository) GetByID(ctx context.Context, id string) (*domain.PaymentAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	attempt, ok := m.attempts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *attempt
	return &copy, nil
}

func (m *MockAttemptRepository) UpdateResolution(ctx context.Context, attempt *domain.PaymentAttempt) error {
	atomic.AddInt32(&m.UpdateResolutionCallCount, 1)
	if m.UpdateResolutionError != nil {
		return m.UpdateResolutionError
	}
	m.mu.Lock()
	stored, ok := m.attempts[attempt.ID]
	if ok && !stored.State.IsTerminal() {
		copy := *attempt
		m.attempts[attempt.ID] = &copy
	}
	m.mu.Unlock()
	if !ok {
		return repository.ErrNotFound
	}
	select {
	case m.Resolved <- attempt.ID:
	default:
	}
	return nil
}

// GetAttempt returns the stored attempt for test assertions.
func (m *MockAttemptRepository) GetAttempt(id string) *domain.PaymentAttempt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attempts[id]
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu          sync.RWMutex
	cropOrders  []*domain.CropOrder
	enrollments []*domain.CourseEnrollment
	loans       []*domain.LoanApplication

	// Counters for verification
	CropOrderCallCount  int32
	EnrollmentCallCount int32
	LoanCallCount       int32

	// Error injection
	CropOrderError  error
	EnrollmentError error
	LoanError       error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

func (m *MockOrderRepository) CreateCropOrder(ctx context.Context, order *domain.CropOrder) error {
	atomic.AddInt32(&m.CropOrderCallCount, 1)
	if m.CropOrderError != nil {
		return m.CropOrderError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cropOrders = append(m.cropOrders, order)
	return nil
}

func (m *MockOrderRepository) CreateCourseEnrollment(ctx context.Context, enrollment *domain.CourseEnrollment) error {
	atomic.AddInt32(&m.EnrollmentCallCount, 1)
	if m.EnrollmentError != nil {
		return m.EnrollmentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments = append(m.enrollments, enrollment)
	return nil
}

func (m *MockOrderRepository) CreateLoanApplication(ctx context.Context, application *domain.LoanApplication) error {
	atomic.AddInt32(&m.LoanCallCount, 1)
	if m.LoanError != nil {
		return m.LoanError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans = append(m.loans, application)
	return nil
}

// CropOrders returns the persisted crop orders for assertions.
func (m *MockOrderRepository) CropOrders() []*domain.CropOrder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.CropOrder(nil), m.cropOrders...)
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.TransactionRecord

	// Counters for verification
	UpsertCallCount int32

	// Error injection
	UpsertError error
	GetError    error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		records: make(map[string]*domain.TransactionRecord),
	}
}

func (m *MockTransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.TransactionRecord, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[transactionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *record
	return &copy, nil
}

func (m *MockTransactionRepository) Upsert(ctx context.Context, record *domain.TransactionRecord) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[record.TransactionID]
	if ok && existing.Status.IsTerminal() {
		// Terminal records are append-only.
		return nil
	}
	copy := *record
	m.records[record.TransactionID] = &copy
	return nil
}

// GetRecord returns the stored record for test assertions.
func (m *MockTransactionRepository) GetRecord(transactionID string) *domain.TransactionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[transactionID]
}

// ──────────────────────────────────────────────
// MOCK PAYMENT INITIATOR
// ──────────────────────────────────────────────

// MockInitiator is a mock implementation of service.PaymentInitiator.
type MockInitiator struct {
	CheckoutRequestID string
	Error             error

	// Counters for verification
	InitiateCallCount int32
}

// NewMockInitiator creates a mock initiator that returns the given handle.
func NewMockInitiator(handle string) *MockInitiator {
	return &MockInitiator{CheckoutRequestID: handle}
}

func (m *MockInitiator) Initiate(ctx context.Context, req domain.PaymentRequest) (string, error) {
	atomic.AddInt32(&m.InitiateCallCount, 1)
	if m.Error != nil {
		return "", m.Error
	}
	return m.CheckoutRequestID, nil
}

// ──────────────────────────────────────────────
// MOCK STATUS RESOLVER
// ──────────────────────────────────────────────

// MockResolver is a mock implementation of service.StatusResolver.
type MockResolver struct {
	Resolution *mpesa.Resolution
	Error      error

	// Counters for verification
	AwaitCallCount int32
}

// NewMockResolver creates a mock resolver returning the given resolution.
func NewMockResolver(res *mpesa.Resolution) *MockResolver {
	return &MockResolver{Resolution: res}
}

func (m *MockResolver) AwaitResolution(ctx context.Context, checkoutRequestID string) (*mpesa.Resolution, error) {
	atomic.AddInt32(&m.AwaitCallCount, 1)
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Resolution, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of redis.LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	held  map[string]bool
	Error error

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

// Hold marks a reference as already locked.
func (m *MockLockStore) Hold(accountReference string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[accountReference] = true
}

func (m *MockLockStore) AcquirePaymentLock(ctx context.Context, accountReference string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.Error != nil {
		return false, m.Error
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[accountReference] {
		return false, nil
	}
	m.held[accountReference] = true
	return true, nil
}

func (m *MockLockStore) ReleasePaymentLock(ctx context.Context, accountReference string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, accountReference)
	return nil
}

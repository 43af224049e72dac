package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed payment locking.
type LockStoreInterface interface {
	AcquirePaymentLock(ctx context.Context, accountReference string, ttl time.Duration) (bool, error)
	ReleasePaymentLock(ctx context.Context, accountReference string) error
}

// CacheStoreInterface defines the interface for attempt caching.
type CacheStoreInterface interface {
	GetAttempt(ctx context.Context, attemptID string) (*CachedAttempt, error)
	SetAttempt(ctx context.Context, attempt *CachedAttempt) error
	InvalidateAttempt(ctx context.Context, attemptID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)

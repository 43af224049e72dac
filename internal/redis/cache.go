package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// AttemptCacheTTL is short while attempts are in flight; the frontend
	// polls the status endpoint every few seconds.
	AttemptCacheTTL = 5 * time.Second

	// ResolvedAttemptCacheTTL covers terminal attempts, which never change.
	ResolvedAttemptCacheTTL = 10 * time.Minute
)

const attemptCachePrefix = "cache:attempt:"

// CachedAttempt represents a cached payment attempt.
type CachedAttempt struct {
	ID            string  `json:"id"`
	State         string  `json:"state"`
	Amount        float64 `json:"amount"`
	ReceiptNumber string  `json:"receipt_number"`
	FailureReason string  `json:"failure_reason"`
	Terminal      bool    `json:"terminal"`
}

// GetAttempt retrieves a payment attempt from cache.
func (s *CacheStore) GetAttempt(ctx context.Context, attemptID string) (*CachedAttempt, error) {
	key := attemptCachePrefix + attemptID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var attempt CachedAttempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// SetAttempt stores a payment attempt in cache.
func (s *CacheStore) SetAttempt(ctx context.Context, attempt *CachedAttempt) error {
	key := attemptCachePrefix + attempt.ID
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}

	ttl := AttemptCacheTTL
	if attempt.Terminal {
		ttl = ResolvedAttemptCacheTTL
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateAttempt removes a payment attempt from cache.
func (s *CacheStore) InvalidateAttempt(ctx context.Context, attemptID string) error {
	key := attemptCachePrefix + attemptID
	return s.client.Del(ctx, key).Err()
}

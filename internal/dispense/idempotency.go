package dispense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idemKeyPrefix = "dispense:idem:"

// IdempotencyCache remembers completed dispenses by client-supplied key, so
// a retried request replays the stored receipt instead of debiting twice.
type IdempotencyCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyCache(client redis.Cmdable, ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{client: client, ttl: ttl}
}

// Get returns the stored receipt for key, or nil when none exists. A nil
// cache never matches.
func (c *IdempotencyCache) Get(ctx context.Context, key string) (*Receipt, error) {
	if c == nil || key == "" {
		return nil, nil
	}
	data, err := c.client.Get(ctx, idemKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching idempotency record: %w", err)
	}
	var rec Receipt
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling idempotency record: %w", err)
	}
	return &rec, nil
}

// Put stores the receipt under key for the configured window.
func (c *IdempotencyCache) Put(ctx context.Context, key string, rec *Receipt) error {
	if c == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling idempotency record: %w", err)
	}
	if err := c.client.Set(ctx, idemKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing idempotency record: %w", err)
	}
	return nil
}

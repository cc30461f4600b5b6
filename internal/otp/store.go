package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// retentionGrace keeps a record in Redis past its logical expiry so a late
// verify attempt fails with Expired rather than NotFound. Expiry itself is
// always decided by wall-clock comparison against the record, never by the
// key dropping out.
const retentionGrace = time.Hour

// Store keeps OTP records in Redis, one key per (email, purpose) pair.
// SET semantics give the replace-on-reissue behavior for free.
type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) *Store {
	return &Store{client: client}
}

func recordKey(email string, purpose Purpose) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, email, purpose)
}

// Put stores rec, replacing any prior record for the same pair.
func (s *Store) Put(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling otp record: %w", err)
	}
	retention := time.Until(rec.ExpiresAt) + retentionGrace
	if err := s.client.Set(ctx, recordKey(rec.Email, rec.Purpose), data, retention).Err(); err != nil {
		return fmt.Errorf("storing otp record: %w", err)
	}
	return nil
}

// Get returns the record for the pair, or nil when none exists.
func (s *Store) Get(ctx context.Context, email string, purpose Purpose) (*Record, error) {
	data, err := s.client.Get(ctx, recordKey(email, purpose)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching otp record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling otp record: %w", err)
	}
	return &rec, nil
}

// Delete removes the record for the pair, if any.
func (s *Store) Delete(ctx context.Context, email string, purpose Purpose) error {
	if err := s.client.Del(ctx, recordKey(email, purpose)).Err(); err != nil {
		return fmt.Errorf("deleting otp record: %w", err)
	}
	return nil
}

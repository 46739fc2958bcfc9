// Package redisledger implements the refresh-token revocation ledger on
// Redis. An entry exists exactly while the refresh token it is keyed by
// is honored; Redis key expiry provides the natural TTL and an explicit
// DEL provides immediate revocation.
package redisledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZR1ck/Auth-Service/internal/auth"
)

const keyPrefix = "refresh_token:"

// entry is the stored value. exp mirrors the TTL in seconds for
// operator inspection; validity is carried by the key's own expiry.
type entry struct {
	UserID string `json:"user_id"`
	Exp    int64  `json:"exp"`
}

// Ledger implements auth.RevocationLedger on a Redis client.
type Ledger struct {
	client redis.UniversalClient
}

var _ auth.RevocationLedger = (*Ledger)(nil)

// New wraps a Redis client.
func New(client redis.UniversalClient) *Ledger {
	return &Ledger{client: client}
}

func key(token string) string { return keyPrefix + token }

// Put records the refresh token with the given TTL. A repeated Put for
// the same token silently overwrites; token strings are unique by
// construction so no dedup logic is needed.
func (l *Ledger) Put(ctx context.Context, userID, token string, ttl time.Duration) error {
	value, err := json.Marshal(entry{UserID: userID, Exp: int64(ttl.Seconds())})
	if err != nil {
		return err
	}
	if err := l.client.Set(ctx, key(token), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}
	return nil
}

// Exists probes for a live entry. Absent or naturally expired keys are
// (false, nil); only a transport failure is an error.
func (l *Ledger) Exists(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Delete removes the entry. Deleting an absent key succeeds, which
// makes logout idempotent.
func (l *Ledger) Delete(ctx context.Context, token string) error {
	if err := l.client.Del(ctx, key(token)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}
	return nil
}

// Ping reports point-in-time Redis availability for readiness probes.
func (l *Ledger) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}
	return nil
}

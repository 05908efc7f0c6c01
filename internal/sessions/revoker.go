// Package sessions tracks revoked JWT ids so logout takes effect before token
// expiry. Revocations live in redis with a TTL matching the token's remaining
// lifetime; without a configured redis the revoker degrades to a no-op and
// logout relies on the client discarding its token.
package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rubrichub:revoked:"

// Revoker records and checks revoked token ids.
type Revoker struct {
	client *redis.Client
}

// New creates a revoker backed by the given redis instance. An empty addr
// returns a disabled revoker.
func New(addr, password string, db int) *Revoker {
	if addr == "" {
		return &Revoker{}
	}
	return &Revoker{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Enabled reports whether a redis backend is configured.
func (r *Revoker) Enabled() bool {
	return r.client != nil
}

// Close releases the redis connection.
func (r *Revoker) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Ping verifies the redis backend is reachable. Disabled revokers always
// succeed.
func (r *Revoker) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Revoke marks a token id as revoked for the given remaining lifetime.
// Non-positive lifetimes are already-expired tokens and need no entry.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, remaining time.Duration) error {
	if r.client == nil || tokenID == "" || remaining <= 0 {
		return nil
	}
	if errSet := r.client.Set(ctx, keyPrefix+tokenID, "1", remaining).Err(); errSet != nil {
		return fmt.Errorf("sessions: revoke: %w", errSet)
	}
	return nil
}

// Revoked reports whether a token id has been revoked. Lookup failures are
// returned to the caller; authentication middleware treats them as a service
// error rather than silently honoring a possibly revoked token.
func (r *Revoker) Revoked(ctx context.Context, tokenID string) (bool, error) {
	if r.client == nil || tokenID == "" {
		return false, nil
	}
	n, errExists := r.client.Exists(ctx, keyPrefix+tokenID).Result()
	if errExists != nil {
		return false, fmt.Errorf("sessions: check revoked: %w", errExists)
	}
	return n > 0, nil
}

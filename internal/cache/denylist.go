package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist stores logged-out JWTs until their natural expiry. Keys
// are hashes of the raw token, so Redis never holds a usable credential.
type TokenDenylist struct {
	RDB *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{RDB: rdb}
}

func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "denied_token:" + hex.EncodeToString(sum[:])
}

// Revoke marks the token as unusable for ttl. A non-positive ttl means the
// token is already expired and there is nothing to store.
func (d *TokenDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.RDB.Set(ctx, denyKey(token), "1", ttl).Err()
}

// IsRevoked reports whether the token has been logged out. Redis being
// unreachable fails closed for writes (logout errors) but open for reads:
// a broken cache must not lock every user out.
func (d *TokenDenylist) IsRevoked(ctx context.Context, token string) bool {
	n, err := d.RDB.Exists(ctx, denyKey(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker tracks session tokens that were invalidated before their natural
// expiry (logout). Tokens are stateless JWTs, so revocation is a denylist
// keyed by the token's jti claim with a TTL equal to the remaining lifetime.
type Revoker interface {
	// Revoke marks the given token ID as revoked until its expiry.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether the given token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// redisRevoker is the Redis-backed Revoker implementation.
type redisRevoker struct {
	client *redis.Client
}

// NewRedisRevoker returns a Redis-backed Revoker.
func NewRedisRevoker(client *redis.Client) Revoker {
	return &redisRevoker{client: client}
}

func revocationKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func (r *redisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to deny.
		return nil
	}
	return r.client.Set(ctx, revocationKey(tokenID), "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

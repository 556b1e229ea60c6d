package shared

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenManager issues and resolves opaque bearer tokens backed by Redis.
// Tokens map to a user id and expire after the configured TTL; resolving a
// token slides its expiry forward, so active clients stay logged in.
type TokenManager struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, prefix string, ttl time.Duration) *TokenManager {
	if prefix == "" {
		prefix = "furniq_token"
	}
	return &TokenManager{client: client, prefix: prefix, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue creates a fresh token for the given user.
func (tm *TokenManager) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := tm.client.Set(ctx, tm.key(token), strconv.FormatInt(userID, 10), tm.ttl).Err(); err != nil {
		return "", fmt.Errorf("shared: store token: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind a token and refreshes its TTL.
func (tm *TokenManager) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}
	raw, err := tm.client.Get(ctx, tm.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrUnauthorized
		}
		return 0, fmt.Errorf("shared: resolve token: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrUnauthorized
	}
	if err := tm.client.Expire(ctx, tm.key(token), tm.ttl).Err(); err != nil {
		return 0, fmt.Errorf("shared: refresh token ttl: %w", err)
	}
	return userID, nil
}

// Revoke deletes a token, logging out the holder.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := tm.client.Del(ctx, tm.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("shared: revoke token: %w", err)
	}
	return nil
}

func (tm *TokenManager) key(token string) string {
	return tm.prefix + ":" + token
}

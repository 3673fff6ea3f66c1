package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	UserTokenPrefix   = "login:user:token"
	UserRefreshPrefix = "login:user:refresh"
	DefaultTokenTTL   = 30 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

// TokenRepository keeps the one valid access token and refresh token id per user.
type TokenRepository struct {
	Client     *redis.Client
	TTL        time.Duration
	RefreshTTL time.Duration
}

func NewTokenRepository(client *redis.Client, ttl, refreshTTL time.Duration) *TokenRepository {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenRepository{Client: client, TTL: ttl, RefreshTTL: refreshTTL}
}

func tokenKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

func refreshKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserRefreshPrefix, userID)
}

// Add stores token as the user's current access token, replacing any older one.
func (r *TokenRepository) Add(ctx context.Context, userID uint64, token string) error {
	if err := r.Client.Set(ctx, tokenKey(userID), token, r.TTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, tokenKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return token, nil
}

// Extend slides the expiry of the stored token.
func (r *TokenRepository) Extend(ctx context.Context, userID uint64) error {
	ok, err := r.Client.Expire(ctx, tokenKey(userID), r.TTL).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !ok {
		return ErrTokenNotFound
	}
	return nil
}

// AddRefresh records jti as the only refresh token id the user may redeem.
func (r *TokenRepository) AddRefresh(ctx context.Context, userID uint64, jti string) error {
	if err := r.Client.Set(ctx, refreshKey(userID), jti, r.RefreshTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *TokenRepository) GetRefresh(ctx context.Context, userID uint64) (string, error) {
	jti, err := r.Client.Get(ctx, refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return jti, nil
}

// Delete drops both the access token and the refresh token id.
func (r *TokenRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, tokenKey(userID), refreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

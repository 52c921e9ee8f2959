package redisinfra

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hazard:"

type claimer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Guard records which hazards have already been dispatched so redelivered
// triggers do not notify twice.
type Guard struct {
	rdb claimer
	ttl time.Duration
}

// NewClient parses url (redis:// or rediss://) and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.MaxRetries = 3
	if opts.TLSConfig == nil && strings.HasPrefix(url, "rediss://") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func NewGuard(rdb claimer, ttl time.Duration) *Guard {
	return &Guard{rdb: rdb, ttl: ttl}
}

// Claim marks hazardID as in flight. It reports false when another trigger
// already claimed it within the TTL.
func (g *Guard) Claim(ctx context.Context, hazardID string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, keyPrefix+hazardID, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", hazardID, err)
	}
	return ok, nil
}

// Release drops the claim so a later trigger may dispatch hazardID again.
func (g *Guard) Release(ctx context.Context, hazardID string) error {
	if err := g.rdb.Del(ctx, keyPrefix+hazardID).Err(); err != nil {
		return fmt.Errorf("release %s: %w", hazardID, err)
	}
	return nil
}

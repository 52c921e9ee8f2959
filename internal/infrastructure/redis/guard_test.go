package redisinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClaimer is an in-memory SetNX/Del.
type memClaimer struct {
	keys map[string]time.Duration
	err  error
}

func (m *memClaimer) SetNX(_ context.Context, key string, _ interface{}, exp time.Duration) *redis.BoolCmd {
	if m.err != nil {
		return redis.NewBoolResult(false, m.err)
	}
	if _, ok := m.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.keys[key] = exp
	return redis.NewBoolResult(true, nil)
}

func (m *memClaimer) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.keys[k]; ok {
			delete(m.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, m.err)
}

func TestGuard_ClaimOnce(t *testing.T) {
	mc := &memClaimer{keys: map[string]time.Duration{}}
	g := NewGuard(mc, time.Hour)
	ctx := context.Background()

	ok, err := g.Claim(ctx, "hz-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, mc.keys["hazard:hz-1"])

	ok, err = g.Claim(ctx, "hz-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, "hz-1"))
	ok, err = g.Claim(ctx, "hz-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuard_ClaimError(t *testing.T) {
	g := NewGuard(&memClaimer{keys: map[string]time.Duration{}, err: errors.New("connection refused")}, time.Hour)
	ok, err := g.Claim(context.Background(), "hz-1")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")
}

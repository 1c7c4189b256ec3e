package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return New(rdb, limit, time.Minute, zerolog.Nop()), mr
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow(ctx, "1.2.3.4"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow(ctx, "1.2.3.4"))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.False(t, l.Allow(ctx, "1.2.3.4"))
	assert.True(t, l.Allow(ctx, "5.6.7.8"))
}

func TestLimiterWindowReset(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "1.2.3.4"))
	require.False(t, l.Allow(ctx, "1.2.3.4"))

	mr.FastForward(2 * time.Minute)

	assert.True(t, l.Allow(ctx, "1.2.3.4"))
}

func TestLimiterFallsBackWithoutRedis(t *testing.T) {
	l := New(nil, 2, time.Minute, zerolog.Nop())
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "1.2.3.4"))
	require.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.False(t, l.Allow(ctx, "1.2.3.4"))
}

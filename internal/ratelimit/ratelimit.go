package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Limiter throttles unauthenticated booking traffic per client key
// (usually the remote IP). Counters live in Redis so every API replica
// shares the same window; when Redis is unreachable we degrade to
// per-process token buckets instead of rejecting traffic.
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger

	local sync.Map
}

func New(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *Limiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "ratelimit").Logger(),
	}
}

// Allow reports whether the caller identified by key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.rdb == nil {
		return l.allowLocal(key)
	}

	redisKey := fmt.Sprintf("rl:%s", key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("redis unavailable, falling back to local limiter")
		return l.allowLocal(key)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Msg("failed to set rate limit window")
		}
	}
	return count <= int64(l.limit)
}

func (l *Limiter) allowLocal(key string) bool {
	if v, ok := l.local.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim.Allow()
		}
	}

	perSec := float64(l.limit) / l.window.Seconds()
	lim := rate.NewLimiter(rate.Limit(perSec), l.limit)
	if actual, loaded := l.local.LoadOrStore(key, lim); loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim.Allow()
		}
	}
	return lim.Allow()
}

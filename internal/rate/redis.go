package rate

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tourgo/internal/logging"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares counters between server instances. The first hit in a
// window creates the key with a TTL of one window; later hits only INCR.
// When Redis is unreachable requests are allowed and the failure is logged.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	logger logging.Logger
}

func NewRedis(client redis.Cmdable, logger logging.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "tourgo:rate:", logger: logger.With("module", "rate")}
}

// NewRedisClient builds a client for addr in the same way for server and tools.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration) {
	k := r.prefix + key

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn(ctx, "rate limiter unavailable", "error", err)
		return true, 0
	}

	retry := ttl.Val()
	if retry < 0 {
		retry = window
	}
	return incr.Val() <= int64(limit), retry
}

package throttle

import (
	"context" // Context for Redis operations
	"time"    // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

const redisKeyPrefix = "login_attempts:"

// RedisStore keeps failure records as Redis hashes. The increment and
// timestamp write run in one transactional pipeline so bursts of failed
// logins across instances cannot lose counts. The key TTL is refreshed
// to the lockout window on every failure, so stale records evict
// themselves.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Fail increments the counter and stamps the attempt time atomically.
func (r *RedisStore) Fail(ctx context.Context, key string, at time.Time) (int64, error) {
	k := redisKeyPrefix + key
	pipe := r.rdb.TxPipeline()
	incr := pipe.HIncrBy(ctx, k, "count", 1)
	pipe.HSet(ctx, k, "last", at.UnixMilli())
	pipe.Expire(ctx, k, Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Get reads the counter and last attempt time for key.
func (r *RedisStore) Get(ctx context.Context, key string) (int64, time.Time, bool, error) {
	vals, err := r.rdb.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return 0, time.Time{}, false, err
	}
	if len(vals) == 0 {
		return 0, time.Time{}, false, nil // Expired or never failed
	}
	count, err := r.rdb.HGet(ctx, redisKeyPrefix+key, "count").Int64()
	if err != nil {
		return 0, time.Time{}, false, err
	}
	lastMilli, err := r.rdb.HGet(ctx, redisKeyPrefix+key, "last").Int64()
	if err != nil {
		return 0, time.Time{}, false, err
	}
	return count, time.UnixMilli(lastMilli), true, nil
}

// Clear deletes the failure record.
func (r *RedisStore) Clear(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis as JSON values with a TTL, so
// expiry is enforced by the store itself.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Get retrieves and unmarshals a session by id.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, bool, error) {
	val, err := r.rdb.Get(ctx, redisKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, false, nil // Key does not exist or expired
	} else if err != nil {
		return nil, false, err
	}
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

// Save marshals the session and stores it with the given TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, redisKeyPrefix+s.ID, b, ttl).Err()
}

// Delete removes a session key from Redis.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+id).Err()
}

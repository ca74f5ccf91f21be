package loginstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const initializeAttempts = 30

// RedisLoginStore keeps the login record in Redis so a saved login survives
// service restarts.
type RedisLoginStore struct {
	client *redis.Client
}

// NewRedisLoginStore accepts a Redis connection string ("hostname:port" or a
// "redis://..." URL) and returns the store instance.
func NewRedisLoginStore(redisAddr string) (*RedisLoginStore, error) {
	opts, err := redis.ParseURL(redisAddr)
	if err != nil {
		// Not a redis:// URL, treat it as a plain address.
		opts = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			MaxRetries:   30,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	return &RedisLoginStore{client: redis.NewClient(opts)}, nil
}

// Initialize verifies the Redis connection, retrying with capped exponential
// backoff until the server answers or ctx is cancelled.
func (r *RedisLoginStore) Initialize(ctx context.Context) error {
	log.Info("RedisLoginStore: initializing connection...")

	for i := 0; i < initializeAttempts; i++ {
		if r.Ping(ctx) {
			log.Infof("RedisLoginStore: connected on attempt %d", i+1)
			return nil
		}

		backoff := time.Duration(1000*(1<<uint(i))) * time.Millisecond
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		log.Infof("RedisLoginStore: waiting %v before next attempt", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("failed to connect to Redis after %d attempts", initializeAttempts)
}

// Save writes the JSON-encoded record under the login key.
func (r *RedisLoginStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return pkgerrors.Wrap(err, "encode login record")
	}
	if err := r.client.Set(ctx, Key, data, 0).Err(); err != nil {
		return pkgerrors.Wrap(err, "redis SET")
	}
	return nil
}

// Load reads the saved record; a missing key yields nil without error.
func (r *RedisLoginStore) Load(ctx context.Context) (*Record, error) {
	val, err := r.client.Get(ctx, Key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "redis GET")
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, pkgerrors.Wrap(err, "decode login record")
	}
	return &rec, nil
}

// Clear deletes the saved record. Deleting a missing key is a no-op.
func (r *RedisLoginStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, Key).Err(); err != nil {
		return pkgerrors.Wrap(err, "redis DEL")
	}
	return nil
}

// Ping checks whether Redis is reachable.
func (r *RedisLoginStore) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Ping(pingCtx).Err(); err != nil {
		log.Warnf("RedisLoginStore: ping failed: %v", err)
		return false
	}
	return true
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/story-player/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces save keys in a shared redis.
const KeyPrefix = "story-player:"

// maxUpdateRetries bounds optimistic retries when another writer touches a
// watched key.
const maxUpdateRetries = 50

// RedisStore implements storage.Store on top of redis.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStore implements Store interface
var _ storage.Store = (*RedisStore)(nil)

// NewRedisStore accepts either a redis:// URL or a bare host:port.
func NewRedisStore(redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opts = parsed
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

// Client returns the underlying client so the event broadcaster can share the
// connection pool.
func (r *RedisStore) Client() *redis.Client {
	return r.client
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, KeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		r.logger.Error("Failed to load save", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores without expiry; unlocked endings outlive any session.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		r.logger.Error("Failed to save", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Update is an optimistic WATCH/MULTI transaction, retried while other writers
// win the race.
func (r *RedisStore) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	rkey := KeyPrefix + key
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, rkey).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok = false
		} else if err != nil {
			return err
		}
		value, changed, err := fn(cur, ok)
		if err != nil || !changed {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rkey, value, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, rkey)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug("Save changed during update, retrying", "key", key, "attempt", i+1)
			continue
		}
		r.logger.Error("Failed to update save", "key", key, "error", err)
		return fmt.Errorf("failed to update %s: %w", key, err)
	}
	return fmt.Errorf("failed to update %s: too much contention after %d attempts", key, maxUpdateRetries)
}

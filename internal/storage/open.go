package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/story-player/pkg/storage"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a save store backend.
type Options struct {
	Backend    string
	RedisURL   string
	SQLitePath string
}

// Open builds the configured Store and verifies it is reachable.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (storage.Store, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return storage.NewMockStore(), nil
	case BackendRedis:
		rs, err := NewRedisStore(opts.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		if err := rs.WaitForConnection(ctx, 10, time.Second); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	case BackendSQLite, "":
		return OpenSQLite(opts.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q (supported: %s, %s, %s)",
			opts.Backend, BackendMemory, BackendRedis, BackendSQLite)
	}
}

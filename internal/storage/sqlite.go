package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/story-player/pkg/storage"
	_ "modernc.org/sqlite"
)

const createSavesTable = `CREATE TABLE IF NOT EXISTS saves (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore implements storage.Store in a single local database file.
// It is the default backend for single-player installs.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStore implements Store interface
var _ storage.Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	if _, err := db.Exec(createSavesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create saves table: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close sqlite db", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM saves WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		s.logger.Error("Failed to load save", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, true, nil
}

const upsertSave = `INSERT INTO saves (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertSave, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		s.logger.Error("Failed to save", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Update holds a write lock on the database from the read to the write.
// BEGIN IMMEDIATE takes it up front, so two updaters never both read the
// old value.
func (s *SQLiteStore) Update(ctx context.Context, key string, fn storage.UpdateFunc) (err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sqlite conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("failed to begin update of %s: %w", key, err)
	}
	defer func() {
		if err != nil {
			if _, rbErr := conn.ExecContext(context.Background(), "ROLLBACK"); rbErr != nil {
				s.logger.Error("Failed to roll back update", "key", key, "error", rbErr)
			}
		}
	}()

	var cur string
	ok := true
	err = conn.QueryRowContext(ctx, `SELECT value FROM saves WHERE key = ?`, key).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		ok, err = false, nil
	}
	if err != nil {
		s.logger.Error("Failed to load save", "key", key, "error", err)
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	value, changed, err := fn(cur, ok)
	if err != nil {
		return err
	}
	if changed {
		if _, err = conn.ExecContext(ctx, upsertSave, key, value, time.Now().UTC().UnixMilli()); err != nil {
			s.logger.Error("Failed to save", "key", key, "error", err)
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	if _, err = conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit update of %s: %w", key, err)
	}
	return nil
}

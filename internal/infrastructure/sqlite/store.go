// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// KeyValueStore implements the port.KeyValueStore interface on a SQLite file.
// Several processes may share the file: WAL mode plus a busy timeout.
type KeyValueStore struct {
	db *sql.DB
}

// Open creates or opens the store at dbPath and creates its table
func Open(ctx context.Context, dbPath string) (*KeyValueStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	// busy_timeout is per connection, so it goes in the DSN
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: wal mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create kv table: %w", err)
	}

	slog.InfoContext(ctx, "sqlite key value store opened", "path", dbPath)

	return &KeyValueStore{db: db}, nil
}

// Get implements the port.KeyValueStore interface
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewServiceUnavailable("failed to read key", err)
	}
	return value, true, nil
}

// Set implements the port.KeyValueStore interface
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, time.Now().UnixNano(),
	)
	if err != nil {
		return errors.NewServiceUnavailable("failed to write key", err)
	}
	return nil
}

// IsReady checks that the database answers queries
func (s *KeyValueStore) IsReady(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewServiceUnavailable("sqlite store is not ready", err)
	}
	return nil
}

// Close checkpoints WAL and closes the database
func (s *KeyValueStore) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

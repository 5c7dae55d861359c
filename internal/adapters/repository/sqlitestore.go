package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/logger"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS wheels (
	key        TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore persists wheels in a single SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

var _ WheelStore = (*SQLiteStore)(nil)

// OpenSQLite opens the database at dsn and creates the wheels table.
func OpenSQLite(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrStorePath
	}
	cfg := newStoreConfig("sqlitestore", opts)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: cfg.logger}, nil
}

// List implements WheelStore.List.
func (s *SQLiteStore) List(ctx context.Context) (map[string]wheel.Document, error) {
	start := time.Now()
	defer observe("list", start)

	rows, err := s.db.QueryContext(ctx, `SELECT key, doc FROM wheels`)
	if err != nil {
		return nil, fmt.Errorf("list wheels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := map[string]wheel.Document{}
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan wheel: %w", err)
		}
		doc, err := wheel.Decode([]byte(data))
		if err != nil {
			s.logger.Warn(ctx, "skipping undecodable wheel", logger.String("key", key), logger.Error(err))
			continue
		}
		out[key] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list wheels: %w", err)
	}
	return out, nil
}

// Get implements WheelStore.Get.
func (s *SQLiteStore) Get(ctx context.Context, key string) (wheel.Document, error) {
	start := time.Now()
	defer observe("get", start)

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM wheels WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return wheel.Document{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return wheel.Document{}, fmt.Errorf("get wheel %s: %w", key, err)
	}
	return wheel.Decode([]byte(data))
}

// Put implements WheelStore.Put.
func (s *SQLiteStore) Put(ctx context.Context, key string, doc wheel.Document) error {
	if key == "" {
		return ErrEmptyKey
	}
	start := time.Now()
	defer observe("put", start)

	data, err := wheel.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO wheels (key, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStoreWrite, key, err)
	}
	return nil
}

// Delete implements WheelStore.Delete.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer observe("delete", start)

	res, err := s.db.ExecContext(ctx, `DELETE FROM wheels WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStoreWrite, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete wheel %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// Count implements WheelStore.Count.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wheels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count wheels: %w", err)
	}
	return n, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

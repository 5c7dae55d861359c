package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/logger"
	"github.com/okian/spinwheel/pkg/metrics"
)

// FileStore keeps every wheel in one JSON object on disk, keyed by wheel
// name. Writes go to a temp file in the same directory and are renamed
// over the original. A missing or unreadable file reads as empty.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

var _ WheelStore = (*FileStore)(nil)

// NewFileStore opens (or prepares) the JSON file at path.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrStorePath
	}
	cfg := newStoreConfig("filestore", opts)
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: path, logger: cfg.logger}, nil
}

// read returns the raw per-key documents. Must be called with s.mu held.
func (s *FileStore) read(ctx context.Context) map[string]json.RawMessage {
	raw := map[string]json.RawMessage{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(ctx, "wheel file unreadable, starting empty",
				logger.String("path", s.path), logger.Error(err))
			metrics.RecordErrorByComponent("filestore", "read")
		}
		return raw
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		s.logger.Warn(ctx, "wheel file is not a JSON object, starting empty",
			logger.String("path", s.path), logger.Error(err))
		metrics.RecordErrorByComponent("filestore", "decode")
		return map[string]json.RawMessage{}
	}
	return raw
}

// write replaces the file atomically. Must be called with s.mu held.
func (s *FileStore) write(raw map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".wheels-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// List implements WheelStore.List. Entries that no longer decode are
// skipped with a warning.
func (s *FileStore) List(ctx context.Context) (map[string]wheel.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer observe("list", start)

	s.mu.Lock()
	raw := s.read(ctx)
	s.mu.Unlock()

	out := make(map[string]wheel.Document, len(raw))
	for k, data := range raw {
		doc, err := wheel.Decode(data)
		if err != nil {
			s.logger.Warn(ctx, "skipping undecodable wheel", logger.String("key", k), logger.Error(err))
			continue
		}
		out[k] = doc
	}
	return out, nil
}

// Get implements WheelStore.Get.
func (s *FileStore) Get(ctx context.Context, key string) (wheel.Document, error) {
	if err := ctx.Err(); err != nil {
		return wheel.Document{}, err
	}
	start := time.Now()
	defer observe("get", start)

	s.mu.Lock()
	data, ok := s.read(ctx)[key]
	s.mu.Unlock()
	if !ok {
		return wheel.Document{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return wheel.Decode(data)
}

// Put implements WheelStore.Put.
func (s *FileStore) Put(ctx context.Context, key string, doc wheel.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	start := time.Now()
	defer observe("put", start)

	data, err := wheel.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	raw := s.read(ctx)
	raw[key] = data
	return s.write(raw)
}

// Delete implements WheelStore.Delete.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer observe("delete", start)

	s.mu.Lock()
	defer s.mu.Unlock()
	raw := s.read(ctx)
	if _, ok := raw[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(raw, key)
	return s.write(raw)
}

// Count implements WheelStore.Count.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.read(ctx)), nil
}

// Close is a no-op; every write is already durable.
func (s *FileStore) Close() error {
	return nil
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}

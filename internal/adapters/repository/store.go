// Package repository persists wheel documents and spin history.
package repository

import (
	"context"

	"github.com/okian/spinwheel/internal/domain/wheel"
)

// WheelStore provides read/write access to wheel documents by key.
type WheelStore interface {
	// List returns every stored wheel keyed by its name.
	List(ctx context.Context) (map[string]wheel.Document, error)

	// Get returns the wheel stored under key.
	// Returns ErrNotFound if the key is unknown.
	Get(ctx context.Context, key string) (wheel.Document, error)

	// Put stores doc under key, replacing any previous document.
	Put(ctx context.Context, key string, doc wheel.Document) error

	// Delete removes key. Returns ErrNotFound if the key is unknown.
	Delete(ctx context.Context, key string) error

	// Count returns the number of stored wheels.
	Count(ctx context.Context) (int, error)

	Close() error
}

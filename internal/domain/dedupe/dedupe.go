// Package dedupe tracks idempotency keys for spin requests.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper remembers which idempotency keys have already produced a spin.
type Deduper interface {
	// Claim records key with value unless key is already known. It returns
	// the value stored for key and whether key was seen before. The empty
	// key is never recorded.
	Claim(ctx context.Context, key, value string) (string, bool)

	// Release forgets key so the request can be retried. Used when a spin
	// was claimed but could not be planned.
	Release(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps keys in insertion order in a ring; once full, the
// oldest key is evicted. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	values  map[string]string
	order   []string // ring of claimed keys, oldest at next once full
	next    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.values = make(map[string]string)
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, key, value string) (string, bool) {
	if key == "" {
		return value, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.values[key]; ok {
		return prev, true
	}

	if d.maxSize > 0 {
		if len(d.order) < d.maxSize {
			d.order = append(d.order, key)
		} else {
			// Slots freed by Release hold "".
			if old := d.order[d.next]; old != "" {
				delete(d.values, old)
				d.size.Add(-1)
			}
			d.order[d.next] = key
			d.next = (d.next + 1) % d.maxSize
		}
	}

	d.values[key] = value
	d.size.Add(1)
	return value, false
}

func (d *inMemoryDeduper) Release(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.size.Add(-1)
	for i, k := range d.order {
		if k == key {
			d.order[i] = ""
			break
		}
	}
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

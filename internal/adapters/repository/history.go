package repository

import (
	"sync"

	"github.com/okian/spinwheel/internal/domain/model"
)

const defaultHistoryLimit = 100

// ring holds the newest records of one wheel, overwriting the oldest.
type ring struct {
	buf  []model.SpinRecord
	next int
	full bool
}

func (r *ring) push(rec model.SpinRecord) {
	r.buf[r.next] = rec
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// HistoryStore keeps the most recent spin outcomes per wheel in memory.
type HistoryStore struct {
	mu    sync.RWMutex
	limit int
	byKey map[string]*ring
	total int
}

// NewHistoryStore creates an empty history.
func NewHistoryStore(opts ...HistoryOption) *HistoryStore {
	h := &HistoryStore{
		limit: defaultHistoryLimit,
		byKey: make(map[string]*ring),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append records rec under its wheel key.
func (h *HistoryStore) Append(rec model.SpinRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.byKey[rec.WheelKey]
	if !ok {
		r = &ring{buf: make([]model.SpinRecord, h.limit)}
		h.byKey[rec.WheelKey] = r
	}
	before := r.len()
	r.push(rec)
	h.total += r.len() - before
}

// Recent returns up to limit records for key, newest first. limit <= 0
// returns everything held.
func (h *HistoryStore) Recent(key string, limit int) []model.SpinRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.byKey[key]
	if !ok {
		return []model.SpinRecord{}
	}
	n := r.len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.SpinRecord, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

// Forget drops the history of key.
func (h *HistoryStore) Forget(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.byKey[key]; ok {
		h.total -= r.len()
		delete(h.byKey, key)
	}
}

// Len returns the number of records held across all wheels.
func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total
}

package repository

import "github.com/okian/spinwheel/pkg/logger"

type storeConfig struct {
	logger logger.Logger
}

// Option applies a configuration option to a wheel store.
type Option func(*storeConfig)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(c *storeConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newStoreConfig(name string, opts []Option) storeConfig {
	c := storeConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named(name)
	}
	return c
}

// HistoryOption applies a configuration option to the HistoryStore.
type HistoryOption func(*HistoryStore)

// WithHistoryLimit caps the outcomes kept per wheel.
func WithHistoryLimit(n int) HistoryOption {
	return func(h *HistoryStore) {
		if n > 0 {
			h.limit = n
		}
	}
}

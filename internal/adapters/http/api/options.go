package api

const defaultMaxHistoryLimit = 100

type serverConfig struct {
	maxHistoryLimit int
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

// WithMaxHistoryLimit caps GET /api/wheels/{key}/history?limit.
func WithMaxHistoryLimit(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxHistoryLimit = n
		}
	}
}

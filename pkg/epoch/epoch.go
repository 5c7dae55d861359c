// Package epoch provides a generation counter for invalidating stale async work.
//
// Any long-running operation captures the Token it was started under and
// checks Valid before each side effect. Starting a newer operation calls Next,
// which makes every previously issued token stale.
package epoch

import "sync/atomic"

// Token identifies the generation an operation was started under.
// The zero Token is never issued by Next.
type Token uint64

// Counter is a monotonically increasing generation counter.
// The zero value is ready to use.
type Counter struct {
	current atomic.Uint64
}

// Next starts a new generation and returns its token.
func (c *Counter) Next() Token {
	return Token(c.current.Add(1))
}

// Current returns the latest issued token, or zero if none was issued.
func (c *Counter) Current() Token {
	return Token(c.current.Load())
}

// Valid reports whether t belongs to the current generation.
func (c *Counter) Valid(t Token) bool {
	return t != 0 && Token(c.current.Load()) == t
}

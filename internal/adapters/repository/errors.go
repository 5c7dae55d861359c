package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("wheel not found")
	ErrEmptyKey      = errors.New("empty wheel key")
	ErrStorePath     = errors.New("store path is required")
	ErrStoreWrite    = errors.New("store write failed")
	ErrUnknownDriver = errors.New("unknown store driver")
)

package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")

	// errNotFound keeps the historical body {"ok":false,"error":"not found"}.
	errNotFound = errors.New("not found")
)

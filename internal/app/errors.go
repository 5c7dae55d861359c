package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidLayer = errors.New("invalid layer")
	ErrNothingToWin = errors.New("layer has no weighted segments")
)

package player

import "errors"

// Sentinel kinds for player errors.
var (
	ErrSpinInProgress = errors.New("spin in progress")
)

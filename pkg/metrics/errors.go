package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrFamilyNotFound = errors.New("metric family not found")
)

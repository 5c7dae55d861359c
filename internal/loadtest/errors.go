package loadtest

import "errors"

// Sentinel kinds for load run failures.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrStatus       = errors.New("unexpected status")
	ErrBadPlan      = errors.New("spin plan violates geometry")
	ErrDistribution = errors.New("winner distribution outside tolerance")
	ErrDuplicates   = errors.New("duplicate accounting mismatch")
	ErrHistory      = errors.New("history incomplete")
)

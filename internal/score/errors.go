package score

import "errors"

// Sentinel errors reported through Result.Error.
var (
	ErrNilFindings     = errors.New("invalid analysis results: findings are missing")
	ErrNilMetrics      = errors.New("invalid analysis results: codebase metrics are missing")
	ErrNegativeMetrics = errors.New("invalid codebase metrics: counts must be non-negative")
)

// Package analyzer defines the boundary to external static-analysis tools and
// the implementations that turn their output into score findings.
package analyzer

import (
	"context"

	"github.com/dshills/codescore/internal/score"
)

// Analyzer produces findings for a source directory.
type Analyzer interface {
	Analyze(ctx context.Context, dir string) ([]score.Finding, error)
	Name() string
}

// Options configures analyzer construction.
type Options struct {
	SemgrepBinary  string
	SemgrepConfigs []string
}

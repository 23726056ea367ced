package analyzer

import (
	"context"
	"sync"

	"github.com/dshills/codescore/internal/score"
)

// Mock is a test double that returns canned findings.
type Mock struct {
	Findings []score.Finding
	Err      error

	mu   sync.Mutex
	dirs []string
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Analyze(_ context.Context, dir string) ([]score.Finding, error) {
	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
	return m.Findings, m.Err
}

// Dirs returns every directory passed to Analyze.
func (m *Mock) Dirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dirs...)
}

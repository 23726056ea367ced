package analyzer

import (
	"fmt"
	"strings"
)

// Resolve selects an analyzer by name: "semgrep" (the default) runs the
// semgrep CLI, "file:<path>" replays a saved semgrep JSON report.
func Resolve(name string, opts Options) (Analyzer, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case lower == "" || lower == "semgrep":
		return &Semgrep{Binary: opts.SemgrepBinary, Configs: opts.SemgrepConfigs}, nil
	case strings.HasPrefix(lower, "file:"):
		path := strings.TrimSpace(name)[len("file:"):]
		if path == "" {
			return nil, fmt.Errorf("analyzer.Resolve: file analyzer needs a path")
		}
		return &Replay{Path: path}, nil
	}
	return nil, fmt.Errorf("analyzer.Resolve: %w: %q", ErrUnknownAnalyzer, name)
}

package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/codescore/internal/score"
)

const (
	defaultSemgrepBinary = "semgrep"
	defaultSemgrepConfig = "auto"
)

// Semgrep runs the semgrep CLI and parses its JSON report.
type Semgrep struct {
	Binary  string
	Configs []string
}

func (s *Semgrep) Name() string { return "semgrep" }

// Analyze runs `semgrep scan --json` over dir. A non-zero exit status is an
// error carrying the exit code and stderr.
func (s *Semgrep) Analyze(ctx context.Context, dir string) ([]score.Finding, error) {
	bin := s.Binary
	if bin == "" {
		bin = defaultSemgrepBinary
	}
	configs := s.Configs
	if len(configs) == 0 {
		configs = []string{defaultSemgrepConfig}
	}

	args := []string{"scan", "--json", "--quiet"}
	for _, c := range configs {
		args = append(args, "--config", c)
	}
	args = append(args, dir)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return nil, fmt.Errorf("analyzer.Semgrep: %w: exit code %d: %s",
				ErrAnalyzerFailed, ee.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("analyzer.Semgrep: %w", err)
	}

	findings, err := ParseSemgrep(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("analyzer.Semgrep: %w", err)
	}
	return findings, nil
}

type semgrepJSON struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
		} `json:"start"`
		End struct {
			Line int `json:"line"`
		} `json:"end"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"` // INFO|WARNING|ERROR
			Metadata struct {
				Category   string      `json:"category"`
				Confidence string      `json:"confidence"`
				Impact     string      `json:"impact"`
				CWE        interface{} `json:"cwe"`   // string | []string | null
				OWASP      interface{} `json:"owasp"` // string | []string | null
			} `json:"metadata"`
		} `json:"extra"`
	} `json:"results"`
}

// ParseSemgrep converts a semgrep JSON report into findings. Severities are
// lower-cased; metadata keeps category, confidence, impact, cwe, and owasp.
func ParseSemgrep(b []byte) ([]score.Finding, error) {
	var doc semgrepJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse semgrep report: %w", err)
	}

	out := make([]score.Finding, 0, len(doc.Results))
	for _, r := range doc.Results {
		md := r.Extra.Metadata
		out = append(out, score.Finding{
			RuleID:    r.CheckID,
			Severity:  strings.ToLower(strings.TrimSpace(r.Extra.Severity)),
			Path:      filepath.ToSlash(r.Path),
			StartLine: r.Start.Line,
			EndLine:   r.End.Line,
			Message:   r.Extra.Message,
			Metadata: map[string]string{
				"category":   md.Category,
				"confidence": md.Confidence,
				"impact":     md.Impact,
				"cwe":        joinAny(md.CWE),
				"owasp":      joinAny(md.OWASP),
			},
		})
	}
	return out, nil
}

func joinAny(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

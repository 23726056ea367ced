// Package redact replaces secrets in finding text with [REDACTED] before a
// report leaves the process.
package redact

import (
	"regexp"

	"github.com/dshills/codescore/internal/score"
)

const placeholder = "[REDACTED]"

var patterns []*regexp.Regexp

func init() {
	raw := []string{
		// AWS access key IDs
		`AKIA[0-9A-Z]{16}`,
		// AWS secret access keys
		`(?i)(aws_secret_access_key|aws_secret)\s*[:=]\s*[A-Za-z0-9/+=]{40}`,
		// Private key blocks
		`-----BEGIN [A-Z ]+PRIVATE KEY-----[\s\S]*?-----END [A-Z ]+PRIVATE KEY-----`,
		// Bearer tokens
		`Bearer\s+[A-Za-z0-9\-._~+/]+=*`,
		// GitHub tokens
		`gh[pousr]_[A-Za-z0-9]{20,}`,
		// JDBC / URL embedded credentials
		`(?i)[a-z][a-z0-9+.\-]*://[^\s:/@]+:[^\s@/]+@`,
		// Generic key/secret/token/password assignments
		`(?i)(api[_-]?key|api[_-]?secret|secret[_-]?key|token|password|passwd|pwd|credentials)\s*[:=]\s*\S+`,
	}
	for _, r := range raw {
		patterns = append(patterns, regexp.MustCompile(r))
	}
}

// Redact replaces secret patterns in text with [REDACTED].
func Redact(text string) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, placeholder)
	}
	return text
}

// Findings returns a copy of fs with messages and metadata values redacted.
// Rule ids, severities, and locations are left intact so scoring is
// unaffected. The input slice is not modified.
func Findings(fs []score.Finding) []score.Finding {
	if fs == nil {
		return nil
	}
	out := make([]score.Finding, len(fs))
	for i, f := range fs {
		f.Message = Redact(f.Message)
		if f.Metadata != nil {
			md := make(map[string]string, len(f.Metadata))
			for k, v := range f.Metadata {
				md[k] = Redact(v)
			}
			f.Metadata = md
		}
		out[i] = f
	}
	return out
}

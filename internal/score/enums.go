package score

import "strings"

// Severity is the canonical, lower-case severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// ParseSeverity normalizes a raw severity string. The second result is false
// for anything other than error, warning, or info.
func ParseSeverity(raw string) (Severity, bool) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Category groups rule identifiers that share a remediation.
type Category string

const (
	CategoryCredentials  Category = "CREDENTIALS"
	CategoryResourceLeak Category = "RESOURCE_LEAK"
	CategorySQLInjection Category = "SQL_INJECTION"
	CategoryUnsafeTLS    Category = "UNSAFE_TLS"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCredentials, CategoryResourceLeak, CategorySQLInjection, CategoryUnsafeTLS:
		return true
	}
	return false
}

// Grade converts a 0-100 score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// Package score defines the finding, metrics, and report types for codescore
// and implements the deterministic quality score and recommendation engine.
package score

// Finding is one static-analysis result as produced by an analyzer.
type Finding struct {
	RuleID    string            `json:"rule_id"`
	Severity  string            `json:"severity"`
	Path      string            `json:"path"`
	StartLine int               `json:"start_line"`
	EndLine   int               `json:"end_line"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Metrics is a snapshot of the analyzed codebase.
type Metrics struct {
	TotalLines      int64 `json:"total_lines"`
	SourceFileCount int   `json:"source_file_count"`
	TestFileCount   int   `json:"test_file_count"`
	FullyDocumented bool  `json:"fully_documented"`
}

// Counts holds the classified finding counts.
type Counts struct {
	Total    int            `json:"total"`
	Errors   int            `json:"errors"`
	Warnings int            `json:"warnings"`
	Infos    int            `json:"infos"`
	Rules    map[string]int `json:"rules,omitempty"`
}

// Bonuses itemizes the bonus term of a breakdown.
type Bonuses struct {
	TestCoverage  float64 `json:"test_coverage"`
	CleanCode     float64 `json:"clean_code"`
	Documentation float64 `json:"documentation"`
}

// Total returns the sum of all awarded bonuses.
func (b Bonuses) Total() float64 {
	return b.TestCoverage + b.CleanCode + b.Documentation
}

// Breakdown records every term that contributed to a quality score.
type Breakdown struct {
	BaseScore        float64 `json:"base_score"`
	ErrorPenalty     float64 `json:"error_penalty"`
	WarningPenalty   float64 `json:"warning_penalty"`
	InfoPenalty      float64 `json:"info_penalty"`
	Bonus            float64 `json:"bonus"`
	Bonuses          Bonuses `json:"bonuses"`
	NormalizedFactor float64 `json:"normalized_factor"`
	TotalLines       int64   `json:"total_lines"`
}

// Report is the top-level output of an analysis run.
type Report struct {
	Tool    string  `json:"tool"`
	Version string  `json:"version"`
	Input   Input   `json:"input"`
	Counts  Counts  `json:"counts"`
	Metrics Metrics `json:"metrics"`
	Result  Result  `json:"result"`
	Meta    Meta    `json:"meta"`
}

// Input describes what was analyzed.
type Input struct {
	Directory string `json:"directory"`
	Language  string `json:"language,omitempty"`
	Profile   string `json:"profile,omitempty"`
	Analyzer  string `json:"analyzer,omitempty"`
}

// Meta records run details that do not affect the score.
type Meta struct {
	Findings   int   `json:"findings"`
	DurationMs int64 `json:"duration_ms"`
	Redacted   bool  `json:"redacted"`
}

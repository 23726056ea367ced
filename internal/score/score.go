package score

import (
	"encoding/json"
	"math"
)

const (
	BaseScore        = 100.0
	ErrorLogPenalty  = 20.0
	WarningPenalty   = 0.5
	InfoPenalty      = 1.0 / 50.0
	LinesPerThousand = 1000

	TestCoverageBonus  = 5.0
	CleanCodeBonus     = 3.0
	DocumentationBonus = 2.0

	// minTestRatio is the test-to-source file ratio that earns the coverage bonus.
	minTestRatio = 0.5
	// maxWarningDensity is the warnings-per-line ceiling for the clean code bonus.
	maxWarningDensity = 0.01
)

// Result is the engine output: either a score with its breakdown and
// recommendations, or an error message for invalid input.
type Result struct {
	QualityScore    float64    `json:"quality_score"`
	Breakdown       *Breakdown `json:"breakdown,omitempty"`
	Recommendations []string   `json:"recommendations"`
	Error           string     `json:"error,omitempty"`
}

// MarshalJSON emits only {"error": ...} for failed results.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	type plain Result
	p := plain(r)
	if p.Recommendations == nil {
		p.Recommendations = []string{}
	}
	return json.Marshal(p)
}

// Failed reports whether the result carries an error instead of a score.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Evaluate classifies findings and scores them against the codebase metrics.
// A nil findings slice or nil metrics yields a Result with Error set; an empty
// findings slice takes the fast path and needs no metrics.
func Evaluate(findings []Finding, m *Metrics) Result {
	if findings == nil {
		return Result{Error: ErrNilFindings.Error()}
	}
	counts := Classify(findings)
	if counts.Total == 0 {
		var lines int64
		if m != nil {
			lines = m.TotalLines
		}
		return emptyResult(lines)
	}
	if m == nil {
		return Result{Error: ErrNilMetrics.Error()}
	}
	if err := m.validate(); err != nil {
		return Result{Error: err.Error()}
	}
	s, b, recs := Compute(counts, *m)
	return Result{QualityScore: s, Breakdown: &b, Recommendations: recs}
}

// Compute is the scoring engine. It is pure: identical inputs always yield
// identical outputs.
func Compute(c Counts, m Metrics) (float64, Breakdown, []string) {
	if c.Total == 0 {
		r := emptyResult(m.TotalLines)
		return r.QualityScore, *r.Breakdown, r.Recommendations
	}

	norm := NormalizationFactor(m.TotalLines)
	b := Breakdown{
		BaseScore:        BaseScore,
		ErrorPenalty:     ErrorPenaltyFor(c.Errors),
		WarningPenalty:   float64(c.Warnings) * WarningPenalty / norm,
		InfoPenalty:      float64(c.Infos) * InfoPenalty / norm,
		Bonuses:          bonusesFor(c, m),
		NormalizedFactor: norm,
		TotalLines:       m.TotalLines,
	}
	b.Bonus = b.Bonuses.Total()

	s := BaseScore - b.ErrorPenalty - b.WarningPenalty - b.InfoPenalty + b.Bonus
	return clamp(s, 0, 100), b, Recommend(c.Rules)
}

// NormalizationFactor scales linear penalties by codebase size in thousands of
// lines. It never drops below 1.
func NormalizationFactor(totalLines int64) float64 {
	return math.Max(1.0, float64(totalLines)/float64(LinesPerThousand))
}

// ErrorPenaltyFor returns the logarithmic penalty for n errors.
func ErrorPenaltyFor(n int) float64 {
	return math.Log2(1+float64(n)) * ErrorLogPenalty
}

func bonusesFor(c Counts, m Metrics) Bonuses {
	var b Bonuses
	if float64(m.TestFileCount) >= minTestRatio*float64(m.SourceFileCount) {
		b.TestCoverage = TestCoverageBonus
	}
	// zero lines: density is undefined, no bonus
	if m.TotalLines > 0 && float64(c.Warnings)/float64(m.TotalLines) < maxWarningDensity {
		b.CleanCode = CleanCodeBonus
	}
	if m.FullyDocumented {
		b.Documentation = DocumentationBonus
	}
	return b
}

func emptyResult(totalLines int64) Result {
	return Result{
		QualityScore: BaseScore,
		Breakdown: &Breakdown{
			BaseScore:        BaseScore,
			NormalizedFactor: 1.0,
			TotalLines:       totalLines,
		},
		Recommendations: []string{},
	}
}

func (m Metrics) validate() error {
	if m.TotalLines < 0 || m.SourceFileCount < 0 || m.TestFileCount < 0 {
		return ErrNegativeMetrics
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

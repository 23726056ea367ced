// Package schema validates score reports for structural and arithmetic consistency.
package schema

import (
	"fmt"
	"math"

	"github.com/dshills/codescore/internal/score"
)

// tolerance absorbs floating point drift from a JSON round trip.
const tolerance = 1e-9

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Report for structural validity and recomputes the score
// from its breakdown.
func Validate(r *score.Report) []ValidationError {
	var errs []ValidationError

	if r.Tool == "" {
		errs = append(errs, ValidationError{"tool", "required"})
	}
	if r.Version == "" {
		errs = append(errs, ValidationError{"version", "required"})
	}
	if r.Input.Directory == "" {
		errs = append(errs, ValidationError{"input.directory", "required"})
	}

	errs = append(errs, validateCounts(r.Counts)...)

	m := r.Metrics
	if m.TotalLines < 0 {
		errs = append(errs, ValidationError{"metrics.total_lines", "must be >= 0"})
	}
	if m.SourceFileCount < 0 {
		errs = append(errs, ValidationError{"metrics.source_file_count", "must be >= 0"})
	}
	if m.TestFileCount < 0 {
		errs = append(errs, ValidationError{"metrics.test_file_count", "must be >= 0"})
	}

	res := r.Result
	if res.Failed() {
		return errs
	}
	if res.QualityScore < 0 || res.QualityScore > 100 {
		errs = append(errs, ValidationError{"result.quality_score", fmt.Sprintf("%v out of range [0,100]", res.QualityScore)})
	}
	if len(res.Recommendations) > score.MaxRecommendations {
		errs = append(errs, ValidationError{"result.recommendations", fmt.Sprintf("%d entries exceeds limit of %d", len(res.Recommendations), score.MaxRecommendations)})
	}
	if res.Breakdown == nil {
		errs = append(errs, ValidationError{"result.breakdown", "required"})
		return errs
	}
	errs = append(errs, validateBreakdown(res.QualityScore, res.Breakdown)...)
	return errs
}

func validateCounts(c score.Counts) []ValidationError {
	var errs []ValidationError
	for _, f := range []struct {
		name string
		n    int
	}{
		{"counts.total", c.Total},
		{"counts.errors", c.Errors},
		{"counts.warnings", c.Warnings},
		{"counts.infos", c.Infos},
	} {
		if f.n < 0 {
			errs = append(errs, ValidationError{f.name, "must be >= 0"})
		}
	}
	if sum := c.Errors + c.Warnings + c.Infos; sum > c.Total {
		errs = append(errs, ValidationError{"counts.total", fmt.Sprintf("severity counts sum to %d, exceeding total %d", sum, c.Total)})
	}
	return errs
}

func validateBreakdown(quality float64, b *score.Breakdown) []ValidationError {
	var errs []ValidationError
	if b.BaseScore != score.BaseScore {
		errs = append(errs, ValidationError{"result.breakdown.base_score", fmt.Sprintf("expected %v, got %v", score.BaseScore, b.BaseScore)})
	}
	if b.NormalizedFactor < 1 {
		errs = append(errs, ValidationError{"result.breakdown.normalized_factor", "must be >= 1"})
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"error_penalty", b.ErrorPenalty},
		{"warning_penalty", b.WarningPenalty},
		{"info_penalty", b.InfoPenalty},
		{"bonus", b.Bonus},
	} {
		if p.v < 0 {
			errs = append(errs, ValidationError{"result.breakdown." + p.name, "must be >= 0"})
		}
	}
	if math.Abs(b.Bonus-b.Bonuses.Total()) > tolerance {
		errs = append(errs, ValidationError{"result.breakdown.bonus", fmt.Sprintf("%v does not match itemized total %v", b.Bonus, b.Bonuses.Total())})
	}

	expected := b.BaseScore - b.ErrorPenalty - b.WarningPenalty - b.InfoPenalty + b.Bonus
	expected = math.Max(0, math.Min(100, expected))
	if math.Abs(expected-quality) > tolerance {
		errs = append(errs, ValidationError{"result.quality_score", fmt.Sprintf("score %v does not match computed %v", quality, expected)})
	}
	return errs
}

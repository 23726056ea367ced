// Package render produces Markdown and plain-text output from a score report.
package render

import (
	"fmt"
	"strings"

	"github.com/dshills/codescore/internal/score"
)

// topRules is how many rules the "Top Rules" section lists.
const topRules = 10

// Markdown renders a report as a Markdown document.
func Markdown(r *score.Report) string {
	var b strings.Builder

	b.WriteString("# Code Quality Report\n\n")
	fmt.Fprintf(&b, "**Directory:** %s\n", r.Input.Directory)
	if r.Input.Language != "" {
		fmt.Fprintf(&b, "**Language:** %s\n", r.Input.Language)
	}
	if r.Input.Analyzer != "" {
		fmt.Fprintf(&b, "**Analyzer:** %s\n", r.Input.Analyzer)
	}

	if r.Result.Failed() {
		fmt.Fprintf(&b, "\n**Error:** %s\n", r.Result.Error)
		return b.String()
	}

	fmt.Fprintf(&b, "**Score:** %.2f / 100 (%s)\n", r.Result.QualityScore, score.Grade(r.Result.QualityScore))
	fmt.Fprintf(&b, "**Findings:** %d errors, %d warnings, %d info\n\n",
		r.Counts.Errors, r.Counts.Warnings, r.Counts.Infos)

	if bd := r.Result.Breakdown; bd != nil {
		b.WriteString("## Breakdown\n\n")
		b.WriteString("| Term | Value |\n|---|---:|\n")
		fmt.Fprintf(&b, "| Base score | %.2f |\n", bd.BaseScore)
		fmt.Fprintf(&b, "| Error penalty | -%.2f |\n", bd.ErrorPenalty)
		fmt.Fprintf(&b, "| Warning penalty | -%.2f |\n", bd.WarningPenalty)
		fmt.Fprintf(&b, "| Info penalty | -%.2f |\n", bd.InfoPenalty)
		fmt.Fprintf(&b, "| Test coverage bonus | +%.2f |\n", bd.Bonuses.TestCoverage)
		fmt.Fprintf(&b, "| Clean code bonus | +%.2f |\n", bd.Bonuses.CleanCode)
		fmt.Fprintf(&b, "| Documentation bonus | +%.2f |\n", bd.Bonuses.Documentation)
		fmt.Fprintf(&b, "| Normalization factor | %.3f |\n", bd.NormalizedFactor)
		fmt.Fprintf(&b, "| Total lines | %d |\n\n", bd.TotalLines)
	}

	b.WriteString("## Recommendations\n\n")
	if len(r.Result.Recommendations) == 0 {
		b.WriteString("No recommendations.\n\n")
	} else {
		for _, rec := range r.Result.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if ranked := score.RankRules(r.Counts.Rules); len(ranked) > 0 {
		b.WriteString("## Top Rules\n\n")
		b.WriteString("| Rule | Count |\n|---|---:|\n")
		for i, rc := range ranked {
			if i == topRules {
				break
			}
			fmt.Fprintf(&b, "| `%s` | %d |\n", rc.RuleID, rc.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Codebase\n\n")
	fmt.Fprintf(&b, "- Lines: %d\n", r.Metrics.TotalLines)
	fmt.Fprintf(&b, "- Source files: %d\n", r.Metrics.SourceFileCount)
	fmt.Fprintf(&b, "- Test files: %d\n", r.Metrics.TestFileCount)
	fmt.Fprintf(&b, "- Fully documented: %t\n", r.Metrics.FullyDocumented)

	return b.String()
}

// Text renders a compact terminal summary.
func Text(r *score.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.Input.Directory)
	if r.Result.Failed() {
		fmt.Fprintf(&b, "  error: %s\n", r.Result.Error)
		return b.String()
	}

	fmt.Fprintf(&b, "  score:    %6.2f  (%s)\n", r.Result.QualityScore, score.Grade(r.Result.QualityScore))
	fmt.Fprintf(&b, "  findings: %d (%d error, %d warning, %d info)\n",
		r.Counts.Total, r.Counts.Errors, r.Counts.Warnings, r.Counts.Infos)
	if bd := r.Result.Breakdown; bd != nil {
		fmt.Fprintf(&b, "  penalty:  %.2f error, %.2f warning, %.2f info (x%.3f)\n",
			bd.ErrorPenalty, bd.WarningPenalty, bd.InfoPenalty, bd.NormalizedFactor)
		fmt.Fprintf(&b, "  bonus:    %.2f\n", bd.Bonus)
	}
	for _, rec := range r.Result.Recommendations {
		fmt.Fprintf(&b, "  * %s\n", rec)
	}
	return b.String()
}

package render

import (
	"strings"
	"testing"

	"github.com/dshills/codescore/internal/score"
)

func sampleReport() *score.Report {
	bd := &score.Breakdown{
		BaseScore:        100,
		ErrorPenalty:     20,
		WarningPenalty:   5,
		InfoPenalty:      0.1,
		Bonus:            5,
		Bonuses:          score.Bonuses{TestCoverage: 5},
		NormalizedFactor: 1,
		TotalLines:       800,
	}
	return &score.Report{
		Tool:    "codescore",
		Version: "1.0",
		Input: score.Input{
			Directory: "/src/app",
			Language:  "java",
			Profile:   "java",
			Analyzer:  "semgrep",
		},
		Counts: score.Counts{
			Total: 16, Errors: 1, Warnings: 10, Infos: 5,
			Rules: map[string]int{
				"java.hardcoded-credentials": 1,
				"java.unused-import":         10,
				"java.todo":                  5,
			},
		},
		Metrics: score.Metrics{TotalLines: 800, SourceFileCount: 4, TestFileCount: 2},
		Result: score.Result{
			QualityScore:    79.9,
			Breakdown:       bd,
			Recommendations: []string{"Move 1 hardcoded credentials to secure configuration or environment variables"},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	checks := []string{
		"# Code Quality Report",
		"**Directory:** /src/app",
		"**Language:** java",
		"**Score:** 79.90 / 100 (C)",
		"**Findings:** 1 errors, 10 warnings, 5 info",
		"## Breakdown",
		"| Error penalty | -20.00 |",
		"| Test coverage bonus | +5.00 |",
		"## Recommendations",
		"- Move 1 hardcoded credentials",
		"## Top Rules",
		"| `java.unused-import` | 10 |",
		"- Test files: 2",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// ranked by count descending
	if strings.Index(md, "java.unused-import") > strings.Index(md, "java.todo") {
		t.Error("top rules should be ordered by count")
	}
}

func TestMarkdownNoRecommendations(t *testing.T) {
	r := &score.Report{
		Input:  score.Input{Directory: "/clean"},
		Result: score.Result{QualityScore: 100, Breakdown: &score.Breakdown{BaseScore: 100, NormalizedFactor: 1}},
	}
	md := Markdown(r)
	if !strings.Contains(md, "No recommendations.") {
		t.Error("expected 'No recommendations.' for clean report")
	}
	if strings.Contains(md, "## Top Rules") {
		t.Error("top rules section should be omitted without findings")
	}
}

func TestMarkdownError(t *testing.T) {
	r := &score.Report{
		Input:  score.Input{Directory: "/x"},
		Result: score.Result{Error: "findings must not be nil"},
	}
	md := Markdown(r)
	if !strings.Contains(md, "**Error:** findings must not be nil") {
		t.Errorf("error not rendered:\n%s", md)
	}
	if strings.Contains(md, "## Breakdown") {
		t.Error("failed report should not render a breakdown")
	}
}

func TestText(t *testing.T) {
	out := Text(sampleReport())
	checks := []string{
		"/src/app",
		"score:     79.90  (C)",
		"findings: 16 (1 error, 10 warning, 5 info)",
		"bonus:    5.00",
		"* Move 1 hardcoded credentials",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("text missing %q\n%s", want, out)
		}
	}
}

func TestTextError(t *testing.T) {
	out := Text(&score.Report{Input: score.Input{Directory: "/x"}, Result: score.Result{Error: "boom"}})
	if !strings.Contains(out, "error: boom") {
		t.Errorf("unexpected output: %s", out)
	}
}

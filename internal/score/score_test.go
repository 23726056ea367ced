package score

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

// --- Enum tests ---

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Severity("critical").Valid() {
		t.Error("expected critical severity to be invalid")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
		ok    bool
	}{
		{"error", SeverityError, true},
		{"ERROR", SeverityError, true},
		{" Warning ", SeverityWarning, true},
		{"INFO", SeverityInfo, true},
		{"critical", Severity("critical"), false},
		{"", Severity(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSeverity(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseSeverity(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryCredentials, CategoryResourceLeak, CategorySQLInjection, CategoryUnsafeTLS} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Category("STYLE").Valid() {
		t.Error("expected STYLE category to be invalid")
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A"}, {90, "A"}, {89.9, "B"}, {80, "B"}, {75, "C"}, {60, "D"}, {59.99, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.want {
			t.Errorf("Grade(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

// --- Classifier tests ---

func TestClassify(t *testing.T) {
	findings := []Finding{
		{RuleID: "java.sql-injection", Severity: "ERROR"},
		{RuleID: "java.sql-injection", Severity: "error"},
		{RuleID: "java.resource-leak", Severity: "Warning"},
		{RuleID: "style.naming", Severity: "INFO"},
		{RuleID: "odd.rule", Severity: "critical"},
		{RuleID: "", Severity: "warning"},
		{RuleID: "no.severity"},
	}

	c := Classify(findings)
	if c.Total != 7 {
		t.Errorf("Total = %d, want 7", c.Total)
	}
	if c.Errors != 2 || c.Warnings != 2 || c.Infos != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/2/1", c.Errors, c.Warnings, c.Infos)
	}
	wantRules := map[string]int{
		"java.sql-injection": 2,
		"java.resource-leak": 1,
		"style.naming":       1,
		"odd.rule":           1,
		"no.severity":        1,
	}
	if len(c.Rules) != len(wantRules) {
		t.Fatalf("Rules = %v, want %v", c.Rules, wantRules)
	}
	for id, n := range wantRules {
		if c.Rules[id] != n {
			t.Errorf("Rules[%q] = %d, want %d", id, c.Rules[id], n)
		}
	}
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(nil)
	if c.Total != 0 || c.Errors != 0 || len(c.Rules) != 0 {
		t.Errorf("unexpected counts for empty input: %+v", c)
	}
}

func TestClassifyOrderIndependent(t *testing.T) {
	a := []Finding{
		{RuleID: "r1", Severity: "error"},
		{RuleID: "r2", Severity: "info"},
		{RuleID: "r1", Severity: "warning"},
	}
	b := []Finding{a[2], a[0], a[1]}
	ca, cb := Classify(a), Classify(b)
	if ca.Errors != cb.Errors || ca.Warnings != cb.Warnings || ca.Infos != cb.Infos || ca.Rules["r1"] != cb.Rules["r1"] {
		t.Errorf("classification depends on order: %+v vs %+v", ca, cb)
	}
}

// --- Engine tests ---

// noBonusMetrics earns no bonus for warning-free input above zero lines
// except clean code, which depends on the warning count.
func noBonusMetrics(lines int64) Metrics {
	return Metrics{TotalLines: lines, SourceFileCount: 10, TestFileCount: 0}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluateEmptyFindings(t *testing.T) {
	r := Evaluate([]Finding{}, &Metrics{TotalLines: 1234, SourceFileCount: 3, FullyDocumented: true})
	if r.Failed() {
		t.Fatalf("unexpected error: %s", r.Error)
	}
	if r.QualityScore != 100 {
		t.Errorf("score = %v, want 100", r.QualityScore)
	}
	b := r.Breakdown
	if b.BaseScore != 100 || b.ErrorPenalty != 0 || b.WarningPenalty != 0 || b.InfoPenalty != 0 || b.Bonus != 0 {
		t.Errorf("expected all-zero breakdown except base, got %+v", b)
	}
	if b.Bonuses != (Bonuses{}) {
		t.Errorf("expected no itemized bonuses, got %+v", b.Bonuses)
	}
	if b.NormalizedFactor != 1.0 {
		t.Errorf("normalized_factor = %v, want 1", b.NormalizedFactor)
	}
	if b.TotalLines != 1234 {
		t.Errorf("total_lines = %d, want 1234", b.TotalLines)
	}
	if r.Recommendations == nil || len(r.Recommendations) != 0 {
		t.Errorf("expected empty non-nil recommendations, got %#v", r.Recommendations)
	}
}

func TestEvaluateEmptyFindingsWithoutMetrics(t *testing.T) {
	r := Evaluate([]Finding{}, nil)
	if r.Failed() {
		t.Fatalf("unexpected error: %s", r.Error)
	}
	if r.QualityScore != 100 || r.Breakdown.TotalLines != 0 {
		t.Errorf("got score %v lines %d, want 100 and 0", r.QualityScore, r.Breakdown.TotalLines)
	}
}

func TestEvaluateInvalidInput(t *testing.T) {
	one := []Finding{{RuleID: "r", Severity: "error"}}
	tests := []struct {
		name     string
		findings []Finding
		metrics  *Metrics
		want     error
	}{
		{"nil findings", nil, &Metrics{}, ErrNilFindings},
		{"nil metrics", one, nil, ErrNilMetrics},
		{"negative lines", one, &Metrics{TotalLines: -1}, ErrNegativeMetrics},
		{"negative sources", one, &Metrics{SourceFileCount: -2}, ErrNegativeMetrics},
		{"negative tests", one, &Metrics{TestFileCount: -3}, ErrNegativeMetrics},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Evaluate(tt.findings, tt.metrics)
			if r.Error != tt.want.Error() {
				t.Errorf("Error = %q, want %q", r.Error, tt.want.Error())
			}
			if r.Breakdown != nil {
				t.Error("failed result should carry no breakdown")
			}
		})
	}
}

func TestComputeSingleError(t *testing.T) {
	c := Counts{Total: 1, Errors: 1, Rules: map[string]int{"r": 1}}
	s, b, _ := Compute(c, noBonusMetrics(500))
	if b.ErrorPenalty != 20.0 {
		t.Errorf("error_penalty = %v, want 20", b.ErrorPenalty)
	}
	if b.NormalizedFactor != 1.0 {
		t.Errorf("normalized_factor = %v, want 1", b.NormalizedFactor)
	}
	// zero warnings over 500 lines earns the clean code bonus only
	if b.Bonus != CleanCodeBonus {
		t.Errorf("bonus = %v, want %v", b.Bonus, CleanCodeBonus)
	}
	if s != 80.0+CleanCodeBonus {
		t.Errorf("score = %v, want %v", s, 80.0+CleanCodeBonus)
	}
}

func TestComputeWarningsNormalized(t *testing.T) {
	c := Counts{Total: 100, Warnings: 100, Rules: map[string]int{"w": 100}}
	s, b, _ := Compute(c, noBonusMetrics(10000))
	if b.NormalizedFactor != 10.0 {
		t.Errorf("normalized_factor = %v, want 10", b.NormalizedFactor)
	}
	if b.WarningPenalty != 5.0 {
		t.Errorf("warning_penalty = %v, want 5", b.WarningPenalty)
	}
	// density is exactly 0.01, which does not qualify for the clean code bonus
	if b.Bonus != 0 {
		t.Errorf("bonus = %v, want 0", b.Bonus)
	}
	if s != 95.0 {
		t.Errorf("score = %v, want 95", s)
	}
}

func TestComputeInfoPenalty(t *testing.T) {
	c := Counts{Total: 50, Infos: 50}
	_, b, _ := Compute(c, noBonusMetrics(2000))
	if !approx(b.InfoPenalty, 0.5) {
		t.Errorf("info_penalty = %v, want 0.5", b.InfoPenalty)
	}
}

func TestComputeUnknownSeveritiesOnly(t *testing.T) {
	c := Classify([]Finding{{RuleID: "x", Severity: "critical"}})
	s, b, _ := Compute(c, Metrics{TotalLines: 100, SourceFileCount: 1, TestFileCount: 1, FullyDocumented: true})
	if b.ErrorPenalty != 0 || b.WarningPenalty != 0 || b.InfoPenalty != 0 {
		t.Errorf("expected no penalties, got %+v", b)
	}
	if b.Bonus != TestCoverageBonus+CleanCodeBonus+DocumentationBonus {
		t.Errorf("bonus = %v, want all bonuses", b.Bonus)
	}
	if s != 100 {
		t.Errorf("score = %v, want clamp to 100", s)
	}
}

func TestComputeBonusIndependence(t *testing.T) {
	c := Counts{Total: 1, Warnings: 1}
	tests := []struct {
		name    string
		metrics Metrics
		want    Bonuses
	}{
		{"none", Metrics{TotalLines: 50, SourceFileCount: 4, TestFileCount: 1}, Bonuses{}},
		{"tests only", Metrics{TotalLines: 50, SourceFileCount: 4, TestFileCount: 2}, Bonuses{TestCoverage: TestCoverageBonus}},
		{"clean only", Metrics{TotalLines: 1000, SourceFileCount: 4, TestFileCount: 1}, Bonuses{CleanCode: CleanCodeBonus}},
		{"docs only", Metrics{TotalLines: 50, SourceFileCount: 4, TestFileCount: 1, FullyDocumented: true}, Bonuses{Documentation: DocumentationBonus}},
		{"all", Metrics{TotalLines: 1000, SourceFileCount: 4, TestFileCount: 2, FullyDocumented: true},
			Bonuses{TestCoverage: TestCoverageBonus, CleanCode: CleanCodeBonus, Documentation: DocumentationBonus}},
		{"zero sources", Metrics{TotalLines: 50}, Bonuses{TestCoverage: TestCoverageBonus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, b, _ := Compute(c, tt.metrics)
			if b.Bonuses != tt.want {
				t.Errorf("bonuses = %+v, want %+v", b.Bonuses, tt.want)
			}
			if b.Bonus != tt.want.Total() {
				t.Errorf("bonus = %v, want %v", b.Bonus, tt.want.Total())
			}
		})
	}
}

func TestComputeZeroLinesNoCleanBonus(t *testing.T) {
	c := Counts{Total: 1, Infos: 1}
	_, b, _ := Compute(c, Metrics{TotalLines: 0, SourceFileCount: 1})
	if b.Bonuses.CleanCode != 0 {
		t.Error("clean code bonus must not be awarded for zero lines")
	}
	if b.NormalizedFactor != 1.0 {
		t.Errorf("normalized_factor = %v, want 1", b.NormalizedFactor)
	}
}

func TestComputeClamp(t *testing.T) {
	low := Counts{Total: 1000, Errors: 1000}
	s, b, _ := Compute(low, Metrics{TotalLines: 100000, SourceFileCount: 1, TestFileCount: 1, FullyDocumented: true})
	if s != 0 {
		t.Errorf("score = %v, want 0", s)
	}
	if b.Bonus != TestCoverageBonus+CleanCodeBonus+DocumentationBonus {
		t.Errorf("bonuses must be recorded despite the clamp, got %v", b.Bonus)
	}

	high := Counts{Total: 1, Infos: 1}
	s, b, _ = Compute(high, Metrics{TotalLines: 100, SourceFileCount: 1, TestFileCount: 1, FullyDocumented: true})
	if s != 100 {
		t.Errorf("score = %v, want 100", s)
	}
	if b.Bonus != 10 {
		t.Errorf("bonus = %v, want 10", b.Bonus)
	}
}

func TestScoreBounds(t *testing.T) {
	for _, e := range []int{0, 1, 5, 50, 5000} {
		for _, w := range []int{0, 3, 300, 30000} {
			for _, lines := range []int64{0, 10, 1000, 1000000} {
				c := Counts{Total: e + w + 1, Errors: e, Warnings: w, Infos: 1}
				s, _, _ := Compute(c, Metrics{TotalLines: lines, SourceFileCount: 2, TestFileCount: 1, FullyDocumented: true})
				if s < 0 || s > 100 {
					t.Fatalf("score %v out of range for e=%d w=%d lines=%d", s, e, w, lines)
				}
			}
		}
	}
}

func TestErrorMonotonic(t *testing.T) {
	m := Metrics{TotalLines: 3000, SourceFileCount: 5, TestFileCount: 1}
	prev := math.Inf(1)
	for e := 0; e <= 100; e++ {
		c := Counts{Total: e + 4, Errors: e, Warnings: 3, Infos: 1}
		s, _, _ := Compute(c, m)
		if s > prev {
			t.Fatalf("score increased from %v to %v at %d errors", prev, s, e)
		}
		prev = s
	}
}

func TestErrorPenaltyDiminishing(t *testing.T) {
	prevDelta := math.Inf(1)
	for e := 0; e < 200; e++ {
		delta := ErrorPenaltyFor(e+1) - ErrorPenaltyFor(e)
		if delta > prevDelta {
			t.Fatalf("marginal penalty grew at %d errors: %v > %v", e+1, delta, prevDelta)
		}
		prevDelta = delta
	}
}

func TestNormalizationFactor(t *testing.T) {
	tests := []struct {
		lines int64
		want  float64
	}{
		{0, 1}, {1, 1}, {500, 1}, {999, 1}, {1000, 1}, {1500, 1.5}, {2500, 2.5}, {100000, 100},
	}
	for _, tt := range tests {
		if got := NormalizationFactor(tt.lines); got != tt.want {
			t.Errorf("NormalizationFactor(%d) = %v, want %v", tt.lines, got, tt.want)
		}
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	findings := []Finding{
		{RuleID: "a.hardcoded-credentials", Severity: "error"},
		{RuleID: "b.sql-injection", Severity: "warning"},
		{RuleID: "c.resource-leak", Severity: "warning"},
		{RuleID: "d.unsafe-ssl", Severity: "info"},
		{RuleID: "e.style", Severity: "info"},
	}
	m := &Metrics{TotalLines: 4200, SourceFileCount: 12, TestFileCount: 7}

	a, err := json.Marshal(Evaluate(findings, m))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(Evaluate(findings, m))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("outputs differ:\n%s\n%s", a, b)
	}
}

func TestResultJSON(t *testing.T) {
	failed, err := json.Marshal(Result{Error: "boom", QualityScore: 42})
	if err != nil {
		t.Fatal(err)
	}
	if string(failed) != `{"error":"boom"}` {
		t.Errorf("failed result JSON = %s", failed)
	}

	ok, err := json.Marshal(Evaluate([]Finding{}, nil))
	if err != nil {
		t.Fatal(err)
	}
	s := string(ok)
	for _, key := range []string{`"quality_score":100`, `"breakdown"`, `"recommendations":[]`, `"normalized_factor":1`} {
		if !strings.Contains(s, key) {
			t.Errorf("expected %s in %s", key, s)
		}
	}
	if strings.Contains(s, `"error"`) {
		t.Errorf("successful result must not carry error: %s", s)
	}
}

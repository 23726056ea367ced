package score

// Classify buckets findings by canonical severity and tallies rule identifiers.
// Findings with an unrecognized severity still count toward Total and Rules;
// findings with an empty rule identifier are left out of Rules.
func Classify(findings []Finding) Counts {
	c := Counts{
		Total: len(findings),
		Rules: make(map[string]int),
	}
	for _, f := range findings {
		if sev, ok := ParseSeverity(f.Severity); ok {
			switch sev {
			case SeverityError:
				c.Errors++
			case SeverityWarning:
				c.Warnings++
			case SeverityInfo:
				c.Infos++
			}
		}
		if f.RuleID != "" {
			c.Rules[f.RuleID]++
		}
	}
	return c
}

package score

import (
	"fmt"
	"sort"
	"strings"
)

// MaxRecommendations caps the number of ranked rules considered for advice.
const MaxRecommendations = 5

// advice maps a category to the substrings that select it and the message
// template; %d receives the finding count for the rule.
type advice struct {
	category   Category
	substrings []string
	format     string
}

// adviceTable is checked in order; the first matching entry wins.
var adviceTable = []advice{
	{
		category:   CategoryCredentials,
		substrings: []string{"hardcoded-credentials", "hardcoded-password", "hardcoded-secret"},
		format:     "Move %d hardcoded credentials to secure configuration or environment variables",
	},
	{
		category:   CategoryResourceLeak,
		substrings: []string{"resource-leak", "unclosed-resource"},
		format:     "Fix %d resource leaks using scoped acquisition (try-with-resources, defer, context managers)",
	},
	{
		category:   CategorySQLInjection,
		substrings: []string{"sql-injection", "sqli.", "-sqli", "formatted-sql-string"},
		format:     "Use parameterized queries to prevent %d potential SQL injection issues",
	},
	{
		category:   CategoryUnsafeTLS,
		substrings: []string{"unsafe-ssl", "unsafe-tls", "insecure-skip-verify"},
		format:     "Fix %d unsafe TLS configurations by enabling certificate validation",
	},
}

// RuleCount is a rule identifier with its finding count.
type RuleCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

// RankRules orders rule frequencies by count descending, then rule identifier
// ascending.
func RankRules(rules map[string]int) []RuleCount {
	ranked := make([]RuleCount, 0, len(rules))
	for id, n := range rules {
		ranked = append(ranked, RuleCount{RuleID: id, Count: n})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].RuleID < ranked[j].RuleID
	})
	return ranked
}

// Recommend turns the MaxRecommendations most frequent rules into advice.
// Rules outside every known category are skipped, so fewer than
// MaxRecommendations lines may be returned.
func Recommend(rules map[string]int) []string {
	ranked := RankRules(rules)
	if len(ranked) > MaxRecommendations {
		ranked = ranked[:MaxRecommendations]
	}
	recs := []string{}
	for _, rc := range ranked {
		if a, ok := lookup(rc.RuleID); ok {
			recs = append(recs, fmt.Sprintf(a.format, rc.Count))
		}
	}
	return recs
}

// CategoryFor reports the remediation category of a rule identifier.
func CategoryFor(ruleID string) (Category, bool) {
	a, ok := lookup(ruleID)
	if !ok {
		return "", false
	}
	return a.category, true
}

func lookup(ruleID string) (advice, bool) {
	id := strings.ToLower(ruleID)
	for _, a := range adviceTable {
		for _, sub := range a.substrings {
			if strings.Contains(id, sub) {
				return a, true
			}
		}
	}
	return advice{}, false
}

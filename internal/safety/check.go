// Package safety provides pattern-based safety classification for
// user-submitted text: comment verdicts and social-handle checks.
package safety

import "regexp"

// Severity grades a safety flag.
type Severity string

// Flag severities, ordered from least to most serious.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Flag is one finding produced by a safety check. Flags are transient;
// they are rolled up into a verdict or status and not persisted.
type Flag struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Reason      string   `json:"reason"`
	AutoResolve bool     `json:"auto_resolve"`
}

// patternCheck is one ordered stage of a pattern-match classifier: a set of
// regexes that, on first match, emits a flag. Stages run in table order so
// earlier checks take precedence over later ones.
type patternCheck struct {
	flagType    string
	severity    Severity
	reason      string
	autoResolve bool
	patterns    []*regexp.Regexp
}

// match reports whether any of the stage's patterns matches text.
func (c *patternCheck) match(text string) bool {
	for _, p := range c.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// runChecks evaluates the stages in order and collects one flag per
// matching stage. Each stage short-circuits on its first matching pattern.
func runChecks(text string, checks []patternCheck) []Flag {
	var flags []Flag
	for i := range checks {
		if checks[i].match(text) {
			flags = append(flags, Flag{
				Type:        checks[i].flagType,
				Severity:    checks[i].severity,
				Reason:      checks[i].reason,
				AutoResolve: checks[i].autoResolve,
			})
		}
	}
	return flags
}

// severityRank maps a severity to a sortable rank.
func severityRank(s Severity) int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// maxSeverity returns the most serious severity among flags, or the empty
// string when there are none.
func maxSeverity(flags []Flag) Severity {
	var top Severity
	for _, f := range flags {
		if severityRank(f.Severity) > severityRank(top) {
			top = f.Severity
		}
	}
	return top
}

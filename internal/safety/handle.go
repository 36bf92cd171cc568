package safety

import (
	"regexp"
	"strings"
)

// HandleStatus is the rollup of a social-handle check.
type HandleStatus string

// Handle statuses.
const (
	HandleOK      HandleStatus = "ok"
	HandleReview  HandleStatus = "review"
	HandleBlocked HandleStatus = "blocked"
)

// HandleReport is the outcome of checking one social-media handle.
type HandleReport struct {
	Platform string       `json:"platform"`
	Handle   string       `json:"handle"`
	Status   HandleStatus `json:"status"`
	Flags    []Flag       `json:"flags,omitempty"`
}

// handleChecks is the ordered check table for social handles. It mirrors
// the comment classifier's shape: ordered pattern stages producing flags,
// rolled up into a status by severity.
var handleChecks = []patternCheck{
	{
		flagType: "impersonation",
		severity: SeverityHigh,
		reason:   "handle claims to be an official or verified account",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:official|real|original|verified)\b`),
			regexp.MustCompile(`(?i)_?(?:official|real|org)_?\d*$`),
		},
	},
	{
		flagType: "scam",
		severity: SeverityCritical,
		reason:   "handle advertises giveaways or money schemes",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:giveaway|lottery|jackpot|prize|earn|cash|paytm)`),
		},
	},
	{
		flagType: "profanity",
		severity: SeverityHigh,
		reason:   "handle contains profanity",
		// Populated at init from the profanity word list.
		patterns: profanityHandlePatterns(),
	},
	{
		flagType:    "suspicious_format",
		severity:    SeverityLow,
		reason:      "handle has an unusual amount of digits or separators",
		autoResolve: true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\d{5,}`),
			regexp.MustCompile(`[._-]{3,}`),
		},
	},
	{
		flagType: "embedded_link",
		severity: SeverityMedium,
		reason:   "handle embeds a link",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:https?|www\.|\.com|\.in\b)`),
		},
	},
}

// profanityHandlePatterns compiles the profanity word list into handle
// patterns so the handle check reuses the same vocabulary as the comment
// filter.
func profanityHandlePatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(defaultProfanityWords))
	for _, w := range defaultProfanityWords {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(w)))
	}
	return patterns
}

// CheckHandle runs the handle check table against a social-media handle and
// rolls the flags up into a status: any critical or high flag blocks, any
// medium flag requires review, low-only flags pass with the flags attached.
func CheckHandle(platform, handle string) HandleReport {
	report := HandleReport{
		Platform: platform,
		Handle:   handle,
	}

	report.Flags = runChecks(normalizeHandle(handle), handleChecks)

	switch maxSeverity(report.Flags) {
	case SeverityCritical, SeverityHigh:
		report.Status = HandleBlocked
	case SeverityMedium:
		report.Status = HandleReview
	default:
		report.Status = HandleOK
	}

	return report
}

// normalizeHandle lowercases and strips the leading @ so patterns see a
// consistent shape.
func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

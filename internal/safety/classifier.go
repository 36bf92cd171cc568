package safety

import (
	"strings"
	"unicode/utf8"

	"github.com/raagahub/moderation/internal/domain"
)

// Issue strings appended to a verdict, in stage order.
const (
	IssueProfanity = "Contains profanity"
	IssueToxic     = "Toxic language detected"
	IssueSpam      = "Spam detected"
	IssueTooShort  = "Too short"
	IssueTooLong   = "Too long"
)

// Verdict is the outcome of classifying one comment. It is a pure function
// of the text; nothing is persisted.
type Verdict struct {
	IsSafe          bool     `json:"is_safe"`
	IsPositive      bool     `json:"is_positive"`
	ShouldShadowBan bool     `json:"should_shadow_ban"`
	Issues          []string `json:"issues"`
	Sentiment       string   `json:"sentiment"`
}

// CommentClassifier scores comment text against the profanity, toxic, spam
// and positive pattern tables.
//
// Stage order is a precedence policy, not an accident: profanity, then
// toxic, then spam, then length, then positive. A toxic determination is
// never downgraded, and a toxic comment is never marked positive even when
// it also contains positive wording.
type CommentClassifier struct {
	profanity *ProfanityFilter
}

// NewCommentClassifier creates a classifier backed by the given profanity
// filter. A nil filter gets the default word list.
func NewCommentClassifier(profanity *ProfanityFilter) *CommentClassifier {
	if profanity == nil {
		profanity = NewProfanityFilter()
	}
	return &CommentClassifier{profanity: profanity}
}

// Profanity exposes the classifier's filter so callers can redact text the
// same way it was detected.
func (c *CommentClassifier) Profanity() *ProfanityFilter {
	return c.profanity
}

// Analyze produces a safety verdict for text. It never fails: text with no
// matches yields a clean, neutral verdict.
func (c *CommentClassifier) Analyze(text string) Verdict {
	v := Verdict{Sentiment: domain.SentimentNeutral}

	// 1. Profanity
	if c.profanity.Contains(text) {
		v.Issues = append(v.Issues, IssueProfanity)
		v.Sentiment = domain.SentimentToxic
		v.ShouldShadowBan = true
	}

	// 2. Toxic patterns, first match wins
	for _, p := range toxicPatterns {
		if p.MatchString(text) {
			v.Issues = append(v.Issues, IssueToxic)
			v.Sentiment = domain.SentimentToxic
			v.ShouldShadowBan = true
			break
		}
	}

	// 3. Spam. Bans but does not force toxic sentiment: spam and toxicity
	// are independent axes.
	if isSpam(text) {
		v.Issues = append(v.Issues, IssueSpam)
		v.ShouldShadowBan = true
	}

	// 4. Length, advisory only
	switch n := utf8.RuneCountInString(strings.TrimSpace(text)); {
	case n < minCommentLength:
		v.Issues = append(v.Issues, IssueTooShort)
	case n > maxCommentLength:
		v.Issues = append(v.Issues, IssueTooLong)
	}

	// 5. Positive sentiment, gated by toxicity
	if v.Sentiment != domain.SentimentToxic {
		for _, p := range positivePatterns {
			if p.MatchString(text) {
				v.IsPositive = true
				v.Sentiment = domain.SentimentPositive
				break
			}
		}
	}

	v.IsSafe = len(v.Issues) == 0
	return v
}

// isSpam checks URL patterns, repeated characters and promotional keywords,
// short-circuiting on the first hit.
func isSpam(text string) bool {
	for _, p := range spamURLPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	if hasRepeatedRun(text, repeatRunThreshold) {
		return true
	}
	for _, p := range spamPromoPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// hasRepeatedRun reports whether text contains the same rune repeated at
// least threshold times in a row. Implemented as a scan because RE2 has no
// backreferences.
func hasRepeatedRun(text string, threshold int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= threshold {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

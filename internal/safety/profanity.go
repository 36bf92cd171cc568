package safety

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// ProfanityFilter detects and redacts profanity using an Aho-Corasick
// automaton over a word list, so detection stays a single pass through the
// text regardless of how many words the list carries.
type ProfanityFilter struct {
	matcher *ahocorasick.Matcher
	words   []string
}

// NewProfanityFilter builds a filter from the default word list plus any
// extra locale-specific words.
func NewProfanityFilter(extraWords ...string) *ProfanityFilter {
	words := make([]string, 0, len(defaultProfanityWords)+len(extraWords))
	for _, w := range defaultProfanityWords {
		words = append(words, strings.ToLower(w))
	}
	for _, w := range extraWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}

	return &ProfanityFilter{
		matcher: ahocorasick.NewStringMatcher(words),
		words:   words,
	}
}

// Contains reports whether text contains any word from the list.
// Matching is case-insensitive substring matching.
func (f *ProfanityFilter) Contains(text string) bool {
	return len(f.matcher.Match([]byte(strings.ToLower(text)))) > 0
}

// Clean returns text with every occurrence of a matched word replaced by
// asterisks of the same length. The rest of the text is left untouched.
//
// Redaction works in rune space: lowering can change a rune's byte length
// (U+0130 shrinks, U+023A grows), so byte offsets into the lowered text do
// not line up with the original.
func (f *ProfanityFilter) Clean(text string) string {
	hits := f.matcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return text
	}

	out := []rune(text)
	lowered := make([]rune, len(out))
	for i, r := range out {
		lowered[i] = unicode.ToLower(r)
	}

	for _, hit := range hits {
		if hit >= len(f.words) {
			continue
		}
		word := []rune(f.words[hit])
		for i := 0; i+len(word) <= len(lowered); {
			if !runesEqual(lowered[i:i+len(word)], word) {
				i++
				continue
			}
			for j := i; j < i+len(word); j++ {
				out[j] = '*'
			}
			i += len(word)
		}
	}

	return string(out)
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package safety_test

import (
	"testing"
	"unicode/utf8"

	"github.com/raagahub/moderation/internal/safety"
)

func TestProfanityFilter_Contains(t *testing.T) {
	f := safety.NewProfanityFilter()

	testCases := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "clean text", text: "great performance by the lead pair", expected: false},
		{name: "english word", text: "this is shit", expected: true},
		{name: "case insensitive", text: "ShIt movie", expected: true},
		{name: "telugu transliteration", text: "lanja content", expected: true},
		{name: "hindi transliteration", text: "chutiya director", expected: true},
		{name: "empty text", text: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Contains(tc.text); got != tc.expected {
				t.Errorf("Contains(%q) = %v, want %v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestProfanityFilter_Clean(t *testing.T) {
	f := safety.NewProfanityFilter()

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "clean text untouched", text: "loved the songs", expected: "loved the songs"},
		{name: "single word redacted", text: "this is shit", expected: "this is ****"},
		{name: "mixed case redacted", text: "ShIt happens", expected: "**** happens"},
		{name: "repeated word redacted", text: "shit shit shit", expected: "**** **** ****"},
		{name: "surrounding text kept", text: "what a bastard move", expected: "what a ******* move"},
		{name: "telugu text around the word", text: "సూపర్ shit సూపర్", expected: "సూపర్ **** సూపర్"},
		// Lowering U+0130 shrinks its byte length; redaction must not
		// drift off the original bytes.
		{name: "shrinking uppercase before the word", text: "İİ shit", expected: "İİ ****"},
		// Lowering U+023A grows its byte length.
		{name: "growing uppercase before the word", text: "ȺȺȺȺ shit", expected: "ȺȺȺȺ ****"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := f.Clean(tc.text)
			if got != tc.expected {
				t.Errorf("Clean(%q) = %q, want %q", tc.text, got, tc.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Clean(%q) produced invalid UTF-8: %q", tc.text, got)
			}
		})
	}
}

func TestProfanityFilter_ExtraWords(t *testing.T) {
	f := safety.NewProfanityFilter("dongalu")

	if !f.Contains("andaru dongalu") {
		t.Error("extra word not detected")
	}
	if got := f.Clean("andaru dongalu"); got != "andaru *******" {
		t.Errorf("Clean = %q, want %q", got, "andaru *******")
	}
}

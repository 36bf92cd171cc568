package domain_test

import (
	"testing"

	"github.com/raagahub/moderation/internal/domain"
)

func TestPolicyFor(t *testing.T) {
	testCases := []struct {
		category string
		expected domain.CommentPolicy
	}{
		{"movies", domain.PolicyEnabled},
		{"reviews", domain.PolicyEnabled},
		{"celebrities", domain.PolicyModerated},
		{"gossip", domain.PolicyModerated},
		{"dedications", domain.PolicyDisabled},
		{"trailers", domain.PolicyEnabled}, // unknown categories are enabled
		{"", domain.PolicyEnabled},
	}

	for _, tc := range testCases {
		if got := domain.PolicyFor(tc.category); got != tc.expected {
			t.Errorf("PolicyFor(%q) = %q, want %q", tc.category, got, tc.expected)
		}
	}
}

func TestAction_Valid(t *testing.T) {
	for _, a := range []domain.Action{
		domain.ActionComment,
		domain.ActionCreatePost,
		domain.ActionDedication,
		domain.ActionReport,
	} {
		if !a.Valid() {
			t.Errorf("%q should be valid", a)
		}
	}

	for _, a := range []domain.Action{"", "upload", "Comment"} {
		if a.Valid() {
			t.Errorf("%q should not be valid", a)
		}
	}
}

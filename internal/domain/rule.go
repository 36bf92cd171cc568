package domain

// CommentPolicy controls whether a content category accepts comments.
type CommentPolicy string

// Comment policies.
const (
	PolicyEnabled   CommentPolicy = "enabled"
	PolicyModerated CommentPolicy = "moderated"
	PolicyDisabled  CommentPolicy = "disabled"
)

// CommentRule maps a content category to its comment policy.
type CommentRule struct {
	Category string        `db:"category" json:"category"`
	Policy   CommentPolicy `db:"policy"   json:"policy"`
}

// defaultCommentRules is the static category policy table. Categories not
// listed here default to PolicyEnabled.
var defaultCommentRules = map[string]CommentPolicy{
	"movies":      PolicyEnabled,
	"reviews":     PolicyEnabled,
	"celebrities": PolicyModerated,
	"gossip":      PolicyModerated,
	"dedications": PolicyDisabled,
}

// PolicyFor returns the comment policy for a category.
// Unknown categories are enabled.
func PolicyFor(category string) CommentPolicy {
	if p, ok := defaultCommentRules[category]; ok {
		return p
	}
	return PolicyEnabled
}

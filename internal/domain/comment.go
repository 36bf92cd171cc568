// Package domain holds the persisted row types and shared constants for the
// moderation service.
package domain

import "time"

// Comment represents one persisted comment on a post.
// At most one comment per post has IsPinned=true; the comments table
// enforces this with a partial unique index on (post_id) WHERE is_pinned.
type Comment struct {
	ID             string    `db:"id"               json:"id"`
	PostID         string    `db:"post_id"          json:"post_id"`
	Author         string    `db:"author"           json:"author"`
	Content        string    `db:"content"          json:"content"`
	IPAddress      string    `db:"ip_address"       json:"-"`
	IsShadowBanned bool      `db:"is_shadow_banned" json:"is_shadow_banned"`
	IsPinned       bool      `db:"is_pinned"        json:"is_pinned"`
	ReportCount    int       `db:"report_count"     json:"report_count"`
	Issues         []string  `db:"issues"           json:"issues,omitempty"`
	Sentiment      string    `db:"sentiment"        json:"sentiment,omitempty"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
}

// CommentSubmission is the ephemeral input to the intake pipeline.
type CommentSubmission struct {
	PostID    string `json:"post_id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	IPAddress string `json:"-"`
	Category  string `json:"category"`
}

// Sentiment values assigned by the safety classifier.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentToxic    = "toxic"
)

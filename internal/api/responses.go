package api

import (
	"time"

	"github.com/raagahub/moderation/internal/domain"
	"github.com/raagahub/moderation/internal/safety"
)

// CreateCommentRequest represents an incoming comment submission. The
// submitter's IP is taken from the connection, not the body.
type CreateCommentRequest struct {
	PostID   string `json:"post_id"  binding:"required"`
	Author   string `json:"author"   binding:"required"`
	Content  string `json:"content"  binding:"required"`
	Category string `json:"category"`
}

// CommentResponse represents one comment in API output.
type CommentResponse struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	Author         string    `json:"author"`
	Content        string    `json:"content"`
	IsShadowBanned bool      `json:"is_shadow_banned,omitempty"`
	IsPinned       bool      `json:"is_pinned"`
	ReportCount    int       `json:"report_count,omitempty"`
	Issues         []string  `json:"issues,omitempty"`
	Sentiment      string    `json:"sentiment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CommentsListResponse represents a list of comments for a post.
type CommentsListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int               `json:"total"`
}

// AnalyzeRequest represents a dry-run classification request.
type AnalyzeRequest struct {
	Content string `json:"content" binding:"required"`
}

// AnalyzeResponse represents a dry-run classification verdict.
type AnalyzeResponse struct {
	Verdict safety.Verdict `json:"verdict"`
}

// HandleCheckRequest represents a social-handle check request.
type HandleCheckRequest struct {
	Platform string `json:"platform" binding:"required"`
	Handle   string `json:"handle"   binding:"required"`
}

// RateLimitStatusResponse represents the limiter state for an identifier
// and action without consuming quota.
type RateLimitStatusResponse struct {
	Identifier        string `json:"identifier"`
	Action            string `json:"action"`
	Allowed           bool   `json:"allowed"`
	RemainingRequests int    `json:"remaining_requests"`
	ResetInSeconds    int    `json:"reset_in_seconds"`
}

// toCommentResponse converts a domain comment for output. Flags that only
// matter to moderators are included as-is; the shadow-ban flag is zero for
// ordinary comments and omitted by omitempty.
func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:             c.ID,
		PostID:         c.PostID,
		Author:         c.Author,
		Content:        c.Content,
		IsShadowBanned: c.IsShadowBanned,
		IsPinned:       c.IsPinned,
		ReportCount:    c.ReportCount,
		Issues:         c.Issues,
		Sentiment:      c.Sentiment,
		CreatedAt:      c.CreatedAt,
	}
}

func toCommentsListResponse(comments []*domain.Comment) CommentsListResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	return CommentsListResponse{Comments: out, Total: len(out)}
}

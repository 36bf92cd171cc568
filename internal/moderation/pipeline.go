// Package moderation orchestrates comment intake: policy, rate limiting,
// safety classification, persistence and pin bookkeeping.
package moderation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/raagahub/moderation/internal/domain"
	"github.com/raagahub/moderation/internal/logger"
	"github.com/raagahub/moderation/internal/ratelimit"
	"github.com/raagahub/moderation/internal/safety"
	"github.com/raagahub/moderation/internal/telemetry"
)

// CommentStore is the persistence surface the pipeline needs.
type CommentStore interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	VisibleForPost(ctx context.Context, postID, requesterIP string) ([]*domain.Comment, error)
	ListForPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	PinIfNone(ctx context.Context, commentID, postID string) (bool, error)
	Pin(ctx context.Context, commentID string) error
	IncrementReport(ctx context.Context, commentID string) error
}

// RateLimiter is the admission-control surface the pipeline needs.
type RateLimiter interface {
	Check(ctx context.Context, identifier string, action domain.Action) (ratelimit.Result, error)
}

// IntakeResult is the outcome of processing one comment submission.
// Policy and rate-limit rejections come back as Success=false with a
// user-facing Error; they are expected outcomes, not faults.
type IntakeResult struct {
	Success        bool   `json:"success"`
	CommentID      string `json:"comment_id,omitempty"`
	Error          string `json:"error,omitempty"`
	IsShadowBanned bool   `json:"is_shadow_banned,omitempty"`
	IsPinned       bool   `json:"is_pinned,omitempty"`
}

// Intake outcome labels for metrics.
const (
	outcomeAccepted       = "accepted"
	outcomeShadowBanned   = "shadow_banned"
	outcomePolicyRejected = "policy_rejected"
	outcomeRateLimited    = "rate_limited"
	outcomeFailed         = "failed"
)

// Pipeline processes incoming comments end to end within one request.
// No retries anywhere: rejections are final and storage failures surface
// to the caller synchronously.
type Pipeline struct {
	store      CommentStore
	limiter    RateLimiter
	classifier *safety.CommentClassifier
	telemetry  *telemetry.Provider
	logger     logger.Logger
}

// NewPipeline creates an intake pipeline.
func NewPipeline(
	store CommentStore,
	limiter RateLimiter,
	classifier *safety.CommentClassifier,
	tp *telemetry.Provider,
	log logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		store:      store,
		limiter:    limiter,
		classifier: classifier,
		telemetry:  tp,
		logger:     log,
	}
}

// ProcessNewComment runs one submission through policy, rate limiting,
// classification and persistence.
//
// The returned error is non-nil only for storage failures (the HTTP layer
// surfaces those as 5xx) and for the rejection sentinels
// domain.ErrCommentsDisabled and domain.ErrRateLimited; in the sentinel
// cases the IntakeResult still carries the user-facing message.
func (p *Pipeline) ProcessNewComment(ctx context.Context, sub domain.CommentSubmission) (IntakeResult, error) {
	start := time.Now()

	if p.telemetry != nil {
		var span trace.Span
		ctx, span = p.telemetry.StartSpan(ctx, "moderation.process_comment",
			attribute.String("post_id", sub.PostID),
			attribute.String("category", sub.Category))
		defer span.End()
	}

	// 1. Category policy. Disabled categories fail before any quota is
	// consumed or any classification runs.
	policy := domain.PolicyFor(sub.Category)
	if policy == domain.PolicyDisabled {
		p.recordOutcome(ctx, outcomePolicyRejected, start)
		p.logger.Debug("comment rejected by category policy",
			logger.String("post_id", sub.PostID),
			logger.String("category", sub.Category))
		return IntakeResult{
			Success: false,
			Error:   "Comments are disabled for this content",
		}, domain.ErrCommentsDisabled
	}

	// 2. Rate limit by submitter IP.
	limit, err := p.limiter.Check(ctx, sub.IPAddress, domain.ActionComment)
	if err != nil {
		p.recordOutcome(ctx, outcomeFailed, start)
		return IntakeResult{Success: false, Error: err.Error()}, fmt.Errorf("rate limit check: %w", err)
	}
	if !limit.Allowed {
		p.recordOutcome(ctx, outcomeRateLimited, start)
		if p.telemetry != nil {
			p.telemetry.RecordRateLimitRejection(ctx, string(domain.ActionComment))
		}
		minutes := int(math.Ceil(limit.ResetIn.Seconds() / 60))
		return IntakeResult{
			Success: false,
			Error:   fmt.Sprintf("Too many comments. Please try again in %d minutes", minutes),
		}, domain.ErrRateLimited
	}

	// 3. Classify.
	classifyStart := time.Now()
	verdict := p.classifier.Analyze(sub.Content)
	if p.telemetry != nil {
		p.telemetry.RecordVerdict(ctx, verdict.Sentiment, verdict.ShouldShadowBan, time.Since(classifyStart))
	}

	// 4. Profanity gets redacted before persisting, but redaction does not
	// lift the shadow ban: cleaning and banning are independent responses
	// to the same signal.
	content := sub.Content
	if containsIssue(verdict.Issues, safety.IssueProfanity) {
		content = p.classifier.Profanity().Clean(content)
	}

	shadowBanned := verdict.ShouldShadowBan
	// Moderated categories hold back anything the classifier flagged at
	// all until a moderator clears it.
	if policy == domain.PolicyModerated && !verdict.IsSafe {
		shadowBanned = true
	}

	// 5. Persist.
	comment := &domain.Comment{
		ID:             uuid.NewString(),
		PostID:         sub.PostID,
		Author:         sub.Author,
		Content:        content,
		IPAddress:      sub.IPAddress,
		IsShadowBanned: shadowBanned,
		IsPinned:       false,
		Issues:         verdict.Issues,
		Sentiment:      verdict.Sentiment,
	}
	if err := p.store.Create(ctx, comment); err != nil {
		p.recordOutcome(ctx, outcomeFailed, start)
		p.logger.Error("failed to persist comment",
			logger.String("post_id", sub.PostID),
			logger.Error(err))
		return IntakeResult{Success: false, Error: err.Error()}, fmt.Errorf("persist comment: %w", err)
	}

	// 6. Auto-pin the first positive, non-banned comment on the post.
	// Later positive comments do not unseat it.
	pinned := false
	if verdict.IsPositive && !shadowBanned {
		pinned, err = p.store.PinIfNone(ctx, comment.ID, comment.PostID)
		if err != nil {
			// The comment itself is already saved; losing the pin is not
			// worth failing the submission over.
			p.logger.Warn("auto-pin failed",
				logger.String("comment_id", comment.ID),
				logger.Error(err))
			pinned = false
		}
		if pinned && p.telemetry != nil {
			p.telemetry.RecordAutoPin(ctx)
		}
	}

	outcome := outcomeAccepted
	if shadowBanned {
		outcome = outcomeShadowBanned
	}
	p.recordOutcome(ctx, outcome, start)

	p.logger.Info("comment processed",
		logger.String("comment_id", comment.ID),
		logger.String("post_id", comment.PostID),
		logger.String("sentiment", verdict.Sentiment),
		logger.Bool("shadow_banned", shadowBanned),
		logger.Bool("pinned", pinned))

	return IntakeResult{
		Success:        true,
		CommentID:      comment.ID,
		IsShadowBanned: shadowBanned,
		IsPinned:       pinned,
	}, nil
}

// PinComment makes the comment its post's only pinned comment.
func (p *Pipeline) PinComment(ctx context.Context, commentID string) error {
	return p.store.Pin(ctx, commentID)
}

// VisibleComments returns a post's comments for a requester, pinned first
// then newest first. Shadow-banned comments appear only to their own
// author's IP.
func (p *Pipeline) VisibleComments(ctx context.Context, postID, requesterIP string) ([]*domain.Comment, error) {
	return p.store.VisibleForPost(ctx, postID, requesterIP)
}

// AllComments returns every comment on a post, hidden rows included.
// Moderation tooling only.
func (p *Pipeline) AllComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return p.store.ListForPost(ctx, postID)
}

// ReportComment records a reader report against a comment, rate-limited
// per reporter IP under the report action.
func (p *Pipeline) ReportComment(ctx context.Context, commentID, reporterIP string) error {
	limit, err := p.limiter.Check(ctx, reporterIP, domain.ActionReport)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}
	if !limit.Allowed {
		if p.telemetry != nil {
			p.telemetry.RecordRateLimitRejection(ctx, string(domain.ActionReport))
		}
		return domain.ErrRateLimited
	}

	return p.store.IncrementReport(ctx, commentID)
}

func (p *Pipeline) recordOutcome(ctx context.Context, outcome string, start time.Time) {
	if p.telemetry != nil {
		p.telemetry.RecordIntake(ctx, outcome, time.Since(start))
	}
}

func containsIssue(issues []string, issue string) bool {
	for _, i := range issues {
		if i == issue {
			return true
		}
	}
	return false
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raagahub/moderation/internal/domain"
	"github.com/raagahub/moderation/internal/logger"
	"github.com/raagahub/moderation/internal/moderation"
	"github.com/raagahub/moderation/internal/ratelimit"
	"github.com/raagahub/moderation/internal/safety"
	"github.com/raagahub/moderation/internal/telemetry"
)

// Handler handles HTTP requests for the moderation API
type Handler struct {
	pipeline   *moderation.Pipeline
	limiter    *ratelimit.Limiter
	classifier *safety.CommentClassifier
	telemetry  *telemetry.Provider
	logger     logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	pipeline *moderation.Pipeline,
	limiter *ratelimit.Limiter,
	classifier *safety.CommentClassifier,
	tp *telemetry.Provider,
	log logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		pipeline:   pipeline,
		limiter:    limiter,
		classifier: classifier,
		telemetry:  tp,
		logger:     log,
	}
}

// CreateComment handles POST /api/v1/comments
func (h *Handler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid comment submission", logger.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.ProcessNewComment(c.Request.Context(), domain.CommentSubmission{
		PostID:    req.PostID,
		Author:    req.Author,
		Content:   req.Content,
		IPAddress: c.ClientIP(),
		Category:  req.Category,
	})

	switch {
	case err == nil:
		c.JSON(http.StatusCreated, result)
	case errors.Is(err, domain.ErrCommentsDisabled):
		c.JSON(http.StatusForbidden, result)
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, result)
	default:
		h.logger.Error("comment intake failed",
			logger.String("post_id", req.PostID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, result)
	}
}

// GetPostComments handles GET /api/v1/posts/:post_id/comments
func (h *Handler) GetPostComments(c *gin.Context) {
	postID := c.Param("post_id")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id is required"})
		return
	}

	comments, err := h.pipeline.VisibleComments(c.Request.Context(), postID, c.ClientIP())
	if err != nil {
		h.logger.Error("failed to list comments",
			logger.String("post_id", postID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, toCommentsListResponse(comments))
}

// ListComments handles GET /api/v1/comments?post_id=...&include_hidden=1
// Moderation tooling: shadow-banned rows are included when requested.
func (h *Handler) ListComments(c *gin.Context) {
	postID := c.Query("post_id")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id is required"})
		return
	}

	var (
		comments []*domain.Comment
		err      error
	)
	if c.Query("include_hidden") == "1" {
		comments, err = h.pipeline.AllComments(c.Request.Context(), postID)
	} else {
		comments, err = h.pipeline.VisibleComments(c.Request.Context(), postID, c.ClientIP())
	}
	if err != nil {
		h.logger.Error("failed to list comments",
			logger.String("post_id", postID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, toCommentsListResponse(comments))
}

// PinComment handles POST /api/v1/comments/:id/pin
func (h *Handler) PinComment(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment id is required"})
		return
	}

	if err := h.pipeline.PinComment(c.Request.Context(), commentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		h.logger.Error("failed to pin comment",
			logger.String("comment_id", commentID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pin comment"})
		return
	}

	h.logger.Info("comment pinned", logger.String("comment_id", commentID))
	c.JSON(http.StatusOK, gin.H{"message": "Comment pinned"})
}

// ReportComment handles POST /api/v1/comments/:id/report
func (h *Handler) ReportComment(c *gin.Context) {
	commentID := c.Param("id")
	if commentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment id is required"})
		return
	}

	err := h.pipeline.ReportComment(c.Request.Context(), commentID, c.ClientIP())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Report recorded"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many reports. Please try again later"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
	default:
		h.logger.Error("failed to report comment",
			logger.String("comment_id", commentID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record report"})
	}
}

// AnalyzeComment handles POST /api/v1/analyze. Dry run: classifies without
// persisting anything, for moderation tooling.
func (h *Handler) AnalyzeComment(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Verdict: h.classifier.Analyze(req.Content)})
}

// CheckHandle handles POST /api/v1/handles/check
func (h *Handler) CheckHandle(c *gin.Context) {
	var req HandleCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := safety.CheckHandle(req.Platform, req.Handle)
	if h.telemetry != nil {
		h.telemetry.RecordHandleCheck(c.Request.Context(), string(report.Status))
	}

	c.JSON(http.StatusOK, report)
}

// RateLimitStatus handles GET /api/v1/ratelimit/:identifier/:action
// Read-only: does not consume quota.
func (h *Handler) RateLimitStatus(c *gin.Context) {
	identifier := c.Param("identifier")
	action := domain.Action(c.Param("action"))
	if !action.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action type"})
		return
	}

	result, err := h.limiter.Peek(c.Request.Context(), identifier, action)
	if err != nil {
		h.logger.Error("failed to read rate limit state",
			logger.String("identifier", identifier),
			logger.String("action", string(action)),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read rate limit state"})
		return
	}

	c.JSON(http.StatusOK, RateLimitStatusResponse{
		Identifier:        identifier,
		Action:            string(action),
		Allowed:           result.Allowed,
		RemainingRequests: result.RemainingRequests,
		ResetInSeconds:    int(result.ResetIn.Seconds()),
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "moderation",
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

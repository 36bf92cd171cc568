package domain

import "errors"

// Sentinel errors surfaced by the moderation pipeline. Policy and rate-limit
// rejections are expected outcomes, not faults; handlers map them to 4xx.
var (
	ErrCommentsDisabled = errors.New("comments are disabled for this content")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrNotFound         = errors.New("not found")
)

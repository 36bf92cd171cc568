package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/raagahub/moderation/internal/domain"
	"github.com/raagahub/moderation/internal/logger"
)

// Store persists rate-limit counters. Implementations must make Increment
// an atomic conditional update so two concurrent checks cannot both pass on
// the same remaining slot.
type Store interface {
	// Find returns the record for (identifier, action), or nil when the
	// identifier has never been seen for this action.
	Find(ctx context.Context, identifier string, action domain.Action) (*domain.RateLimitRecord, error)
	// Start upserts the record to request_count=1 with the given window
	// start. Used both for first requests and for expired windows.
	Start(ctx context.Context, identifier string, action domain.Action, windowStart time.Time) error
	// Increment atomically bumps request_count if and only if the current
	// count is below limit. It returns the new count and whether the bump
	// happened; a rejected call leaves the counter untouched.
	Increment(ctx context.Context, identifier string, action domain.Action, limit int) (int, bool, error)
}

// Result is the outcome of one admission check.
type Result struct {
	Allowed           bool          `json:"allowed"`
	RemainingRequests int           `json:"remaining_requests"`
	ResetIn           time.Duration `json:"reset_in"`
}

// Limiter decides whether an identifier may perform an action right now.
//
// Windows are fixed, not sliding: expiry is "window start plus window
// length has passed", so a burst straddling a window boundary can admit up
// to twice the configured maximum in a short span. That throughput shape is
// intentional and load-bearing; do not swap in a sliding log.
type Limiter struct {
	store  Store
	logger logger.Logger
	now    func() time.Time
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store Store, log logger.Logger) *Limiter {
	if log == nil {
		log = logger.NewNop()
	}
	return &Limiter{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// Check runs one admission decision for (identifier, action).
func (l *Limiter) Check(ctx context.Context, identifier string, action domain.Action) (Result, error) {
	cfg := ConfigFor(action)
	now := l.now()

	rec, err := l.store.Find(ctx, identifier, action)
	if err != nil {
		return Result{}, fmt.Errorf("find rate limit record: %w", err)
	}

	// First request, or the window has lapsed: reset to a fresh window
	// with this request already counted.
	if rec == nil || now.Sub(rec.WindowStart) >= cfg.Window {
		if err := l.store.Start(ctx, identifier, action, now); err != nil {
			return Result{}, fmt.Errorf("start rate limit window: %w", err)
		}
		return Result{
			Allowed:           true,
			RemainingRequests: cfg.MaxRequests - 1,
			ResetIn:           cfg.Window,
		}, nil
	}

	resetIn := rec.WindowStart.Add(cfg.Window).Sub(now)
	if resetIn < 0 {
		resetIn = 0
	}

	newCount, incremented, err := l.store.Increment(ctx, identifier, action, cfg.MaxRequests)
	if err != nil {
		return Result{}, fmt.Errorf("increment rate limit counter: %w", err)
	}

	if !incremented {
		// Expected outcome, not a fault; keep it off the error log.
		l.logger.Debug("rate limit exceeded",
			logger.String("identifier", identifier),
			logger.String("action", string(action)),
			logger.Duration("reset_in", resetIn))
		return Result{
			Allowed:           false,
			RemainingRequests: 0,
			ResetIn:           resetIn,
		}, nil
	}

	return Result{
		Allowed:           true,
		RemainingRequests: cfg.MaxRequests - newCount,
		ResetIn:           resetIn,
	}, nil
}

// Peek reports the current limiter state for (identifier, action) without
// consuming quota.
func (l *Limiter) Peek(ctx context.Context, identifier string, action domain.Action) (Result, error) {
	cfg := ConfigFor(action)
	now := l.now()

	rec, err := l.store.Find(ctx, identifier, action)
	if err != nil {
		return Result{}, fmt.Errorf("find rate limit record: %w", err)
	}

	if rec == nil || now.Sub(rec.WindowStart) >= cfg.Window {
		return Result{
			Allowed:           true,
			RemainingRequests: cfg.MaxRequests,
			ResetIn:           0,
		}, nil
	}

	resetIn := rec.WindowStart.Add(cfg.Window).Sub(now)
	if resetIn < 0 {
		resetIn = 0
	}

	remaining := cfg.MaxRequests - rec.RequestCount
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:           remaining > 0,
		RemainingRequests: remaining,
		ResetIn:           resetIn,
	}, nil
}

// SetNow overrides the limiter's clock. Tests only.
func (l *Limiter) SetNow(now func() time.Time) {
	l.now = now
}

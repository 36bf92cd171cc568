package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/raagahub/moderation/internal/domain"
)

// RateLimitRepository persists rate-limit counters. It implements
// ratelimit.Store with atomic conditional updates, so two concurrent checks
// can never both consume the same remaining slot.
type RateLimitRepository struct {
	db *sqlx.DB
}

// NewRateLimitRepository creates a new rate-limit repository.
func NewRateLimitRepository(db *sqlx.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Find returns the record for (identifier, action), or nil when absent.
func (r *RateLimitRepository) Find(ctx context.Context, identifier string, action domain.Action) (*domain.RateLimitRecord, error) {
	var rec domain.RateLimitRecord
	query := `
		SELECT identifier, action_type, window_start, request_count
		FROM rate_limits
		WHERE identifier = $1 AND action_type = $2
	`

	err := r.db.QueryRowContext(ctx, query, identifier, string(action)).Scan(
		&rec.Identifier,
		&rec.Action,
		&rec.WindowStart,
		&rec.RequestCount,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find rate limit record: %w", err)
	}

	return &rec, nil
}

// Start upserts the record to request_count=1 with a fresh window start.
// The same statement serves first requests and expired windows.
func (r *RateLimitRepository) Start(ctx context.Context, identifier string, action domain.Action, windowStart time.Time) error {
	query := `
		INSERT INTO rate_limits (identifier, action_type, window_start, request_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (identifier, action_type)
		DO UPDATE SET window_start = EXCLUDED.window_start, request_count = 1
	`

	if _, err := r.db.ExecContext(ctx, query, identifier, string(action), windowStart); err != nil {
		return fmt.Errorf("failed to start rate limit window: %w", err)
	}

	return nil
}

// Increment bumps request_count only while it is below limit. The guard
// lives inside the UPDATE so the read and the write cannot interleave with
// another caller's; a rejected call leaves the counter untouched.
func (r *RateLimitRepository) Increment(ctx context.Context, identifier string, action domain.Action, limit int) (int, bool, error) {
	var count int
	query := `
		UPDATE rate_limits
		SET request_count = request_count + 1
		WHERE identifier = $1 AND action_type = $2 AND request_count < $3
		RETURNING request_count
	`

	err := r.db.QueryRowContext(ctx, query, identifier, string(action), limit).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return count, true, nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/raagahub/moderation/internal/domain"
)

// pq error code for unique_violation.
const pqUniqueViolation = "23505"

// CommentsRepository handles database operations for comments.
type CommentsRepository struct {
	db *sqlx.DB
}

// NewCommentsRepository creates a new comments repository.
func NewCommentsRepository(db *sqlx.DB) *CommentsRepository {
	return &CommentsRepository{db: db}
}

// Create inserts a new comment and fills in its generated id and timestamp.
func (r *CommentsRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author, content, ip_address, is_shadow_banned, is_pinned, issues, sentiment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		comment.ID,
		comment.PostID,
		comment.Author,
		comment.Content,
		comment.IPAddress,
		comment.IsShadowBanned,
		comment.IsPinned,
		pq.Array(comment.Issues),
		comment.Sentiment,
	).Scan(&comment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by its id.
func (r *CommentsRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	query := `
		SELECT id, post_id, author, content, ip_address, is_shadow_banned, is_pinned,
		       report_count, issues, sentiment, created_at
		FROM comments
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.PostID,
		&c.Author,
		&c.Content,
		&c.IPAddress,
		&c.IsShadowBanned,
		&c.IsPinned,
		&c.ReportCount,
		pq.Array(&c.Issues),
		&c.Sentiment,
		&c.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &c, nil
}

// VisibleForPost returns a post's comments ordered pinned-first then
// newest-first. Shadow-banned comments are excluded unless they belong to
// requesterIP: authors always see their own, nobody else does.
func (r *CommentsRepository) VisibleForPost(ctx context.Context, postID, requesterIP string) ([]*domain.Comment, error) {
	query := `
		SELECT id, post_id, author, content, ip_address, is_shadow_banned, is_pinned,
		       report_count, issues, sentiment, created_at
		FROM comments
		WHERE post_id = $1
		  AND (NOT is_shadow_banned OR ip_address = $2)
		ORDER BY is_pinned DESC, created_at DESC
	`

	return r.queryComments(ctx, query, postID, requesterIP)
}

// ListForPost returns every comment on a post, shadow-banned rows included.
// Moderation tooling only.
func (r *CommentsRepository) ListForPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	query := `
		SELECT id, post_id, author, content, ip_address, is_shadow_banned, is_pinned,
		       report_count, issues, sentiment, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY is_pinned DESC, created_at DESC
	`

	return r.queryComments(ctx, query, postID)
}

// CountPinned returns the number of pinned comments on a post.
func (r *CommentsRepository) CountPinned(ctx context.Context, postID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM comments WHERE post_id = $1 AND is_pinned`

	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pinned comments: %w", err)
	}

	return count, nil
}

// PinIfNone pins the comment only when its post has no pinned comment yet.
// The guard runs inside the UPDATE, and the partial unique index on
// (post_id) WHERE is_pinned backstops concurrent first-pins; losing the
// race reports pinned=false rather than an error.
func (r *CommentsRepository) PinIfNone(ctx context.Context, commentID, postID string) (bool, error) {
	query := `
		UPDATE comments
		SET is_pinned = TRUE
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM comments WHERE post_id = $2 AND is_pinned
		  )
	`

	result, err := r.db.ExecContext(ctx, query, commentID, postID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to pin comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rows > 0, nil
}

// Pin makes commentID the post's only pinned comment: unpin everything on
// the post, then pin the target, in one transaction.
func (r *CommentsRepository) Pin(ctx context.Context, commentID string) error {
	comment, err := r.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin pin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE comments SET is_pinned = FALSE WHERE post_id = $1 AND is_pinned`,
		comment.PostID,
	); err != nil {
		return fmt.Errorf("failed to unpin comments: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE comments SET is_pinned = TRUE WHERE id = $1`,
		commentID,
	); err != nil {
		return fmt.Errorf("failed to pin comment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pin transaction: %w", err)
	}

	return nil
}

// IncrementReport bumps a comment's report counter.
func (r *CommentsRepository) IncrementReport(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET report_count = report_count + 1 WHERE id = $1`,
		commentID,
	)
	if err != nil {
		return fmt.Errorf("failed to report comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *CommentsRepository) queryComments(ctx context.Context, query string, args ...any) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err = rows.Scan(
			&c.ID,
			&c.PostID,
			&c.Author,
			&c.Content,
			&c.IPAddress,
			&c.IsShadowBanned,
			&c.IsPinned,
			&c.ReportCount,
			pq.Array(&c.Issues),
			&c.Sentiment,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

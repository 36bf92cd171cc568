package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/raagahub/moderation/internal/database"
	"github.com/raagahub/moderation/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func commentColumns() []string {
	return []string{
		"id", "post_id", "author", "content", "ip_address", "is_shadow_banned",
		"is_pinned", "report_count", "issues", "sentiment", "created_at",
	}
}

func TestCommentsRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewCommentsRepository(db)
	ctx := context.Background()

	comment := &domain.Comment{
		ID:        "c-1",
		PostID:    "post-1",
		Author:    "Ravi",
		Content:   "super movie",
		IPAddress: "203.0.113.7",
		Issues:    []string{},
		Sentiment: domain.SentimentPositive,
	}

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO comments").
		WithArgs(
			comment.ID, comment.PostID, comment.Author, comment.Content,
			comment.IPAddress, false, false, pq.Array(comment.Issues), comment.Sentiment,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	if err := repo.Create(ctx, comment); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !comment.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", comment.CreatedAt, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCommentsRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewCommentsRepository(db)
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func() {
				rows := sqlmock.NewRows(commentColumns()).AddRow(
					"c-1", "post-1", "Ravi", "super movie", "203.0.113.7",
					false, false, 0, []byte(`{}`), "positive", time.Now(),
				)
				mock.ExpectQuery("SELECT (.+) FROM comments").
					WithArgs("c-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func() {
				mock.ExpectQuery("SELECT (.+) FROM comments").
					WithArgs("c-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			comment, err := repo.GetByID(ctx, "c-1")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("GetByID() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if comment.ID != "c-1" || comment.PostID != "post-1" {
				t.Errorf("unexpected comment %+v", comment)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestCommentsRepository_VisibleForPost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewCommentsRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(commentColumns()).
		AddRow("c-2", "post-1", "Sita", "pinned take", "198.51.100.4",
			false, true, 0, []byte(`{}`), "positive", time.Now()).
		AddRow("c-1", "post-1", "Ravi", "newest take", "203.0.113.7",
			false, false, 0, []byte(`{}`), "neutral", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM comments").
		WithArgs("post-1", "203.0.113.7").
		WillReturnRows(rows)

	comments, err := repo.VisibleForPost(ctx, "post-1", "203.0.113.7")
	if err != nil {
		t.Fatalf("VisibleForPost failed: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if !comments[0].IsPinned {
		t.Error("pinned comment should come first")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCommentsRepository_PinIfNone(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		setupMock  func(mock sqlmock.Sqlmock)
		wantPinned bool
		wantErr    bool
	}{
		{
			name: "pins when post has none",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE comments").
					WithArgs("c-1", "post-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantPinned: true,
		},
		{
			name: "no-op when a pin exists",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE comments").
					WithArgs("c-1", "post-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantPinned: false,
		},
		{
			name: "losing the index race is not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE comments").
					WithArgs("c-1", "post-1").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantPinned: false,
		},
		{
			name: "database error surfaces",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE comments").
					WithArgs("c-1", "post-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := database.NewCommentsRepository(db)
			tc.setupMock(mock)

			pinned, err := repo.PinIfNone(ctx, "c-1", "post-1")
			if (err != nil) != tc.wantErr {
				t.Errorf("PinIfNone() error = %v, wantErr %v", err, tc.wantErr)
			}
			if pinned != tc.wantPinned {
				t.Errorf("PinIfNone() pinned = %v, want %v", pinned, tc.wantPinned)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestCommentsRepository_Pin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewCommentsRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(commentColumns()).AddRow(
		"c-1", "post-1", "Ravi", "super movie", "203.0.113.7",
		false, false, 0, []byte(`{}`), "positive", time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM comments").
		WithArgs("c-1").
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE comments SET is_pinned = FALSE").
		WithArgs("post-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE comments SET is_pinned = TRUE").
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Pin(ctx, "c-1"); err != nil {
		t.Fatalf("Pin failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCommentsRepository_IncrementReport(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "increments existing comment",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE comments SET report_count").
					WithArgs("c-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing comment returns not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE comments SET report_count").
					WithArgs("c-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := database.NewCommentsRepository(db)
			tc.setupMock(mock)

			err := repo.IncrementReport(ctx, "c-1")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("IncrementReport() error = %v, want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Errorf("IncrementReport failed: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

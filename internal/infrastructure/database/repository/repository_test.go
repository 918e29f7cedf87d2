package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cybershield/internal/domain/models"
	"cybershield/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// fakeDB records the last statement so tests can run repositories
// without a live database.
type fakeDB struct {
	lastSQL  string
	lastArgs []any
	execTag  pgconn.CommandTag
	execErr  error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return f.execTag, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

// --- Analysis repository tests ---

func TestMarkFalsePositiveMatchesHashPrefix(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 1")}
	repo := NewAnalysisRepository(db, testLogger())

	updated, err := repo.MarkFalsePositive(context.Background(), "a3f9c2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("expected updated=true when a row was affected")
	}
	if !strings.Contains(db.lastSQL, "input_hash LIKE $1") {
		t.Errorf("expected prefix match in query, got %q", db.lastSQL)
	}
	if len(db.lastArgs) != 1 || db.lastArgs[0] != "a3f9c2" {
		t.Errorf("expected the hash prefix as the only argument, got %v", db.lastArgs)
	}
}

func TestMarkFalsePositiveNoMatch(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 0")}
	repo := NewAnalysisRepository(db, testLogger())

	updated, err := repo.MarkFalsePositive(context.Background(), "deadbeef")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Error("expected updated=false when no row matched")
	}
}

// --- Feedback repository tests ---

func TestFeedbackRepositoryCreate(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := NewFeedbackRepository(db, testLogger())

	fb := &models.Feedback{
		ID:           uuid.New(),
		AnalysisHash: "a3f9c2",
		FeedbackType: models.FeedbackFalsePositive,
		Comment:      "this site is legitimate",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), fb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastSQL, "user_feedback") {
		t.Errorf("expected insert into user_feedback, got %q", db.lastSQL)
	}
	if len(db.lastArgs) != 5 {
		t.Errorf("expected 5 insert arguments, got %d", len(db.lastArgs))
	}
}

// --- History filter tests ---

func TestBuildHistoryWhere(t *testing.T) {
	where, args := buildHistoryWhere(models.HistoryFilter{
		Severity:  "high",
		InputType: "url",
	})
	if where != " WHERE severity = $1 AND input_type = $2" {
		t.Errorf("unexpected where clause: %q", where)
	}
	if len(args) != 2 || args[0] != "high" || args[1] != "url" {
		t.Errorf("unexpected arguments: %v", args)
	}

	where, args = buildHistoryWhere(models.HistoryFilter{})
	if where != "" || args != nil {
		t.Errorf("expected empty clause without filters, got %q / %v", where, args)
	}
}

package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DayRepo {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Open runs Migrate; running it again must be a no-op.
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
	return NewDayRepo(db)
}

func TestEnsurePreservesReflection(t *testing.T) {
	days := openTestDB(t)
	ctx := context.Background()

	if err := days.Ensure(ctx, 5, "Mon", "2026-01-05"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := days.SetReflection(ctx, 5, "kept"); err != nil {
		t.Fatalf("SetReflection: %v", err)
	}
	if err := days.Ensure(ctx, 5, "Mon", "2026-01-05"); err != nil {
		t.Fatalf("re-Ensure: %v", err)
	}

	d, err := days.Get(ctx, 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d == nil || d.Reflection == nil || *d.Reflection != "kept" {
		t.Fatalf("reflection lost on upsert: %+v", d)
	}
}

func TestUpsertScoreReplaces(t *testing.T) {
	days := openTestDB(t)
	ctx := context.Background()

	if err := days.Ensure(ctx, 8, "Thu", "2026-01-08"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := days.UpsertScore(ctx, DayScore{Day: 8, DefinitionID: "focus", Value: 1}); err != nil {
		t.Fatalf("UpsertScore: %v", err)
	}
	if err := days.UpsertScore(ctx, DayScore{Day: 8, DefinitionID: "focus", Value: -2}); err != nil {
		t.Fatalf("UpsertScore: %v", err)
	}

	scores, err := days.ListScores(ctx, 8)
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Value != -2 {
		t.Fatalf("scores=%+v, want single -2", scores)
	}
	total, err := days.DailyTotal(ctx, 8)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if total != -2 {
		t.Fatalf("total=%d, want -2", total)
	}
}

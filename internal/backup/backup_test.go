package backup

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"dayflow/internal/engine"
	"dayflow/internal/storage"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src, err := storage.Open(ctx, filepath.Join(dir, "src.db"))
	if err != nil {
		t.Fatalf("open src: %v", err)
	}
	defer src.Close()

	svc := engine.NewService(src)
	tmpl, err := svc.CreateTemplate(ctx, engine.CreateTemplateInput{
		Title:    "Read",
		Category: "learning",
		Cadence:  &engine.Cadence{Days: 2, Times: 1},
		Subtasks: []string{"ch 1"},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if _, err := svc.AddTemplateToDay(ctx, tmpl.ID, 3); err != nil {
		t.Fatalf("AddTemplateToDay: %v", err)
	}
	h, err := svc.CreateHabit(ctx, engine.CreateHabitInput{Title: "Jog", Cadence: engine.Cadence{Days: 1, Times: 1}})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	g, err := svc.CreateGoal(ctx, engine.CreateGoalInput{Title: "Fitness"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if _, err := svc.AddKeyResult(ctx, g.ID, "Run weekly"); err != nil {
		t.Fatalf("AddKeyResult: %v", err)
	}
	def, err := svc.EnsureDefaultScoreDefinition(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultScoreDefinition: %v", err)
	}
	if err := svc.SetDailyScore(ctx, 3, def.ID, 2); err != nil {
		t.Fatalf("SetDailyScore: %v", err)
	}
	if err := svc.SetReflection(ctx, 3, "Solid start."); err != nil {
		t.Fatalf("SetReflection: %v", err)
	}

	var buf bytes.Buffer
	if err := Export(ctx, src, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst, err := storage.Open(ctx, filepath.Join(dir, "dst.db"))
	if err != nil {
		t.Fatalf("open dst: %v", err)
	}
	defer dst.Close()

	if err := Import(ctx, dst, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Import: %v", err)
	}

	restored := engine.NewService(dst)
	gotTmpl, err := restored.TemplateRepo().Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("template get: %v", err)
	}
	if gotTmpl == nil || gotTmpl.Title != "Read" || gotTmpl.FrequencyDays == nil || *gotTmpl.FrequencyDays != 2 {
		t.Fatalf("template did not survive: %+v", gotTmpl)
	}
	if len(gotTmpl.Subtasks) != 1 || gotTmpl.Subtasks[0].Title != "ch 1" {
		t.Fatalf("subtasks did not survive: %+v", gotTmpl.Subtasks)
	}
	instances, err := restored.InstanceRepo().ListByDay(ctx, 3)
	if err != nil {
		t.Fatalf("ListByDay: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("instances=%d, want 1", len(instances))
	}
	gotHabit, err := restored.HabitRepo().Get(ctx, h.ID)
	if err != nil {
		t.Fatalf("habit get: %v", err)
	}
	if gotHabit == nil {
		t.Fatalf("habit did not survive")
	}
	krs, err := restored.GoalRepo().ListKeyResults(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListKeyResults: %v", err)
	}
	if len(krs) != 1 {
		t.Fatalf("key results=%d, want 1", len(krs))
	}
	total, err := restored.DailyTotal(ctx, 3)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if total != 2 {
		t.Fatalf("total=%d, want 2", total)
	}
	rev, err := restored.ReviewDay(ctx, 3)
	if err != nil {
		t.Fatalf("ReviewDay: %v", err)
	}
	if rev.Day.Reflection == nil || *rev.Day.Reflection != "Solid start." {
		t.Fatalf("reflection did not survive")
	}
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "db.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := Import(ctx, db, bytes.NewReader([]byte("version: 99\n"))); err == nil {
		t.Fatalf("expected version error")
	}
}

package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dayflow/internal/storage"
)

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	svc := NewService(db)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

func mustTemplate(t *testing.T, svc *Service, in CreateTemplateInput) *storage.Template {
	t.Helper()
	tmpl, err := svc.CreateTemplate(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	return tmpl
}

func mustPlan(t *testing.T, svc *Service, templateID string, day int) *storage.Instance {
	t.Helper()
	res, err := svc.AddTemplateToDay(context.Background(), templateID, day)
	if err != nil {
		t.Fatalf("AddTemplateToDay: %v", err)
	}
	if res.Removed || res.Instance == nil {
		t.Fatalf("expected a new instance, got removal")
	}
	return res.Instance
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestToggleSingleStepFlips(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Write report"})
	inst := mustPlan(t, svc, tmpl.ID, 5)

	res, err := svc.ToggleInstance(ctx, inst.ID, nil)
	if err != nil {
		t.Fatalf("ToggleInstance: %v", err)
	}
	if !res.Completed {
		t.Fatalf("expected completed after first toggle")
	}

	got, err := svc.InstanceRepo().Get(ctx, inst.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LastCompletedAt == nil {
		t.Fatalf("expected last_completed_at to be stamped")
	}

	res, err = svc.ToggleInstance(ctx, inst.ID, nil)
	if err != nil {
		t.Fatalf("ToggleInstance: %v", err)
	}
	if res.Completed {
		t.Fatalf("expected reopened after second toggle")
	}
}

func TestToggleCounterWrapsAndMirrors(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Pushups", TargetCount: intPtr(3)})
	inst := mustPlan(t, svc, tmpl.ID, 2)

	wantCounts := []int{1, 2, 3, 0}
	wantDone := []bool{false, false, true, false}
	for i := range wantCounts {
		res, err := svc.ToggleInstance(ctx, inst.ID, nil)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if res.AccumulatedCount != wantCounts[i] {
			t.Fatalf("toggle %d: count=%d, want %d", i, res.AccumulatedCount, wantCounts[i])
		}
		if res.Completed != wantDone[i] {
			t.Fatalf("toggle %d: completed=%v, want %v", i, res.Completed, wantDone[i])
		}
		if !res.Mirrored {
			t.Fatalf("toggle %d: expected template mirror", i)
		}
		gotTmpl, err := svc.TemplateRepo().Get(ctx, tmpl.ID)
		if err != nil {
			t.Fatalf("template get: %v", err)
		}
		if gotTmpl.AccumulatedCount != wantCounts[i] {
			t.Fatalf("toggle %d: template count=%d, want %d", i, gotTmpl.AccumulatedCount, wantCounts[i])
		}
	}
}

func TestPlanToggleAddsThenRemoves(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Meditate", Subtasks: []string{"sit", "breathe"}})

	res, err := svc.AddTemplateToDay(ctx, tmpl.ID, 10)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if res.Removed {
		t.Fatalf("first call should plan, not remove")
	}
	inst := res.Instance
	if inst.ID == tmpl.ID {
		t.Fatalf("instance must have its own identity")
	}
	if len(inst.Subtasks) != 2 {
		t.Fatalf("subtasks not cloned: %d", len(inst.Subtasks))
	}
	for _, st := range inst.Subtasks {
		if st.Completed {
			t.Fatalf("cloned subtask should start unchecked")
		}
	}

	res, err = svc.AddTemplateToDay(ctx, tmpl.ID, 10)
	if err != nil {
		t.Fatalf("unplan: %v", err)
	}
	if !res.Removed {
		t.Fatalf("second call should remove the instance")
	}
	got, err := svc.InstanceRepo().Get(ctx, inst.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("instance should be gone after unplan")
	}
}

func TestTemplateEditOverlaysDerivedInstances(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Read", Category: "learning", Subtasks: []string{"ch 1", "ch 2"}})
	inst := mustPlan(t, svc, tmpl.ID, 3)

	// Check one subtask and pin a slot so we can prove both survive the edit.
	inst.Subtasks[0].Completed = true
	slot := "09:00"
	inst.TimeSlot = &slot
	if err := svc.InstanceRepo().Update(ctx, *inst); err != nil {
		t.Fatalf("prep update: %v", err)
	}

	upd := TemplateUpdate{
		ID:       tmpl.ID,
		Title:    "Read deeply",
		Category: "growth",
		Subtasks: []storage.Subtask{
			{ID: tmpl.Subtasks[0].ID, Title: "chapter one"},
			{ID: tmpl.Subtasks[1].ID, Title: "chapter two"},
		},
	}
	if err := svc.UpdateTemplate(ctx, upd); err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}

	got, err := svc.InstanceRepo().Get(ctx, inst.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Read deeply" || got.Category != "growth" {
		t.Fatalf("content did not flow to instance: %q %q", got.Title, got.Category)
	}
	if got.TimeSlot == nil || *got.TimeSlot != "09:00" {
		t.Fatalf("schedule must stay instance-local")
	}
	if got.Subtasks[0].Title != "chapter one" || !got.Subtasks[0].Completed {
		t.Fatalf("subtask title should update while keeping the checkmark: %+v", got.Subtasks[0])
	}
	if got.Subtasks[1].Completed {
		t.Fatalf("unchecked subtask must stay unchecked")
	}
}

func TestSiblingInstancesStayIsolated(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Practice piano", TargetCount: intPtr(3)})
	i1 := mustPlan(t, svc, tmpl.ID, 5)
	i2 := mustPlan(t, svc, tmpl.ID, 7)

	// Progress and schedule on the first instance only.
	nine := 9
	if _, err := svc.ToggleInstance(ctx, i1.ID, &nine); err != nil {
		t.Fatalf("toggle 1: %v", err)
	}
	if _, err := svc.ToggleInstance(ctx, i1.ID, nil); err != nil {
		t.Fatalf("toggle 2: %v", err)
	}

	got2, err := svc.InstanceRepo().Get(ctx, i2.ID)
	if err != nil {
		t.Fatalf("Get i2: %v", err)
	}
	if got2.AccumulatedCount != 0 || got2.Completed {
		t.Fatalf("sibling progress leaked: %+v", got2)
	}
	if got2.Day != 7 || got2.TimeSlot != nil {
		t.Fatalf("sibling schedule changed: day=%d slot=%v", got2.Day, got2.TimeSlot)
	}

	// A template edit reaches the content of both instances.
	if err := svc.UpdateTemplate(ctx, TemplateUpdate{ID: tmpl.ID, Title: "Practice scales", TargetCount: intPtr(3)}); err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}

	got1, err := svc.InstanceRepo().Get(ctx, i1.ID)
	if err != nil {
		t.Fatalf("Get i1: %v", err)
	}
	got2, err = svc.InstanceRepo().Get(ctx, i2.ID)
	if err != nil {
		t.Fatalf("Get i2: %v", err)
	}
	if got1.Title != "Practice scales" || got2.Title != "Practice scales" {
		t.Fatalf("content should reach both: %q %q", got1.Title, got2.Title)
	}
	if got1.AccumulatedCount != 2 || got1.TimeSlot == nil || *got1.TimeSlot != "09:00" {
		t.Fatalf("i1 progress/slot lost on edit: %+v", got1)
	}
	if got2.AccumulatedCount != 0 || got2.Day != 7 {
		t.Fatalf("i2 should stay untouched: %+v", got2)
	}

	gotTmpl, err := svc.TemplateRepo().Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("template get: %v", err)
	}
	if gotTmpl.AccumulatedCount != 2 {
		t.Fatalf("template mirror=%d, want 2", gotTmpl.AccumulatedCount)
	}
}

func TestInstanceEditMirrorsContentToTemplate(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Run"})
	inst := mustPlan(t, svc, tmpl.ID, 12)

	slot := "18:00"
	upd := InstanceUpdate{
		ID:       inst.ID,
		Title:    "Run 5k",
		Category: "fitness",
		TimeSlot: &slot,
	}
	if err := svc.UpdateInstance(ctx, upd); err != nil {
		t.Fatalf("UpdateInstance: %v", err)
	}

	gotTmpl, err := svc.TemplateRepo().Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("template get: %v", err)
	}
	if gotTmpl.Title != "Run 5k" || gotTmpl.Category != "fitness" {
		t.Fatalf("content did not mirror to template: %q %q", gotTmpl.Title, gotTmpl.Category)
	}

	gotInst, err := svc.InstanceRepo().Get(ctx, inst.ID)
	if err != nil {
		t.Fatalf("instance get: %v", err)
	}
	if gotInst.TimeSlot == nil || *gotInst.TimeSlot != "18:00" {
		t.Fatalf("time slot lost on edit")
	}
}

func TestFreeInstanceEditTouchesNoTemplate(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Untouched"})
	free, err := svc.CreateFreeInstance(ctx, CreateFreeInstanceInput{Title: "Errand", Day: 4})
	if err != nil {
		t.Fatalf("CreateFreeInstance: %v", err)
	}

	if err := svc.UpdateInstance(ctx, InstanceUpdate{ID: free.ID, Title: "Errand (post office)"}); err != nil {
		t.Fatalf("UpdateInstance: %v", err)
	}

	gotTmpl, err := svc.TemplateRepo().Get(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("template get: %v", err)
	}
	if gotTmpl.Title != "Untouched" {
		t.Fatalf("free instance edit must not touch templates")
	}
}

func TestDeleteTemplateCascadesToInstances(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Review notes"})
	i1 := mustPlan(t, svc, tmpl.ID, 1)
	i2 := mustPlan(t, svc, tmpl.ID, 2)
	free, err := svc.CreateFreeInstance(ctx, CreateFreeInstanceInput{Title: "Keep me", Day: 1})
	if err != nil {
		t.Fatalf("CreateFreeInstance: %v", err)
	}

	if err := svc.DeleteTemplate(ctx, tmpl.ID); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}

	for _, id := range []string{i1.ID, i2.ID} {
		got, err := svc.InstanceRepo().Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != nil {
			t.Fatalf("derived instance %s survived the cascade", id)
		}
	}
	got, err := svc.InstanceRepo().Get(ctx, free.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("freestanding instance must survive")
	}
}

func TestCadenceEvaluatorIsDeterministic(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{
		Title:   "Water plants",
		Cadence: &Cadence{Days: 3, Times: 1},
	})

	for _, day := range []int{1, 4, 7} {
		got, err := svc.MaterializeCyclicInstances(ctx, day)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if len(got) != 1 {
			t.Fatalf("day %d: expected 1 cyclic instance, got %d", day, len(got))
		}
		if got[0].ID != CyclicInstanceID(tmpl.ID, day) {
			t.Fatalf("day %d: unstable id %q", day, got[0].ID)
		}
		if !got[0].IsCyclic {
			t.Fatalf("day %d: instance not flagged cyclic", day)
		}
	}
	for _, day := range []int{2, 3, 5, 6} {
		got, err := svc.MaterializeCyclicInstances(ctx, day)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if len(got) != 0 {
			t.Fatalf("day %d: expected no cyclic instances, got %d", day, len(got))
		}
	}

	// Same inputs, same output: evaluation must not persist anything.
	again, err := svc.MaterializeCyclicInstances(ctx, 4)
	if err != nil {
		t.Fatalf("re-evaluate: %v", err)
	}
	if len(again) != 1 || again[0].ID != CyclicInstanceID(tmpl.ID, 4) {
		t.Fatalf("re-evaluation changed the result")
	}
	all, err := svc.InstanceRepo().ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("evaluation persisted %d instances", len(all))
	}
}

func TestCyclicSuppressedAfterAdoption(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{
		Title:   "Stretch",
		Cadence: &Cadence{Days: 1, Times: 1},
	})
	// A same-titled template must not interfere with dedup.
	other := mustTemplate(t, svc, CreateTemplateInput{
		Title:   "Stretch",
		Cadence: &Cadence{Days: 1, Times: 1},
	})

	adopted, err := svc.AdoptCyclicInstance(ctx, tmpl.ID, 6)
	if err != nil {
		t.Fatalf("AdoptCyclicInstance: %v", err)
	}
	if adopted == nil {
		t.Fatalf("expected a persisted instance")
	}

	cyclic, err := svc.MaterializeCyclicInstances(ctx, 6)
	if err != nil {
		t.Fatalf("MaterializeCyclicInstances: %v", err)
	}
	if len(cyclic) != 1 {
		t.Fatalf("expected only the unadopted template, got %d", len(cyclic))
	}
	if cyclic[0].OriginalID == nil || *cyclic[0].OriginalID != other.ID {
		t.Fatalf("wrong template suppressed")
	}
}

func TestResolveInstanceIDAdoptsCyclic(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{
		Title:   "Journal",
		Cadence: &Cadence{Days: 1, Times: 1},
	})
	cycID := CyclicInstanceID(tmpl.ID, 9)

	// The id a day view prints for an unadopted cyclic row must be usable.
	id, err := svc.ResolveInstanceID(ctx, cycID)
	if err != nil {
		t.Fatalf("ResolveInstanceID: %v", err)
	}
	if id == cycID {
		t.Fatalf("cyclic id should resolve to a persisted instance")
	}
	res, err := svc.ToggleInstance(ctx, id, nil)
	if err != nil {
		t.Fatalf("ToggleInstance: %v", err)
	}
	if !res.Completed {
		t.Fatalf("expected completion on first toggle")
	}

	// Resolving again must find the same instance, not un-plan it.
	again, err := svc.ResolveInstanceID(ctx, cycID)
	if err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if again != id {
		t.Fatalf("resolved to %q, want existing %q", again, id)
	}
	got, err := svc.InstanceRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || !got.Completed {
		t.Fatalf("instance lost or reset by re-resolve: %+v", got)
	}

	// Ordinary ids pass through untouched.
	plain, err := svc.ResolveInstanceID(ctx, "not-a-cyclic-id")
	if err != nil {
		t.Fatalf("plain id: %v", err)
	}
	if plain != "not-a-cyclic-id" {
		t.Fatalf("plain id rewritten to %q", plain)
	}
}

func TestParseCyclicInstanceID(t *testing.T) {
	tmplID := "3f1c2a9e-0b7d-4c5e-8a2f-1d9b6c4e7a51"
	id := CyclicInstanceID(tmplID, 14)
	gotTmpl, gotDay, ok := ParseCyclicInstanceID(id)
	if !ok || gotTmpl != tmplID || gotDay != 14 {
		t.Fatalf("ParseCyclicInstanceID(%q)=%q,%d,%v", id, gotTmpl, gotDay, ok)
	}
	for _, bad := range []string{"", tmplID, "cyc-", "cyc-x", "cyc-x-0", "cyc-x-32", "cyc-x-nan"} {
		if _, _, ok := ParseCyclicInstanceID(bad); ok {
			t.Errorf("ParseCyclicInstanceID(%q) ok, want false", bad)
		}
	}
}

func TestGoalDeletionSeversLinks(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{Title: "Get fit"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	kr, err := svc.AddKeyResult(ctx, g.ID, "Run 100km")
	if err != nil {
		t.Fatalf("AddKeyResult: %v", err)
	}

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Run", KRID: &kr.ID})
	inst := mustPlan(t, svc, tmpl.ID, 8)
	h, err := svc.CreateHabit(ctx, CreateHabitInput{Title: "Jog", Cadence: Cadence{Days: 1, Times: 1}, KRID: &kr.ID})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	if err := svc.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}

	gotTmpl, _ := svc.TemplateRepo().Get(ctx, tmpl.ID)
	if gotTmpl.KRID != nil {
		t.Fatalf("template still references deleted key result")
	}
	gotInst, _ := svc.InstanceRepo().Get(ctx, inst.ID)
	if gotInst.KRID != nil {
		t.Fatalf("instance still references deleted key result")
	}
	gotHabit, _ := svc.HabitRepo().Get(ctx, h.ID)
	if gotHabit.KRID != nil {
		t.Fatalf("habit still references deleted key result")
	}
	gotKR, err := svc.GoalRepo().GetKeyResult(ctx, kr.ID)
	if err != nil {
		t.Fatalf("GetKeyResult: %v", err)
	}
	if gotKR != nil {
		t.Fatalf("key result should be gone")
	}
}

func TestRemoveKeyResultSevers(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{Title: "Ship project"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	kr, err := svc.AddKeyResult(ctx, g.ID, "Close 10 issues")
	if err != nil {
		t.Fatalf("AddKeyResult: %v", err)
	}
	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Fix bug", KRID: &kr.ID})

	if err := svc.RemoveKeyResult(ctx, kr.ID); err != nil {
		t.Fatalf("RemoveKeyResult: %v", err)
	}
	gotTmpl, _ := svc.TemplateRepo().Get(ctx, tmpl.ID)
	if gotTmpl.KRID != nil {
		t.Fatalf("template link should be severed")
	}

	// The goal itself survives.
	gotGoal, _ := svc.GoalRepo().Get(ctx, g.ID)
	if gotGoal == nil {
		t.Fatalf("goal must survive key result removal")
	}
}

func TestCounterSumAggregation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{Title: "Read more"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	kr, err := svc.AddKeyResult(ctx, g.ID, "Finish 5 books")
	if err != nil {
		t.Fatalf("AddKeyResult: %v", err)
	}

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "Read a book", KRID: &kr.ID, TargetCount: intPtr(5)})
	if err := svc.TemplateRepo().UpdateProgress(ctx, tmpl.ID, 3, nil); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	pct, err := svc.ComputeKeyResultProgress(ctx, kr.ID, StrategyCounterSum)
	if err != nil {
		t.Fatalf("ComputeKeyResultProgress: %v", err)
	}
	if pct != 60 {
		t.Fatalf("pct=%d, want 60", pct)
	}
}

func TestHeadCountAggregation(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{Title: "Routine"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	kr, err := svc.AddKeyResult(ctx, g.ID, "Daily basics")
	if err != nil {
		t.Fatalf("AddKeyResult: %v", err)
	}

	done := mustTemplate(t, svc, CreateTemplateInput{Title: "Done item", KRID: &kr.ID})
	if err := svc.TemplateRepo().UpdateProgress(ctx, done.ID, 1, nil); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	mustTemplate(t, svc, CreateTemplateInput{Title: "Open item", KRID: &kr.ID})

	pct, err := svc.ComputeKeyResultProgress(ctx, kr.ID, StrategyHeadCount)
	if err != nil {
		t.Fatalf("ComputeKeyResultProgress: %v", err)
	}
	if pct != 50 {
		t.Fatalf("pct=%d, want 50", pct)
	}
}

func TestStoredProgressFallback(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{Title: "Side quest"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	kr, err := svc.AddKeyResult(ctx, g.ID, "Manual tracking")
	if err != nil {
		t.Fatalf("AddKeyResult: %v", err)
	}
	if err := svc.SetKeyResultProgress(ctx, kr.ID, 35); err != nil {
		t.Fatalf("SetKeyResultProgress: %v", err)
	}

	pct, err := svc.ComputeKeyResultProgress(ctx, kr.ID, StrategyDefault)
	if err != nil {
		t.Fatalf("ComputeKeyResultProgress: %v", err)
	}
	if pct != 35 {
		t.Fatalf("pct=%d, want stored 35", pct)
	}

	// As soon as an item links, the derived value takes over.
	mustTemplate(t, svc, CreateTemplateInput{Title: "Linked", KRID: &kr.ID})
	pct, err = svc.ComputeKeyResultProgress(ctx, kr.ID, StrategyDefault)
	if err != nil {
		t.Fatalf("ComputeKeyResultProgress: %v", err)
	}
	if pct != 0 {
		t.Fatalf("pct=%d, want derived 0", pct)
	}
}

func TestHabitStreakAdvancesOnTransitionOnly(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	h, err := svc.CreateHabit(ctx, CreateHabitInput{
		Title:       "Hydrate",
		Cadence:     Cadence{Days: 1, Times: 1},
		TargetCount: 2,
	})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	res, err := svc.ToggleHabit(ctx, h.ID, nil)
	if err != nil {
		t.Fatalf("toggle 1: %v", err)
	}
	if res.Streak != 0 || res.StreakAdvanced {
		t.Fatalf("streak advanced before target: %+v", res)
	}

	res, err = svc.ToggleHabit(ctx, h.ID, nil)
	if err != nil {
		t.Fatalf("toggle 2: %v", err)
	}
	if res.Streak != 1 || !res.StreakAdvanced {
		t.Fatalf("streak should advance on reaching target: %+v", res)
	}

	// Wrapping past completion resets the counter but keeps the streak.
	res, err = svc.ToggleHabit(ctx, h.ID, nil)
	if err != nil {
		t.Fatalf("toggle 3: %v", err)
	}
	if res.AccumulatedCount != 0 || res.Streak != 1 {
		t.Fatalf("wrap should keep streak: %+v", res)
	}

	// Completing again the same way only counts the new transition.
	if _, err := svc.ToggleHabit(ctx, h.ID, nil); err != nil {
		t.Fatalf("toggle 4: %v", err)
	}
	res, err = svc.ToggleHabit(ctx, h.ID, nil)
	if err != nil {
		t.Fatalf("toggle 5: %v", err)
	}
	if res.Streak != 2 {
		t.Fatalf("streak=%d, want 2", res.Streak)
	}

	if err := svc.ResetStreak(ctx, h.ID); err != nil {
		t.Fatalf("ResetStreak: %v", err)
	}
	got, _ := svc.HabitRepo().Get(ctx, h.ID)
	if got.Streak != 0 {
		t.Fatalf("streak=%d after reset, want 0", got.Streak)
	}
}

func TestHabitHourMarks(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	h, err := svc.CreateHabit(ctx, CreateHabitInput{
		Title:       "Stand up",
		Cadence:     Cadence{Days: 1, Times: 1},
		TargetCount: 3,
	})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	nine := 9
	if _, err := svc.ToggleHabit(ctx, h.ID, &nine); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.ToggleHabit(ctx, h.ID, &nine); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, _ := svc.HabitRepo().Get(ctx, h.ID)
	if len(got.HourMarks) != 1 || got.HourMarks[0] != "09:00" {
		t.Fatalf("hour marks should dedup: %v", got.HourMarks)
	}
}

func TestScoreValidationAndDailyTotal(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	def, err := svc.EnsureDefaultScoreDefinition(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultScoreDefinition: %v", err)
	}

	err = svc.SetDailyScore(ctx, 15, def.ID, 3)
	var badValue InvalidScoreValueError
	if !errors.As(err, &badValue) {
		t.Fatalf("expected InvalidScoreValueError, got %v", err)
	}
	err = svc.SetDailyScore(ctx, 15, def.ID, -3)
	if !errors.As(err, &badValue) {
		t.Fatalf("expected InvalidScoreValueError, got %v", err)
	}

	second, err := svc.CreateScoreDefinition(ctx, "Energy", nil)
	if err != nil {
		t.Fatalf("CreateScoreDefinition: %v", err)
	}
	if err := svc.SetDailyScore(ctx, 15, def.ID, 2); err != nil {
		t.Fatalf("SetDailyScore: %v", err)
	}
	if err := svc.SetDailyScore(ctx, 15, second.ID, -1); err != nil {
		t.Fatalf("SetDailyScore: %v", err)
	}
	// Re-scoring a dimension replaces, not adds.
	if err := svc.SetDailyScore(ctx, 15, def.ID, 1); err != nil {
		t.Fatalf("SetDailyScore: %v", err)
	}

	total, err := svc.DailyTotal(ctx, 15)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if total != 0 {
		t.Fatalf("total=%d, want 0", total)
	}

	err = svc.SetDailyScore(ctx, 15, "missing-def", 1)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound for unknown definition, got %v", err)
	}
}

func TestReflectionRoundTrip(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if err := svc.SetReflection(ctx, 20, "Good day overall."); err != nil {
		t.Fatalf("SetReflection: %v", err)
	}
	rev, err := svc.ReviewDay(ctx, 20)
	if err != nil {
		t.Fatalf("ReviewDay: %v", err)
	}
	if rev.Day.Reflection == nil || *rev.Day.Reflection != "Good day overall." {
		t.Fatalf("reflection lost: %+v", rev.Day)
	}
}

func TestInvalidCadenceRejected(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	var badCadence InvalidCadenceError
	_, err := svc.CreateTemplate(ctx, CreateTemplateInput{Title: "Bad", Cadence: &Cadence{Days: 0, Times: 1}})
	if !errors.As(err, &badCadence) {
		t.Fatalf("expected InvalidCadenceError, got %v", err)
	}
	_, err = svc.CreateHabit(ctx, CreateHabitInput{Title: "Bad", Cadence: Cadence{Days: 1, Times: 0}})
	if !errors.As(err, &badCadence) {
		t.Fatalf("expected InvalidCadenceError, got %v", err)
	}
}

func TestRenameCategoryFamilies(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	tmpl := mustTemplate(t, svc, CreateTemplateInput{Title: "T", Category: "work"})
	inst := mustPlan(t, svc, tmpl.ID, 9)
	if _, err := svc.CreateHabit(ctx, CreateHabitInput{Title: "H", Category: "work", Cadence: Cadence{Days: 1, Times: 1}}); err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}

	n, err := svc.RenameCategory(ctx, FamilyTask, "work", "career")
	if err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if n != 2 {
		t.Fatalf("renamed=%d, want template+instance=2", n)
	}
	gotInst, _ := svc.InstanceRepo().Get(ctx, inst.ID)
	if gotInst.Category != "career" {
		t.Fatalf("instance category=%q", gotInst.Category)
	}
	// The habit family is a separate namespace and keeps its name.
	habits, _ := svc.HabitRepo().ListAll(ctx)
	if habits[0].Category != "work" {
		t.Fatalf("habit category=%q, want work", habits[0].Category)
	}

	mustTemplate(t, svc, CreateTemplateInput{Title: "T2", Category: "home"})
	var dup DuplicateCategoryError
	_, err = svc.RenameCategory(ctx, FamilyTask, "home", "career")
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateCategoryError, got %v", err)
	}

	_, err = svc.RenameCategory(ctx, FamilyGoal, "nope", "something")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound for missing category, got %v", err)
	}
}

func TestRetractClearsSlotOnly(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	slot := "11:00"
	inst, err := svc.CreateFreeInstance(ctx, CreateFreeInstanceInput{Title: "Call dentist", Day: 7, TimeSlot: &slot})
	if err != nil {
		t.Fatalf("CreateFreeInstance: %v", err)
	}

	if err := svc.RetractInstance(ctx, inst.ID); err != nil {
		t.Fatalf("RetractInstance: %v", err)
	}
	got, _ := svc.InstanceRepo().Get(ctx, inst.ID)
	if got == nil {
		t.Fatalf("instance must stay on the day")
	}
	if got.TimeSlot != nil {
		t.Fatalf("slot should be cleared, got %v", *got.TimeSlot)
	}
}

func TestNotFoundOperations(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.ToggleInstance(ctx, "nope", nil); !IsNotFound(err) {
		t.Fatalf("ToggleInstance: %v", err)
	}
	if _, err := svc.ToggleHabit(ctx, "nope", nil); !IsNotFound(err) {
		t.Fatalf("ToggleHabit: %v", err)
	}
	if err := svc.DeleteGoal(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if _, err := svc.AddTemplateToDay(ctx, "nope", 3); !IsNotFound(err) {
		t.Fatalf("AddTemplateToDay: %v", err)
	}
	if _, err := svc.CreateTemplate(ctx, CreateTemplateInput{Title: "X", KRID: strPtr("dangling")}); !IsNotFound(err) {
		t.Fatalf("CreateTemplate with dangling KR: %v", err)
	}
}

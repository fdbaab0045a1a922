package engine

import (
	"context"
	"fmt"
	"math"

	"dayflow/internal/storage"
)

// progressItem is the least common denominator of templates and habits for
// key result aggregation.
type progressItem struct {
	target      int
	accumulated int
	completed   bool
}

// ComputeKeyResultProgress derives a key result's rollup progress from every
// template and habit linked to it. StrategyCounterSum (canonical) returns
// round(100 * sum(accumulated) / sum(target)) with a per-item default target
// of 1; StrategyHeadCount returns the ratio of completed items. When nothing
// links to the key result, the stored progress value is reported instead.
func (s *Service) ComputeKeyResultProgress(ctx context.Context, krID string, strategy ProgressStrategy) (int, error) {
	if strategy == StrategyDefault {
		strategy = s.strategy
	}
	if !strategy.IsValid() {
		return 0, fmt.Errorf("invalid progress strategy: %q", strategy)
	}

	kr, err := s.goals.GetKeyResult(ctx, krID)
	if err != nil {
		return 0, err
	}
	if kr == nil {
		return 0, NotFoundError{Kind: "key result", ID: krID}
	}

	items, err := s.linkedItems(ctx, krID)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return clampPct(kr.Progress), nil
	}

	switch strategy {
	case StrategyHeadCount:
		done := 0
		for _, it := range items {
			if it.completed || it.accumulated >= it.target {
				done++
			}
		}
		return roundPct(done, len(items)), nil
	default: // StrategyCounterSum
		totalTarget := 0
		totalCompleted := 0
		for _, it := range items {
			totalTarget += it.target
			totalCompleted += it.accumulated
		}
		return roundPct(totalCompleted, totalTarget), nil
	}
}

func (s *Service) linkedItems(ctx context.Context, krID string) ([]progressItem, error) {
	templates, err := s.templates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var items []progressItem
	for _, t := range templates {
		if t.KRID == nil || *t.KRID != krID {
			continue
		}
		target := 1
		if t.TargetCount != nil && *t.TargetCount > 0 {
			target = *t.TargetCount
		}
		items = append(items, progressItem{
			target:      target,
			accumulated: t.AccumulatedCount,
			completed:   t.AccumulatedCount >= target,
		})
	}
	for _, h := range habits {
		if h.KRID == nil || *h.KRID != krID {
			continue
		}
		target := h.TargetCount
		if target < 1 {
			target = 1
		}
		items = append(items, progressItem{
			target:      target,
			accumulated: h.AccumulatedCount,
			completed:   h.CompletedToday || h.AccumulatedCount >= target,
		})
	}
	return items, nil
}

// GoalProgress pairs a key result with its derived progress for display.
type GoalProgress struct {
	Goal       storage.Goal
	KeyResults []KeyResultProgress
}

type KeyResultProgress struct {
	KeyResult storage.KeyResult
	Progress  int
}

// GoalOverview computes derived progress for every key result of every goal.
func (s *Service) GoalOverview(ctx context.Context, strategy ProgressStrategy) ([]GoalProgress, error) {
	goals, err := s.goals.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []GoalProgress
	for _, g := range goals {
		krs, err := s.goals.ListKeyResults(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		gp := GoalProgress{Goal: g}
		for _, kr := range krs {
			pct, err := s.ComputeKeyResultProgress(ctx, kr.ID, strategy)
			if err != nil {
				return nil, err
			}
			gp.KeyResults = append(gp.KeyResults, KeyResultProgress{KeyResult: kr, Progress: pct})
		}
		out = append(out, gp)
	}
	return out, nil
}

func roundPct(completed, target int) int {
	if target <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(completed) / float64(target)))
	return clampPct(pct)
}

func clampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

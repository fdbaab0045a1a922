package engine

import (
	"context"
	"database/sql"
	"time"

	"dayflow/internal/storage"
)

type HabitToggleResult struct {
	HabitID          string
	CompletedToday   bool
	AccumulatedCount int
	Streak           int
	StreakAdvanced   bool
}

// ToggleHabit advances a habit's completion counter with the same wrap
// semantics as task instances. The streak increments only on the transition
// where the counter newly reaches the target; re-toggling while already at or
// above the target never double-increments. When scheduledHour is given the
// check-off is pinned to that planner slot.
func (s *Service) ToggleHabit(ctx context.Context, habitID string, scheduledHour *int) (*HabitToggleResult, error) {
	var res *HabitToggleResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		h, err := stores.habits.Get(ctx, habitID)
		if err != nil {
			return err
		}
		if h == nil {
			return NotFoundError{Kind: "habit", ID: habitID}
		}

		target := h.TargetCount
		if target < 1 {
			target = 1
		}

		cur := h.AccumulatedCount
		next := cur + 1
		if cur >= target {
			next = 0
		}

		advanced := cur < target && next >= target
		h.AccumulatedCount = next
		h.CompletedToday = next >= target
		if advanced {
			h.Streak++
		}
		if next > cur {
			now := time.Now().UTC()
			h.LastCompletedAt = &now
		}
		if next == 0 {
			// Wrapping past completion resets the day, marks included.
			h.HourMarks = nil
		} else if scheduledHour != nil {
			slot := FormatHourSlot(*scheduledHour)
			if !containsMark(h.HourMarks, slot) {
				h.HourMarks = append(h.HourMarks, slot)
			}
		}

		if err := stores.habits.Update(ctx, *h); err != nil {
			return err
		}
		res = &HabitToggleResult{
			HabitID:          h.ID,
			CompletedToday:   h.CompletedToday,
			AccumulatedCount: h.AccumulatedCount,
			Streak:           h.Streak,
			StreakAdvanced:   advanced,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ResetStreak is the only operation that decrements a streak; missed days
// never decay it.
func (s *Service) ResetStreak(ctx context.Context, habitID string) error {
	h, err := s.habits.Get(ctx, habitID)
	if err != nil {
		return err
	}
	if h == nil {
		return NotFoundError{Kind: "habit", ID: habitID}
	}
	h.Streak = 0
	return s.habits.Update(ctx, *h)
}

// HabitUpdate carries the editable fields of a habit.
type HabitUpdate struct {
	ID          string
	Title       string
	Category    string
	Cadence     Cadence
	TargetCount int
	KRID        *string
	IconName    string
	Color       string
}

func (s *Service) UpdateHabit(ctx context.Context, in HabitUpdate) error {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return err
	}
	if !in.Cadence.IsValid() {
		return InvalidCadenceError{Days: in.Cadence.Days, Times: in.Cadence.Times}
	}
	if err := s.checkKeyResultRef(ctx, in.KRID); err != nil {
		return err
	}

	h, err := s.habits.Get(ctx, in.ID)
	if err != nil {
		return err
	}
	if h == nil {
		return NotFoundError{Kind: "habit", ID: in.ID}
	}

	h.Title = title
	h.Category = in.Category
	h.FrequencyDays = in.Cadence.Days
	h.FrequencyTimes = in.Cadence.Times
	h.KRID = in.KRID
	if in.TargetCount >= 1 {
		h.TargetCount = in.TargetCount
	}
	if in.IconName != "" {
		h.IconName = in.IconName
	}
	if in.Color != "" {
		h.Color = in.Color
	}
	return s.habits.Update(ctx, *h)
}

func (s *Service) DeleteHabit(ctx context.Context, habitID string) error {
	removed, err := s.habits.Delete(ctx, habitID)
	if err != nil {
		return err
	}
	if !removed {
		return NotFoundError{Kind: "habit", ID: habitID}
	}
	return nil
}

func containsMark(marks []string, slot string) bool {
	for _, m := range marks {
		if m == slot {
			return true
		}
	}
	return false
}

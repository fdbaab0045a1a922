package engine

import (
	"context"
	"database/sql"
	"time"

	"dayflow/internal/storage"
)

type ToggleResult struct {
	InstanceID       string
	Completed        bool
	AccumulatedCount int
	TargetCount      int // 0 when the instance has no step target
	Mirrored         bool
}

// ToggleInstance flips or advances an instance's completion state.
//
// Without a step target the completed flag flips, stamping last_completed_at
// on the transition to completed. With a target of N the tap advances the
// counter by one and wraps back to 0 once it has reached N, so a tap past
// completion resets. completed is derived as accumulated >= target.
//
// When scheduledHour is given the instance is also pinned to that planner
// slot. If the instance was derived from a template, the new accumulation and
// completion timestamp are mirrored back onto the template (instance to
// template only).
func (s *Service) ToggleInstance(ctx context.Context, instanceID string, scheduledHour *int) (*ToggleResult, error) {
	var res *ToggleResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		inst, err := stores.instances.Get(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst == nil {
			return NotFoundError{Kind: "instance", ID: instanceID}
		}

		now := time.Now().UTC()
		target := 0
		if inst.TargetCount != nil {
			target = *inst.TargetCount
		}

		if target > 0 {
			cur := inst.AccumulatedCount
			next := cur + 1
			if cur >= target {
				next = 0
			}
			inst.AccumulatedCount = next
			inst.Completed = next >= target
			if next > cur {
				inst.LastCompletedAt = &now
			}
		} else {
			inst.Completed = !inst.Completed
			if inst.Completed {
				inst.LastCompletedAt = &now
			}
		}

		if scheduledHour != nil {
			slot := FormatHourSlot(*scheduledHour)
			inst.TimeSlot = &slot
		}

		if err := stores.instances.Update(ctx, *inst); err != nil {
			return err
		}

		mirrored := false
		if inst.OriginalID != nil {
			tmpl, err := stores.templates.Get(ctx, *inst.OriginalID)
			if err != nil {
				return err
			}
			// A dangling originalId (template deleted out of band) is
			// tolerated; the instance keeps working on its own.
			if tmpl != nil {
				if err := stores.templates.UpdateProgress(ctx, tmpl.ID, inst.AccumulatedCount, inst.LastCompletedAt); err != nil {
					return err
				}
				mirrored = true
			}
		}

		res = &ToggleResult{
			InstanceID:       inst.ID,
			Completed:        inst.Completed,
			AccumulatedCount: inst.AccumulatedCount,
			TargetCount:      target,
			Mirrored:         mirrored,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

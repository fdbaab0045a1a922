package engine

import (
	"context"
	"database/sql"

	"dayflow/internal/storage"
)

// TemplateUpdate carries the editable fields of a library template.
type TemplateUpdate struct {
	ID          string
	Title       string
	Category    string
	KRID        *string
	Cadence     *Cadence
	TargetCount *int
	Subtasks    []storage.Subtask
}

// InstanceUpdate carries the editable fields of a day instance. TimeSlot is
// the full new value (nil unschedules), since edits replace the record the
// way the editing form does.
type InstanceUpdate struct {
	ID          string
	Title       string
	Category    string
	KRID        *string
	TargetCount *int
	Subtasks    []storage.Subtask
	TimeSlot    *string
}

// UpdateTemplate edits a library template and overlays the shared content
// fields (title, category, kr link, target, subtasks) onto every instance
// derived from it. Each instance keeps its own identity, day, time slot and
// completion state: content flows template to instance, schedule and progress
// never do.
func (s *Service) UpdateTemplate(ctx context.Context, in TemplateUpdate) error {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return err
	}
	if in.Cadence != nil && !in.Cadence.IsValid() {
		return InvalidCadenceError{Days: in.Cadence.Days, Times: in.Cadence.Times}
	}
	if err := s.checkKeyResultRef(ctx, in.KRID); err != nil {
		return err
	}

	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		tmpl, err := stores.templates.Get(ctx, in.ID)
		if err != nil {
			return err
		}
		if tmpl == nil {
			return NotFoundError{Kind: "template", ID: in.ID}
		}

		tmpl.Title = title
		tmpl.Category = in.Category
		tmpl.KRID = in.KRID
		tmpl.TargetCount = in.TargetCount
		tmpl.Subtasks = in.Subtasks
		if in.Cadence != nil {
			days, times := in.Cadence.Days, in.Cadence.Times
			tmpl.FrequencyDays = &days
			tmpl.FrequencyTimes = &times
		} else {
			tmpl.FrequencyDays = nil
			tmpl.FrequencyTimes = nil
		}
		if err := stores.templates.Update(ctx, *tmpl); err != nil {
			return err
		}

		derived, err := stores.instances.ListByOriginal(ctx, tmpl.ID)
		if err != nil {
			return err
		}
		for i := range derived {
			inst := derived[i]
			inst.Title = tmpl.Title
			inst.Category = tmpl.Category
			inst.KRID = tmpl.KRID
			inst.TargetCount = tmpl.TargetCount
			inst.Subtasks = overlaySubtasks(tmpl.Subtasks, inst.Subtasks)
			if err := stores.instances.Update(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateInstance edits a day instance and, when the instance was derived from
// a template, mirrors the content fields back onto the template. Schedule and
// progress stay instance-local.
func (s *Service) UpdateInstance(ctx context.Context, in InstanceUpdate) error {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return err
	}
	if err := s.checkKeyResultRef(ctx, in.KRID); err != nil {
		return err
	}

	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		inst, err := stores.instances.Get(ctx, in.ID)
		if err != nil {
			return err
		}
		if inst == nil {
			return NotFoundError{Kind: "instance", ID: in.ID}
		}

		inst.Title = title
		inst.Category = in.Category
		inst.KRID = in.KRID
		inst.TargetCount = in.TargetCount
		inst.Subtasks = in.Subtasks
		inst.TimeSlot = in.TimeSlot
		if err := stores.instances.Update(ctx, *inst); err != nil {
			return err
		}

		if inst.OriginalID == nil {
			return nil
		}
		tmpl, err := stores.templates.Get(ctx, *inst.OriginalID)
		if err != nil {
			return err
		}
		if tmpl == nil {
			return nil
		}
		tmpl.Title = inst.Title
		tmpl.Category = inst.Category
		tmpl.KRID = inst.KRID
		tmpl.TargetCount = inst.TargetCount
		tmpl.Subtasks = overlaySubtasks(inst.Subtasks, tmpl.Subtasks)
		return stores.templates.Update(ctx, *tmpl)
	})
}

// overlaySubtasks takes the content (ids, titles, order) from src while
// keeping dst's completion flags for subtasks that exist on both sides.
// Subtask checkmarks are progress, and progress never crosses the
// template/instance boundary on an edit.
func overlaySubtasks(src, dst []storage.Subtask) []storage.Subtask {
	if len(src) == 0 {
		return nil
	}
	done := make(map[string]bool, len(dst))
	for _, st := range dst {
		done[st.ID] = st.Completed
	}
	out := make([]storage.Subtask, len(src))
	for i, st := range src {
		out[i] = storage.Subtask{ID: st.ID, Title: st.Title, Completed: done[st.ID]}
	}
	return out
}

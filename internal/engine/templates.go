package engine

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"dayflow/internal/storage"
)

type PlanResult struct {
	TemplateID string
	Day        int
	Removed    bool              // true when the call un-planned an existing instance
	Instance   *storage.Instance // set when a new instance was materialized
}

// AddTemplateToDay has toggle semantics: if the template is already planned on
// the day its instance is removed, otherwise a fresh instance is materialized
// with its own identity, zeroed progress and subtask checkmarks reset. One
// control doubles as add and un-plan.
func (s *Service) AddTemplateToDay(ctx context.Context, templateID string, day int) (*PlanResult, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	var res *PlanResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		tmpl, err := stores.templates.Get(ctx, templateID)
		if err != nil {
			return err
		}
		if tmpl == nil {
			return NotFoundError{Kind: "template", ID: templateID}
		}

		existing, err := stores.instances.GetByOriginalAndDay(ctx, tmpl.ID, day)
		if err != nil {
			return err
		}
		if existing != nil {
			if _, err := stores.instances.Delete(ctx, existing.ID); err != nil {
				return err
			}
			res = &PlanResult{TemplateID: tmpl.ID, Day: day, Removed: true}
			return nil
		}

		inst := materializeInstance(tmpl, day)
		if err := stores.instances.Insert(ctx, inst); err != nil {
			return err
		}
		res = &PlanResult{TemplateID: tmpl.ID, Day: day, Instance: &inst}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteTemplate removes a template from the library and cascades to every
// instance derived from it on every day. Freestanding instances are never
// affected.
func (s *Service) DeleteTemplate(ctx context.Context, templateID string) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		removed, err := stores.templates.Delete(ctx, templateID)
		if err != nil {
			return err
		}
		if !removed {
			return NotFoundError{Kind: "template", ID: templateID}
		}
		if _, err := stores.instances.DeleteByOriginal(ctx, templateID); err != nil {
			return err
		}
		return nil
	})
}

// RetractInstance clears the instance's planner slot without deleting it.
// This is the undo for a schedule placement, distinct from deletion.
func (s *Service) RetractInstance(ctx context.Context, instanceID string) error {
	inst, err := s.instances.Get(ctx, instanceID)
	if err != nil {
		return err
	}
	if inst == nil {
		return NotFoundError{Kind: "instance", ID: instanceID}
	}
	return s.instances.ClearTime(ctx, instanceID)
}

// DeleteInstance removes a single instance from its day, leaving the template
// (if any) and every other day untouched.
func (s *Service) DeleteInstance(ctx context.Context, instanceID string) error {
	removed, err := s.instances.Delete(ctx, instanceID)
	if err != nil {
		return err
	}
	if !removed {
		return NotFoundError{Kind: "instance", ID: instanceID}
	}
	return nil
}

func materializeInstance(tmpl *storage.Template, day int) storage.Instance {
	inst := storage.Instance{
		ID:          uuid.NewString(),
		OriginalID:  &tmpl.ID,
		Day:         day,
		Title:       tmpl.Title,
		Category:    tmpl.Category,
		KRID:        tmpl.KRID,
		TargetCount: tmpl.TargetCount,
	}
	for _, st := range tmpl.Subtasks {
		inst.Subtasks = append(inst.Subtasks, storage.Subtask{ID: st.ID, Title: st.Title})
	}
	return inst
}

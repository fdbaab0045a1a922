package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dayflow/internal/storage"
)

// recursOn reports whether a cadence of every-N-days recurs on the given
// day-of-month. The cadence is anchored to day 1 of the visible range, not to
// the template's creation date.
func recursOn(frequencyDays int, day int) bool {
	if frequencyDays <= 0 {
		return false
	}
	return (day-1)%frequencyDays == 0
}

// CyclicInstanceID derives the synthetic id for a recurring template's
// appearance on a day.
func CyclicInstanceID(templateID string, day int) string {
	return fmt.Sprintf("cyc-%s-%d", templateID, day)
}

// ParseCyclicInstanceID splits a synthesized cyclic id back into template id
// and day. ok is false for ordinary instance ids. The day is taken from the
// last dash since template ids contain dashes themselves.
func ParseCyclicInstanceID(id string) (templateID string, day int, ok bool) {
	rest, found := strings.CutPrefix(id, "cyc-")
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return "", 0, false
	}
	day, err := strconv.Atoi(rest[i+1:])
	if err != nil || day < 1 || day > 31 {
		return "", 0, false
	}
	return rest[:i], day, true
}

// ResolveInstanceID maps a synthesized cyclic id to a persisted instance id,
// adopting the cyclic appearance first when no instance exists yet. Ordinary
// ids pass through unchanged, so callers can feed it any id a day view
// printed.
func (s *Service) ResolveInstanceID(ctx context.Context, id string) (string, error) {
	tmplID, day, ok := ParseCyclicInstanceID(id)
	if !ok {
		return id, nil
	}
	existing, err := s.instances.GetByOriginalAndDay(ctx, tmplID, day)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	adopted, err := s.AdoptCyclicInstance(ctx, tmplID, day)
	if err != nil {
		return "", err
	}
	return adopted.ID, nil
}

// MaterializeCyclicInstances synthesizes the recurring templates that should
// appear on the given day. Pure with respect to the stores: nothing is
// persisted, and identical inputs always yield the identical set. A template
// is suppressed when a persisted instance derived from it already exists on
// the day, keyed by identity rather than title so same-titled templates never
// collide.
func (s *Service) MaterializeCyclicInstances(ctx context.Context, day int) ([]storage.Instance, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	templates, err := s.templates.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []storage.Instance
	for i := range templates {
		tmpl := templates[i]
		if tmpl.FrequencyDays == nil || !recursOn(*tmpl.FrequencyDays, day) {
			continue
		}
		existing, err := s.instances.GetByOriginalAndDay(ctx, tmpl.ID, day)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		inst := storage.Instance{
			ID:          CyclicInstanceID(tmpl.ID, day),
			OriginalID:  &tmpl.ID,
			Day:         day,
			Title:       tmpl.Title,
			Category:    tmpl.Category,
			KRID:        tmpl.KRID,
			TargetCount: tmpl.TargetCount,
			IsCyclic:    true,
		}
		for _, st := range tmpl.Subtasks {
			inst.Subtasks = append(inst.Subtasks, storage.Subtask{ID: st.ID, Title: st.Title})
		}
		out = append(out, inst)
	}
	return out, nil
}

// AdoptCyclicInstance persists a synthesized cyclic instance as a real one so
// it can be toggled or scheduled. Planning the same template on the same day
// is idempotent through the AddTemplateToDay toggle path.
func (s *Service) AdoptCyclicInstance(ctx context.Context, templateID string, day int) (*storage.Instance, error) {
	res, err := s.AddTemplateToDay(ctx, templateID, day)
	if err != nil {
		return nil, err
	}
	if res.Removed {
		// The template was already planned on the day; nothing to adopt.
		return nil, nil
	}
	return res.Instance, nil
}

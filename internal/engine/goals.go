package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"dayflow/internal/storage"
)

// AddKeyResult appends a key result to a goal.
func (s *Service) AddKeyResult(ctx context.Context, goalID string, title string) (*storage.KeyResult, error) {
	t, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	g, err := s.goals.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, NotFoundError{Kind: "goal", ID: goalID}
	}

	existing, err := s.goals.ListKeyResults(ctx, goalID)
	if err != nil {
		return nil, err
	}

	kr := storage.KeyResult{
		ID:       uuid.NewString(),
		GoalID:   goalID,
		Title:    t,
		Position: len(existing),
	}
	if err := s.goals.InsertKeyResult(ctx, kr); err != nil {
		return nil, err
	}
	return &kr, nil
}

// GoalUpdate carries optional edits to a goal. Nil fields are untouched.
type GoalUpdate struct {
	Title    *string
	Category *string
}

func (s *Service) UpdateGoal(ctx context.Context, goalID string, upd GoalUpdate) (*storage.Goal, error) {
	g, err := s.goals.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, NotFoundError{Kind: "goal", ID: goalID}
	}
	if upd.Title != nil {
		t, err := normalizeTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		g.Title = t
	}
	if upd.Category != nil {
		g.Category = *upd.Category
	}
	if err := s.goals.Update(ctx, *g); err != nil {
		return nil, err
	}
	return g, nil
}

// RemoveKeyResult deletes a key result and severs every krId back-reference
// pointing at it, so nothing is left dangling.
func (s *Service) RemoveKeyResult(ctx context.Context, krID string) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		removed, err := stores.goals.DeleteKeyResult(ctx, krID)
		if err != nil {
			return err
		}
		if !removed {
			return NotFoundError{Kind: "key result", ID: krID}
		}
		return severKRRefs(ctx, stores, []string{krID})
	})
}

// SetKeyResultProgress edits the stored progress value. It only shows through
// when no template or habit links to the key result.
func (s *Service) SetKeyResultProgress(ctx context.Context, krID string, progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress %d out of range [0, 100]", progress)
	}
	kr, err := s.goals.GetKeyResult(ctx, krID)
	if err != nil {
		return err
	}
	if kr == nil {
		return NotFoundError{Kind: "key result", ID: krID}
	}
	kr.Progress = progress
	return s.goals.UpdateKeyResult(ctx, *kr)
}

// DeleteGoal removes a goal with all of its key results and clears the krId
// on every template, instance and habit that referenced any of them.
func (s *Service) DeleteGoal(ctx context.Context, goalID string) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)

		g, err := stores.goals.Get(ctx, goalID)
		if err != nil {
			return err
		}
		if g == nil {
			return NotFoundError{Kind: "goal", ID: goalID}
		}

		krs, err := stores.goals.ListKeyResults(ctx, goalID)
		if err != nil {
			return err
		}
		krIDs := make([]string, 0, len(krs))
		for _, kr := range krs {
			krIDs = append(krIDs, kr.ID)
		}

		if err := stores.goals.DeleteKeyResultsByGoal(ctx, goalID); err != nil {
			return err
		}
		if _, err := stores.goals.Delete(ctx, goalID); err != nil {
			return err
		}
		return severKRRefs(ctx, stores, krIDs)
	})
}

func severKRRefs(ctx context.Context, stores txStores, krIDs []string) error {
	if err := stores.templates.ClearKR(ctx, krIDs); err != nil {
		return err
	}
	if err := stores.instances.ClearKR(ctx, krIDs); err != nil {
		return err
	}
	return stores.habits.ClearKR(ctx, krIDs)
}

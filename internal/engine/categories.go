package engine

import (
	"context"
	"database/sql"
	"fmt"

	"dayflow/internal/storage"
)

// RenameCategory renames a category within one family's namespace and rewrites
// every row carrying the old name. The same name may exist independently in
// other families.
func (s *Service) RenameCategory(ctx context.Context, family CategoryFamily, oldName, newName string) (int64, error) {
	if !family.IsValid() {
		return 0, fmt.Errorf("unknown category family %q", family)
	}
	newName, err := normalizeTitle(newName)
	if err != nil {
		return 0, err
	}
	if oldName == newName {
		return 0, nil
	}

	taken, err := s.categoryExists(ctx, family, newName)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, DuplicateCategoryError{Family: family, Name: newName}
	}

	var renamed int64
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stores := newTxStores(tx)
		switch family {
		case FamilyTask:
			n, err := stores.templates.RenameCategory(ctx, oldName, newName)
			if err != nil {
				return err
			}
			m, err := stores.instances.RenameCategory(ctx, oldName, newName)
			if err != nil {
				return err
			}
			renamed = n + m
		case FamilyHabit:
			n, err := stores.habits.RenameCategory(ctx, oldName, newName)
			if err != nil {
				return err
			}
			renamed = n
		case FamilyGoal:
			n, err := stores.goals.RenameCategory(ctx, oldName, newName)
			if err != nil {
				return err
			}
			renamed = n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if renamed == 0 {
		return 0, NotFoundError{Kind: "category", ID: oldName}
	}
	return renamed, nil
}

func (s *Service) categoryExists(ctx context.Context, family CategoryFamily, name string) (bool, error) {
	switch family {
	case FamilyTask:
		return s.templates.CategoryExists(ctx, name)
	case FamilyHabit:
		return s.habits.CategoryExists(ctx, name)
	case FamilyGoal:
		return s.goals.CategoryExists(ctx, name)
	}
	return false, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// GoalRepo covers goals and their ordered key results.
type GoalRepo struct {
	db DBTX
}

func NewGoalRepo(db DBTX) *GoalRepo {
	return &GoalRepo{db: db}
}

func (r *GoalRepo) Insert(ctx context.Context, g Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, category) VALUES (?, ?, ?)
	`, g.ID, g.Title, g.Category)
	if err != nil {
		return fmt.Errorf("goal insert: %w", err)
	}
	return nil
}

func (r *GoalRepo) Get(ctx context.Context, id string) (*Goal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, category, created_at FROM goals WHERE id = ?`, id)
	var g Goal
	if err := row.Scan(&g.ID, &g.Title, &g.Category, &g.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("goal get: %w", err)
	}
	return &g, nil
}

func (r *GoalRepo) ListAll(ctx context.Context) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, category, created_at FROM goals ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("goal list: %w", err)
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Category, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("goal scan: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goal rows: %w", err)
	}
	return out, nil
}

func (r *GoalRepo) Update(ctx context.Context, g Goal) error {
	_, err := r.db.ExecContext(ctx, `UPDATE goals SET title = ?, category = ? WHERE id = ?`, g.Title, g.Category, g.ID)
	if err != nil {
		return fmt.Errorf("goal update: %w", err)
	}
	return nil
}

func (r *GoalRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("goal delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("goal delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *GoalRepo) CategoryExists(ctx context.Context, name string) (bool, error) {
	return categoryExists(ctx, r.db, "goals", name)
}

func (r *GoalRepo) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	return renameCategory(ctx, r.db, "goals", oldName, newName)
}

func (r *GoalRepo) InsertKeyResult(ctx context.Context, kr KeyResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO key_results (id, goal_id, title, progress, position) VALUES (?, ?, ?, ?, ?)
	`, kr.ID, kr.GoalID, kr.Title, kr.Progress, kr.Position)
	if err != nil {
		return fmt.Errorf("key result insert: %w", err)
	}
	return nil
}

func (r *GoalRepo) GetKeyResult(ctx context.Context, id string) (*KeyResult, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, goal_id, title, progress, position FROM key_results WHERE id = ?`, id)
	var kr KeyResult
	if err := row.Scan(&kr.ID, &kr.GoalID, &kr.Title, &kr.Progress, &kr.Position); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("key result get: %w", err)
	}
	return &kr, nil
}

func (r *GoalRepo) ListKeyResults(ctx context.Context, goalID string) ([]KeyResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, goal_id, title, progress, position
		FROM key_results WHERE goal_id = ? ORDER BY position ASC, id ASC
	`, goalID)
	if err != nil {
		return nil, fmt.Errorf("key result list: %w", err)
	}
	defer rows.Close()

	var out []KeyResult
	for rows.Next() {
		var kr KeyResult
		if err := rows.Scan(&kr.ID, &kr.GoalID, &kr.Title, &kr.Progress, &kr.Position); err != nil {
			return nil, fmt.Errorf("key result scan: %w", err)
		}
		out = append(out, kr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("key result rows: %w", err)
	}
	return out, nil
}

func (r *GoalRepo) ListAllKeyResults(ctx context.Context) ([]KeyResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, goal_id, title, progress, position
		FROM key_results ORDER BY goal_id ASC, position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("key result list all: %w", err)
	}
	defer rows.Close()

	var out []KeyResult
	for rows.Next() {
		var kr KeyResult
		if err := rows.Scan(&kr.ID, &kr.GoalID, &kr.Title, &kr.Progress, &kr.Position); err != nil {
			return nil, fmt.Errorf("key result scan: %w", err)
		}
		out = append(out, kr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("key result rows: %w", err)
	}
	return out, nil
}

func (r *GoalRepo) UpdateKeyResult(ctx context.Context, kr KeyResult) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE key_results SET title = ?, progress = ?, position = ? WHERE id = ?
	`, kr.Title, kr.Progress, kr.Position, kr.ID)
	if err != nil {
		return fmt.Errorf("key result update: %w", err)
	}
	return nil
}

func (r *GoalRepo) DeleteKeyResult(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM key_results WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("key result delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("key result delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *GoalRepo) DeleteKeyResultsByGoal(ctx context.Context, goalID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM key_results WHERE goal_id = ?`, goalID)
	if err != nil {
		return fmt.Errorf("key result delete by goal: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type InstanceRepo struct {
	db DBTX
}

func NewInstanceRepo(db DBTX) *InstanceRepo {
	return &InstanceRepo{db: db}
}

const instanceCols = `id, original_id, day, time_slot, title, category, kr_id,
	target_count, accumulated_count, completed, subtasks, last_completed_at, created_at`

func (r *InstanceRepo) Insert(ctx context.Context, in Instance) error {
	subtasksJSON, err := marshalSubtasks(in.Subtasks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO instances (
			id, original_id, day, time_slot, title, category, kr_id,
			target_count, accumulated_count, completed, subtasks, last_completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.ID, in.OriginalID, in.Day, in.TimeSlot, in.Title, in.Category, in.KRID,
		in.TargetCount, in.AccumulatedCount, boolToInt(in.Completed), subtasksJSON, in.LastCompletedAt)
	if err != nil {
		return fmt.Errorf("instance insert: %w", err)
	}
	return nil
}

func (r *InstanceRepo) Get(ctx context.Context, id string) (*Instance, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+instanceCols+` FROM instances WHERE id = ?`, id)
	return scanInstance(row)
}

func (r *InstanceRepo) GetByOriginalAndDay(ctx context.Context, templateID string, day int) (*Instance, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+instanceCols+` FROM instances WHERE original_id = ? AND day = ? LIMIT 1
	`, templateID, day)
	return scanInstance(row)
}

func (r *InstanceRepo) ListByDay(ctx context.Context, day int) ([]Instance, error) {
	return r.list(ctx, `SELECT `+instanceCols+` FROM instances WHERE day = ? ORDER BY time_slot IS NULL, time_slot ASC, created_at ASC, id ASC`, day)
}

func (r *InstanceRepo) ListByOriginal(ctx context.Context, templateID string) ([]Instance, error) {
	return r.list(ctx, `SELECT `+instanceCols+` FROM instances WHERE original_id = ? ORDER BY day ASC, id ASC`, templateID)
}

func (r *InstanceRepo) ListAll(ctx context.Context) ([]Instance, error) {
	return r.list(ctx, `SELECT `+instanceCols+` FROM instances ORDER BY day ASC, created_at ASC, id ASC`)
}

func (r *InstanceRepo) list(ctx context.Context, query string, args ...any) ([]Instance, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("instance list: %w", err)
	}
	defer rows.Close()

	var out []Instance
	for rows.Next() {
		in, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("instance list rows: %w", err)
	}
	return out, nil
}

func (r *InstanceRepo) Update(ctx context.Context, in Instance) error {
	subtasksJSON, err := marshalSubtasks(in.Subtasks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE instances
		SET original_id = ?, day = ?, time_slot = ?, title = ?, category = ?, kr_id = ?,
			target_count = ?, accumulated_count = ?, completed = ?, subtasks = ?, last_completed_at = ?
		WHERE id = ?
	`, in.OriginalID, in.Day, in.TimeSlot, in.Title, in.Category, in.KRID,
		in.TargetCount, in.AccumulatedCount, boolToInt(in.Completed), subtasksJSON, in.LastCompletedAt, in.ID)
	if err != nil {
		return fmt.Errorf("instance update: %w", err)
	}
	return nil
}

// ClearTime unschedules the instance from the planner grid without deleting it.
func (r *InstanceRepo) ClearTime(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE instances SET time_slot = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("instance clear time: %w", err)
	}
	return nil
}

func (r *InstanceRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM instances WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("instance delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("instance delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *InstanceRepo) DeleteByOriginal(ctx context.Context, templateID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM instances WHERE original_id = ?`, templateID)
	if err != nil {
		return 0, fmt.Errorf("instance delete by original: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("instance delete by original rows affected: %w", err)
	}
	return n, nil
}

func (r *InstanceRepo) ClearKR(ctx context.Context, krIDs []string) error {
	return clearKRRefs(ctx, r.db, "instances", krIDs)
}

func (r *InstanceRepo) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	return renameCategory(ctx, r.db, "instances", oldName, newName)
}

func scanInstance(row scanner) (*Instance, error) {
	var (
		in           Instance
		originalID   sql.NullString
		timeSlot     sql.NullString
		krID         sql.NullString
		targetCount  sql.NullInt64
		completed    int
		subtasksRaw  sql.NullString
		lastComplete sql.NullTime
	)
	if err := row.Scan(
		&in.ID, &originalID, &in.Day, &timeSlot, &in.Title, &in.Category, &krID,
		&targetCount, &in.AccumulatedCount, &completed, &subtasksRaw, &lastComplete, &in.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("instance scan: %w", err)
	}

	in.OriginalID = nullString(originalID)
	in.TimeSlot = nullString(timeSlot)
	in.KRID = nullString(krID)
	in.TargetCount = nullInt(targetCount)
	in.Completed = completed != 0
	in.LastCompletedAt = nullTime(lastComplete)

	subtasks, err := unmarshalSubtasks(subtasksRaw)
	if err != nil {
		return nil, err
	}
	in.Subtasks = subtasks
	return &in, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

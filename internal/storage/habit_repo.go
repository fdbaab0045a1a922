package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type HabitRepo struct {
	db DBTX
}

func NewHabitRepo(db DBTX) *HabitRepo {
	return &HabitRepo{db: db}
}

const habitCols = `id, title, category, frequency_days, frequency_times, streak,
	target_count, accumulated_count, kr_id, icon_name, color, completed_today,
	last_completed_at, hour_marks, created_at`

func (r *HabitRepo) Insert(ctx context.Context, h Habit) error {
	marksJSON, err := marshalHourMarks(h.HourMarks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO habits (
			id, title, category, frequency_days, frequency_times, streak,
			target_count, accumulated_count, kr_id, icon_name, color,
			completed_today, last_completed_at, hour_marks
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.Title, h.Category, h.FrequencyDays, h.FrequencyTimes, h.Streak,
		h.TargetCount, h.AccumulatedCount, h.KRID, h.IconName, h.Color,
		boolToInt(h.CompletedToday), h.LastCompletedAt, marksJSON)
	if err != nil {
		return fmt.Errorf("habit insert: %w", err)
	}
	return nil
}

func (r *HabitRepo) Get(ctx context.Context, id string) (*Habit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+habitCols+` FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

func (r *HabitRepo) ListAll(ctx context.Context) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+habitCols+` FROM habits ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("habit list: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("habit list rows: %w", err)
	}
	return out, nil
}

func (r *HabitRepo) Update(ctx context.Context, h Habit) error {
	marksJSON, err := marshalHourMarks(h.HourMarks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE habits
		SET title = ?, category = ?, frequency_days = ?, frequency_times = ?, streak = ?,
			target_count = ?, accumulated_count = ?, kr_id = ?, icon_name = ?, color = ?,
			completed_today = ?, last_completed_at = ?, hour_marks = ?
		WHERE id = ?
	`, h.Title, h.Category, h.FrequencyDays, h.FrequencyTimes, h.Streak,
		h.TargetCount, h.AccumulatedCount, h.KRID, h.IconName, h.Color,
		boolToInt(h.CompletedToday), h.LastCompletedAt, marksJSON, h.ID)
	if err != nil {
		return fmt.Errorf("habit update: %w", err)
	}
	return nil
}

func (r *HabitRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("habit delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("habit delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *HabitRepo) ClearKR(ctx context.Context, krIDs []string) error {
	return clearKRRefs(ctx, r.db, "habits", krIDs)
}

func (r *HabitRepo) CategoryExists(ctx context.Context, name string) (bool, error) {
	return categoryExists(ctx, r.db, "habits", name)
}

func (r *HabitRepo) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	return renameCategory(ctx, r.db, "habits", oldName, newName)
}

func scanHabit(row scanner) (*Habit, error) {
	var (
		h            Habit
		krID         sql.NullString
		completed    int
		lastComplete sql.NullTime
		marksRaw     sql.NullString
	)
	if err := row.Scan(
		&h.ID, &h.Title, &h.Category, &h.FrequencyDays, &h.FrequencyTimes, &h.Streak,
		&h.TargetCount, &h.AccumulatedCount, &krID, &h.IconName, &h.Color,
		&completed, &lastComplete, &marksRaw, &h.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("habit scan: %w", err)
	}

	h.KRID = nullString(krID)
	h.CompletedToday = completed != 0
	h.LastCompletedAt = nullTime(lastComplete)

	if marksRaw.Valid && marksRaw.String != "" {
		if err := json.Unmarshal([]byte(marksRaw.String), &h.HourMarks); err != nil {
			return nil, fmt.Errorf("unmarshal hour marks: %w", err)
		}
	}
	return &h, nil
}

func marshalHourMarks(marks []string) (*string, error) {
	if len(marks) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(marks)
	if err != nil {
		return nil, fmt.Errorf("marshal hour marks: %w", err)
	}
	s := string(data)
	return &s, nil
}

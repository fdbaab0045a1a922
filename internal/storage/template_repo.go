package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type TemplateRepo struct {
	db DBTX
}

func NewTemplateRepo(db DBTX) *TemplateRepo {
	return &TemplateRepo{db: db}
}

const templateCols = `id, title, category, kr_id, frequency_days, frequency_times,
	target_count, accumulated_count, subtasks, last_completed_at, created_at`

func (r *TemplateRepo) Insert(ctx context.Context, t Template) error {
	subtasksJSON, err := marshalSubtasks(t.Subtasks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO templates (
			id, title, category, kr_id, frequency_days, frequency_times,
			target_count, accumulated_count, subtasks, last_completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Category, t.KRID, t.FrequencyDays, t.FrequencyTimes,
		t.TargetCount, t.AccumulatedCount, subtasksJSON, t.LastCompletedAt)
	if err != nil {
		return fmt.Errorf("template insert: %w", err)
	}
	return nil
}

func (r *TemplateRepo) Get(ctx context.Context, id string) (*Template, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+templateCols+` FROM templates WHERE id = ?`, id)
	return scanTemplate(row)
}

func (r *TemplateRepo) ListAll(ctx context.Context) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templateCols+` FROM templates ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("template list: %w", err)
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template list rows: %w", err)
	}
	return out, nil
}

func (r *TemplateRepo) Update(ctx context.Context, t Template) error {
	subtasksJSON, err := marshalSubtasks(t.Subtasks)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE templates
		SET title = ?, category = ?, kr_id = ?, frequency_days = ?, frequency_times = ?,
			target_count = ?, accumulated_count = ?, subtasks = ?, last_completed_at = ?
		WHERE id = ?
	`, t.Title, t.Category, t.KRID, t.FrequencyDays, t.FrequencyTimes,
		t.TargetCount, t.AccumulatedCount, subtasksJSON, t.LastCompletedAt, t.ID)
	if err != nil {
		return fmt.Errorf("template update: %w", err)
	}
	return nil
}

// UpdateProgress mirrors completion state from an instance back onto its template.
func (r *TemplateRepo) UpdateProgress(ctx context.Context, id string, accumulated int, lastCompletedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE templates SET accumulated_count = ?, last_completed_at = ? WHERE id = ?
	`, accumulated, lastCompletedAt, id)
	if err != nil {
		return fmt.Errorf("template update progress: %w", err)
	}
	return nil
}

func (r *TemplateRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("template delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("template delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *TemplateRepo) ClearKR(ctx context.Context, krIDs []string) error {
	return clearKRRefs(ctx, r.db, "templates", krIDs)
}

func (r *TemplateRepo) CategoryExists(ctx context.Context, name string) (bool, error) {
	return categoryExists(ctx, r.db, "templates", name)
}

func (r *TemplateRepo) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	return renameCategory(ctx, r.db, "templates", oldName, newName)
}

func scanTemplate(row scanner) (*Template, error) {
	var (
		t            Template
		krID         sql.NullString
		freqDays     sql.NullInt64
		freqTimes    sql.NullInt64
		targetCount  sql.NullInt64
		subtasksRaw  sql.NullString
		lastComplete sql.NullTime
	)
	if err := row.Scan(
		&t.ID, &t.Title, &t.Category, &krID, &freqDays, &freqTimes,
		&targetCount, &t.AccumulatedCount, &subtasksRaw, &lastComplete, &t.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("template scan: %w", err)
	}

	t.KRID = nullString(krID)
	t.FrequencyDays = nullInt(freqDays)
	t.FrequencyTimes = nullInt(freqTimes)
	t.TargetCount = nullInt(targetCount)
	t.LastCompletedAt = nullTime(lastComplete)

	subtasks, err := unmarshalSubtasks(subtasksRaw)
	if err != nil {
		return nil, err
	}
	t.Subtasks = subtasks
	return &t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func marshalSubtasks(subtasks []Subtask) (*string, error) {
	if len(subtasks) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(subtasks)
	if err != nil {
		return nil, fmt.Errorf("marshal subtasks: %w", err)
	}
	s := string(data)
	return &s, nil
}

func unmarshalSubtasks(raw sql.NullString) ([]Subtask, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var subtasks []Subtask
	if err := json.Unmarshal([]byte(raw.String), &subtasks); err != nil {
		return nil, fmt.Errorf("unmarshal subtasks: %w", err)
	}
	return subtasks, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func clearKRRefs(ctx context.Context, db DBTX, table string, krIDs []string) error {
	if len(krIDs) == 0 {
		return nil
	}
	placeholders := ""
	args := make([]any, 0, len(krIDs))
	for i, id := range krIDs {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, id)
	}
	_, err := db.ExecContext(ctx, `UPDATE `+table+` SET kr_id = NULL WHERE kr_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("%s clear kr refs: %w", table, err)
	}
	return nil
}

func categoryExists(ctx context.Context, db DBTX, table string, name string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE category = ? LIMIT 1`, name)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("%s category exists: %w", table, err)
	}
	return true, nil
}

func renameCategory(ctx context.Context, db DBTX, table string, oldName, newName string) (int64, error) {
	res, err := db.ExecContext(ctx, `UPDATE `+table+` SET category = ? WHERE category = ?`, newName, oldName)
	if err != nil {
		return 0, fmt.Errorf("%s rename category: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rename category rows affected: %w", table, err)
	}
	return n, nil
}

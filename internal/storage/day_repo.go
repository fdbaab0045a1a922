package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DayRepo covers day records (reflection text) and their score entries.
type DayRepo struct {
	db DBTX
}

func NewDayRepo(db DBTX) *DayRepo {
	return &DayRepo{db: db}
}

func (r *DayRepo) Get(ctx context.Context, date int) (*Day, error) {
	row := r.db.QueryRowContext(ctx, `SELECT date, weekday, full_date, reflection FROM days WHERE date = ?`, date)
	var (
		d          Day
		reflection sql.NullString
	)
	if err := row.Scan(&d.Date, &d.Weekday, &d.FullDate, &reflection); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("day get: %w", err)
	}
	d.Reflection = nullString(reflection)
	return &d, nil
}

// Ensure creates the day row if missing, keeping an existing row's
// reflection untouched.
func (r *DayRepo) Ensure(ctx context.Context, date int, weekday, fullDate string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO days (date, weekday, full_date) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET weekday = excluded.weekday, full_date = excluded.full_date
	`, date, weekday, fullDate)
	if err != nil {
		return fmt.Errorf("day ensure: %w", err)
	}
	return nil
}

func (r *DayRepo) ListAll(ctx context.Context) ([]Day, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date, weekday, full_date, reflection FROM days ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("day list: %w", err)
	}
	defer rows.Close()

	var out []Day
	for rows.Next() {
		var (
			d          Day
			reflection sql.NullString
		)
		if err := rows.Scan(&d.Date, &d.Weekday, &d.FullDate, &reflection); err != nil {
			return nil, fmt.Errorf("day scan: %w", err)
		}
		d.Reflection = nullString(reflection)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("day rows: %w", err)
	}
	return out, nil
}

func (r *DayRepo) SetReflection(ctx context.Context, date int, text string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE days SET reflection = ? WHERE date = ?`, text, date)
	if err != nil {
		return fmt.Errorf("day set reflection: %w", err)
	}
	return nil
}

func (r *DayRepo) UpsertScore(ctx context.Context, s DayScore) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO day_scores (day, definition_id, value) VALUES (?, ?, ?)
		ON CONFLICT(day, definition_id) DO UPDATE SET value = excluded.value
	`, s.Day, s.DefinitionID, s.Value)
	if err != nil {
		return fmt.Errorf("day score upsert: %w", err)
	}
	return nil
}

func (r *DayRepo) ListScores(ctx context.Context, date int) ([]DayScore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, definition_id, value FROM day_scores WHERE day = ? ORDER BY definition_id ASC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("day score list: %w", err)
	}
	defer rows.Close()

	var out []DayScore
	for rows.Next() {
		var s DayScore
		if err := rows.Scan(&s.Day, &s.DefinitionID, &s.Value); err != nil {
			return nil, fmt.Errorf("day score scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("day score rows: %w", err)
	}
	return out, nil
}

func (r *DayRepo) ListAllScores(ctx context.Context) ([]DayScore, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, definition_id, value FROM day_scores ORDER BY day ASC, definition_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("day score list all: %w", err)
	}
	defer rows.Close()

	var out []DayScore
	for rows.Next() {
		var s DayScore
		if err := rows.Scan(&s.Day, &s.DefinitionID, &s.Value); err != nil {
			return nil, fmt.Errorf("day score scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("day score rows: %w", err)
	}
	return out, nil
}

func (r *DayRepo) DailyTotal(ctx context.Context, date int) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(value), 0) FROM day_scores WHERE day = ?`, date)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("day score total: %w", err)
	}
	return total, nil
}

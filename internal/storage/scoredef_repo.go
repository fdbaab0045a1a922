package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

type ScoreDefRepo struct {
	db DBTX
}

func NewScoreDefRepo(db DBTX) *ScoreDefRepo {
	return &ScoreDefRepo{db: db}
}

func (r *ScoreDefRepo) Insert(ctx context.Context, def ScoreDefinition) error {
	labelsJSON, err := marshalScoreLabels(def.Labels)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO score_defs (id, label, labels) VALUES (?, ?, ?)
	`, def.ID, def.Label, labelsJSON)
	if err != nil {
		return fmt.Errorf("score def insert: %w", err)
	}
	return nil
}

func (r *ScoreDefRepo) Get(ctx context.Context, id string) (*ScoreDefinition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, label, labels FROM score_defs WHERE id = ?`, id)
	return scanScoreDef(row)
}

func (r *ScoreDefRepo) ListAll(ctx context.Context) ([]ScoreDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, labels FROM score_defs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("score def list: %w", err)
	}
	defer rows.Close()

	var out []ScoreDefinition
	for rows.Next() {
		def, err := scanScoreDef(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("score def rows: %w", err)
	}
	return out, nil
}

func (r *ScoreDefRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM score_defs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("score def delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("score def delete rows affected: %w", err)
	}
	return n > 0, nil
}

func scanScoreDef(row scanner) (*ScoreDefinition, error) {
	var (
		def       ScoreDefinition
		labelsRaw sql.NullString
	)
	if err := row.Scan(&def.ID, &def.Label, &labelsRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("score def scan: %w", err)
	}
	labels, err := unmarshalScoreLabels(labelsRaw)
	if err != nil {
		return nil, err
	}
	def.Labels = labels
	return &def, nil
}

// JSON object keys must be strings, so the -2..2 labels map round-trips
// through string keys.
func marshalScoreLabels(labels map[int]string) (*string, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	byKey := make(map[string]string, len(labels))
	for k, v := range labels {
		byKey[strconv.Itoa(k)] = v
	}
	data, err := json.Marshal(byKey)
	if err != nil {
		return nil, fmt.Errorf("marshal score labels: %w", err)
	}
	s := string(data)
	return &s, nil
}

func unmarshalScoreLabels(raw sql.NullString) (map[int]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var byKey map[string]string
	if err := json.Unmarshal([]byte(raw.String), &byKey); err != nil {
		return nil, fmt.Errorf("unmarshal score labels: %w", err)
	}
	labels := make(map[int]string, len(byKey))
	for k, v := range byKey {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("score label key %q: %w", k, err)
		}
		labels[n] = v
	}
	return labels, nil
}

// Package backup exports and restores the full database as a YAML snapshot.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"dayflow/internal/storage"
)

// Snapshot is the portable on-disk form of everything dayflow stores.
type Snapshot struct {
	Version    int                       `yaml:"version"`
	Templates  []storage.Template        `yaml:"templates,omitempty"`
	Instances  []storage.Instance        `yaml:"instances,omitempty"`
	Habits     []storage.Habit           `yaml:"habits,omitempty"`
	Goals      []storage.Goal            `yaml:"goals,omitempty"`
	KeyResults []storage.KeyResult       `yaml:"key_results,omitempty"`
	Days       []storage.Day             `yaml:"days,omitempty"`
	Scores     []storage.DayScore        `yaml:"scores,omitempty"`
	ScoreDefs  []storage.ScoreDefinition `yaml:"score_definitions,omitempty"`
}

const snapshotVersion = 1

// Export writes the whole database to w as YAML.
func Export(ctx context.Context, db *sql.DB, w io.Writer) error {
	snap := Snapshot{Version: snapshotVersion}
	var err error

	if snap.Templates, err = storage.NewTemplateRepo(db).ListAll(ctx); err != nil {
		return err
	}
	if snap.Instances, err = storage.NewInstanceRepo(db).ListAll(ctx); err != nil {
		return err
	}
	if snap.Habits, err = storage.NewHabitRepo(db).ListAll(ctx); err != nil {
		return err
	}
	goals := storage.NewGoalRepo(db)
	if snap.Goals, err = goals.ListAll(ctx); err != nil {
		return err
	}
	if snap.KeyResults, err = goals.ListAllKeyResults(ctx); err != nil {
		return err
	}
	days := storage.NewDayRepo(db)
	if snap.Days, err = days.ListAll(ctx); err != nil {
		return err
	}
	if snap.Scores, err = days.ListAllScores(ctx); err != nil {
		return err
	}
	if snap.ScoreDefs, err = storage.NewScoreDefRepo(db).ListAll(ctx); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

// Import replaces the database contents with the snapshot read from r. The
// wipe and every insert run in one transaction, so a malformed snapshot
// leaves the database untouched.
func Import(ctx context.Context, db *sql.DB, r io.Reader) error {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	return storage.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := storage.Wipe(ctx, tx); err != nil {
			return err
		}

		templates := storage.NewTemplateRepo(tx)
		for _, t := range snap.Templates {
			if err := templates.Insert(ctx, t); err != nil {
				return err
			}
		}
		instances := storage.NewInstanceRepo(tx)
		for _, in := range snap.Instances {
			if err := instances.Insert(ctx, in); err != nil {
				return err
			}
		}
		habits := storage.NewHabitRepo(tx)
		for _, h := range snap.Habits {
			if err := habits.Insert(ctx, h); err != nil {
				return err
			}
		}
		goals := storage.NewGoalRepo(tx)
		for _, g := range snap.Goals {
			if err := goals.Insert(ctx, g); err != nil {
				return err
			}
		}
		for _, kr := range snap.KeyResults {
			if err := goals.InsertKeyResult(ctx, kr); err != nil {
				return err
			}
		}
		defs := storage.NewScoreDefRepo(tx)
		for _, def := range snap.ScoreDefs {
			if err := defs.Insert(ctx, def); err != nil {
				return err
			}
		}
		days := storage.NewDayRepo(tx)
		for _, d := range snap.Days {
			if err := days.Ensure(ctx, d.Date, d.Weekday, d.FullDate); err != nil {
				return err
			}
			if d.Reflection != nil {
				if err := days.SetReflection(ctx, d.Date, *d.Reflection); err != nil {
					return err
				}
			}
		}
		for _, sc := range snap.Scores {
			if err := days.UpsertScore(ctx, sc); err != nil {
				return err
			}
		}
		return nil
	})
}

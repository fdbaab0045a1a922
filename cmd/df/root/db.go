package root

import (
	"context"
	"database/sql"
	"fmt"

	"dayflow/internal/config"
	"dayflow/internal/engine"
	"dayflow/internal/storage"
)

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	db, cleanup, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	strategy, err := engine.ParseProgressStrategy(cfg.Progress.Strategy)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	svc := engine.NewService(db).WithDefaultStrategy(strategy)
	return svc, cfg, cleanup, nil
}

// parsePlannerHour parses an --at value and checks it against the configured
// planner range.
func parsePlannerHour(cfg *config.Config, at string) (*int, error) {
	if at == "" {
		return nil, nil
	}
	hour, err := engine.ParseHourSlot(at)
	if err != nil {
		return nil, err
	}
	if hour < cfg.Planner.StartHour || hour > cfg.Planner.EndHour {
		return nil, fmt.Errorf("hour %d outside planner range [%d, %d]", hour, cfg.Planner.StartHour, cfg.Planner.EndHour)
	}
	return &hour, nil
}

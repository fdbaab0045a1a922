package engine

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"dayflow/internal/storage"
)

type Service struct {
	db        *sql.DB
	templates *storage.TemplateRepo
	instances *storage.InstanceRepo
	habits    *storage.HabitRepo
	goals     *storage.GoalRepo
	days      *storage.DayRepo
	scoreDefs *storage.ScoreDefRepo

	strategy ProgressStrategy
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:        db,
		templates: storage.NewTemplateRepo(db),
		instances: storage.NewInstanceRepo(db),
		habits:    storage.NewHabitRepo(db),
		goals:     storage.NewGoalRepo(db),
		days:      storage.NewDayRepo(db),
		scoreDefs: storage.NewScoreDefRepo(db),
		strategy:  StrategyCounterSum,
	}
}

// WithDefaultStrategy sets the aggregation strategy used when callers pass
// StrategyDefault.
func (s *Service) WithDefaultStrategy(strategy ProgressStrategy) *Service {
	if strategy.IsValid() {
		s.strategy = strategy
	}
	return s
}

func (s *Service) DB() *sql.DB                         { return s.db }
func (s *Service) TemplateRepo() *storage.TemplateRepo { return s.templates }
func (s *Service) InstanceRepo() *storage.InstanceRepo { return s.instances }
func (s *Service) HabitRepo() *storage.HabitRepo       { return s.habits }
func (s *Service) GoalRepo() *storage.GoalRepo         { return s.goals }
func (s *Service) DayRepo() *storage.DayRepo           { return s.days }
func (s *Service) ScoreDefRepo() *storage.ScoreDefRepo { return s.scoreDefs }

// txStores binds every repo to one transaction for compound mutations.
type txStores struct {
	templates *storage.TemplateRepo
	instances *storage.InstanceRepo
	habits    *storage.HabitRepo
	goals     *storage.GoalRepo
	days      *storage.DayRepo
	scoreDefs *storage.ScoreDefRepo
}

func newTxStores(tx *sql.Tx) txStores {
	return txStores{
		templates: storage.NewTemplateRepo(tx),
		instances: storage.NewInstanceRepo(tx),
		habits:    storage.NewHabitRepo(tx),
		goals:     storage.NewGoalRepo(tx),
		days:      storage.NewDayRepo(tx),
		scoreDefs: storage.NewScoreDefRepo(tx),
	}
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}

// dayMeta derives the weekday and full date labels for a day-of-month in the
// current calendar month.
func dayMeta(date int) (weekday string, fullDate string) {
	now := time.Now()
	d := time.Date(now.Year(), now.Month(), date, 0, 0, 0, 0, time.Local)
	return d.Format("Mon"), d.Format("2006-01-02")
}

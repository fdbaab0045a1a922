package engine

import (
	"context"

	"github.com/google/uuid"

	"dayflow/internal/storage"
)

// defaultScoreLabels mirror what a new definition ships with.
var defaultScoreLabels = map[int]string{
	-2: "Far below expectations",
	-1: "Below expectations",
	0:  "Neutral",
	1:  "Above expectations",
	2:  "Far above expectations",
}

// CreateScoreDefinition registers a new scoring dimension. Labels may be nil,
// in which case a generic set is installed.
func (s *Service) CreateScoreDefinition(ctx context.Context, label string, labels map[int]string) (*storage.ScoreDefinition, error) {
	l, err := normalizeTitle(label)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = defaultScoreLabels
	}
	def := storage.ScoreDefinition{
		ID:     uuid.NewString(),
		Label:  l,
		Labels: labels,
	}
	if err := s.scoreDefs.Insert(ctx, def); err != nil {
		return nil, err
	}
	return &def, nil
}

// EnsureDefaultScoreDefinition installs the built-in "Focus" dimension the
// first time a database is used. Returns the definition that ended up in
// place, new or preexisting.
func (s *Service) EnsureDefaultScoreDefinition(ctx context.Context) (*storage.ScoreDefinition, error) {
	defs, err := s.scoreDefs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(defs) > 0 {
		return &defs[0], nil
	}
	return s.CreateScoreDefinition(ctx, "Focus", nil)
}

// SetDailyScore records a value for one dimension on one day, replacing any
// previous value. Values outside [-2, 2] are rejected outright.
func (s *Service) SetDailyScore(ctx context.Context, date int, definitionID string, value int) error {
	if value < ScoreMin || value > ScoreMax {
		return InvalidScoreValueError{Value: value}
	}
	if err := validateDay(date); err != nil {
		return err
	}

	def, err := s.scoreDefs.Get(ctx, definitionID)
	if err != nil {
		return err
	}
	if def == nil {
		return NotFoundError{Kind: "score definition", ID: definitionID}
	}

	weekday, fullDate := dayMeta(date)
	if err := s.days.Ensure(ctx, date, weekday, fullDate); err != nil {
		return err
	}
	return s.days.UpsertScore(ctx, storage.DayScore{
		Day:          date,
		DefinitionID: definitionID,
		Value:        value,
	})
}

// DailyTotal sums every dimension's score for the day. Days with no scores
// total zero.
func (s *Service) DailyTotal(ctx context.Context, date int) (int, error) {
	if err := validateDay(date); err != nil {
		return 0, err
	}
	return s.days.DailyTotal(ctx, date)
}

// SetReflection attaches free-form notes to a day.
func (s *Service) SetReflection(ctx context.Context, date int, text string) error {
	if err := validateDay(date); err != nil {
		return err
	}
	weekday, fullDate := dayMeta(date)
	if err := s.days.Ensure(ctx, date, weekday, fullDate); err != nil {
		return err
	}
	return s.days.SetReflection(ctx, date, text)
}

// DayReview bundles everything the review view needs for one day.
type DayReview struct {
	Day    storage.Day
	Scores []storage.DayScore
	Total  int
}

func (s *Service) ReviewDay(ctx context.Context, date int) (*DayReview, error) {
	if err := validateDay(date); err != nil {
		return nil, err
	}
	d, err := s.days.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	if d == nil {
		weekday, fullDate := dayMeta(date)
		d = &storage.Day{Date: date, Weekday: weekday, FullDate: fullDate}
	}
	scores, err := s.days.ListScores(ctx, date)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, sc := range scores {
		total += sc.Value
	}
	return &DayReview{Day: *d, Scores: scores, Total: total}, nil
}

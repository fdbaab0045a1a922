package engine

import (
	"context"
	"sort"
	"time"

	"dayflow/internal/storage"
)

// EnsureMonthDays creates the day rows for the current calendar month with
// their weekday and date labels. Existing rows keep their reflections.
func (s *Service) EnsureMonthDays(ctx context.Context) error {
	now := time.Now()
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.Local).Day()
	for d := 1; d <= last; d++ {
		weekday, fullDate := dayMeta(d)
		if err := s.days.Ensure(ctx, d, weekday, fullDate); err != nil {
			return err
		}
	}
	return nil
}

// DayView is everything rendered for one calendar day: persisted instances,
// unpersisted cyclic appearances, and the habit roster.
type DayView struct {
	Day       int
	Weekday   string
	FullDate  string
	Instances []storage.Instance
	Habits    []storage.Habit
	Total     int
}

// BuildDayView assembles the day's agenda. Persisted instances come first in
// planner-slot order, then synthesized cyclic ones by title.
func (s *Service) BuildDayView(ctx context.Context, day int) (*DayView, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	persisted, err := s.instances.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	cyclic, err := s.MaterializeCyclicInstances(ctx, day)
	if err != nil {
		return nil, err
	}
	sort.Slice(cyclic, func(i, j int) bool { return cyclic[i].Title < cyclic[j].Title })

	habits, err := s.habits.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.days.DailyTotal(ctx, day)
	if err != nil {
		return nil, err
	}

	weekday, fullDate := dayMeta(day)
	return &DayView{
		Day:       day,
		Weekday:   weekday,
		FullDate:  fullDate,
		Instances: append(persisted, cyclic...),
		Habits:    habits,
		Total:     total,
	}, nil
}

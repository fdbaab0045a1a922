package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dayflow/internal/storage"
)

type CreateTemplateInput struct {
	Title       string
	Category    string
	KRID        *string
	Cadence     *Cadence // nil for one-off templates
	TargetCount *int     // nil for single-step completion
	Subtasks    []string // subtask titles, in order
}

type CreateFreeInstanceInput struct {
	Title       string
	Category    string
	Day         int
	TimeSlot    *string // "HH:00", nil for unscheduled
	KRID        *string
	TargetCount *int
}

type CreateHabitInput struct {
	Title       string
	Category    string
	Cadence     Cadence
	TargetCount int
	KRID        *string
	IconName    string
	Color       string
}

type CreateGoalInput struct {
	Title    string
	Category string
}

const (
	defaultHabitIcon  = "Star"
	defaultHabitColor = "#0ea5e9"
)

// CreateTemplate adds a reusable task to the library.
func (s *Service) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*storage.Template, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Cadence != nil && !in.Cadence.IsValid() {
		return nil, InvalidCadenceError{Days: in.Cadence.Days, Times: in.Cadence.Times}
	}
	if err := s.checkKeyResultRef(ctx, in.KRID); err != nil {
		return nil, err
	}

	t := storage.Template{
		ID:          uuid.NewString(),
		Title:       title,
		Category:    in.Category,
		KRID:        in.KRID,
		TargetCount: in.TargetCount,
	}
	if in.Cadence != nil {
		days, times := in.Cadence.Days, in.Cadence.Times
		t.FrequencyDays = &days
		t.FrequencyTimes = &times
	}
	for _, st := range in.Subtasks {
		t.Subtasks = append(t.Subtasks, storage.Subtask{ID: uuid.NewString(), Title: st})
	}

	if err := s.templates.Insert(ctx, t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateFreeInstance adds a freestanding (temporary) task directly onto a day,
// with no template behind it.
func (s *Service) CreateFreeInstance(ctx context.Context, in CreateFreeInstanceInput) (*storage.Instance, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := validateDay(in.Day); err != nil {
		return nil, err
	}
	if err := s.checkKeyResultRef(ctx, in.KRID); err != nil {
		return nil, err
	}

	inst := storage.Instance{
		ID:          uuid.NewString(),
		Day:         in.Day,
		TimeSlot:    in.TimeSlot,
		Title:       title,
		Category:    in.Category,
		KRID:        in.KRID,
		TargetCount: in.TargetCount,
	}
	if err := s.instances.Insert(ctx, inst); err != nil {
		return nil, err
	}
	return &inst, nil
}

func (s *Service) CreateHabit(ctx context.Context, in CreateHabitInput) (*storage.Habit, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Cadence.IsValid() {
		return nil, InvalidCadenceError{Days: in.Cadence.Days, Times: in.Cadence.Times}
	}
	if err := s.checkKeyResultRef(ctx, in.KRID); err != nil {
		return nil, err
	}

	target := in.TargetCount
	if target < 1 {
		target = 1
	}
	icon := in.IconName
	if icon == "" {
		icon = defaultHabitIcon
	}
	color := in.Color
	if color == "" {
		color = defaultHabitColor
	}

	h := storage.Habit{
		ID:             uuid.NewString(),
		Title:          title,
		Category:       in.Category,
		FrequencyDays:  in.Cadence.Days,
		FrequencyTimes: in.Cadence.Times,
		TargetCount:    target,
		KRID:           in.KRID,
		IconName:       icon,
		Color:          color,
	}
	if err := s.habits.Insert(ctx, h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Service) CreateGoal(ctx context.Context, in CreateGoalInput) (*storage.Goal, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	g := storage.Goal{
		ID:       uuid.NewString(),
		Title:    title,
		Category: in.Category,
	}
	if err := s.goals.Insert(ctx, g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) checkKeyResultRef(ctx context.Context, krID *string) error {
	if krID == nil {
		return nil
	}
	kr, err := s.goals.GetKeyResult(ctx, *krID)
	if err != nil {
		return err
	}
	if kr == nil {
		return NotFoundError{Kind: "key result", ID: *krID}
	}
	return nil
}

func validateDay(day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("day %d out of range [1, 31]", day)
	}
	return nil
}

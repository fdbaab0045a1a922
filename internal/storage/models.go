package storage

import "time"

// Subtask is an ordered checklist entry on a template or instance.
// Stored as JSON inside the owning row.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Template is a reusable library task, not bound to a date.
type Template struct {
	ID               string
	Title            string
	Category         string
	KRID             *string
	FrequencyDays    *int
	FrequencyTimes   *int
	TargetCount      *int
	AccumulatedCount int
	Subtasks         []Subtask
	LastCompletedAt  *time.Time
	CreatedAt        time.Time
}

// Instance is a task materialized onto a calendar day. OriginalID is a weak
// back-reference to the template it was derived from; freestanding instances
// have none. Its ID is always distinct from the template's.
type Instance struct {
	ID               string
	OriginalID       *string
	Day              int
	TimeSlot         *string // "HH:00" planner slot
	Title            string
	Category         string
	KRID             *string
	TargetCount      *int
	AccumulatedCount int
	Completed        bool
	Subtasks         []Subtask
	LastCompletedAt  *time.Time
	CreatedAt        time.Time

	// IsCyclic marks instances synthesized by the cadence evaluator.
	// Never persisted.
	IsCyclic bool
}

type Habit struct {
	ID               string
	Title            string
	Category         string
	FrequencyDays    int
	FrequencyTimes   int
	Streak           int
	TargetCount      int
	AccumulatedCount int
	KRID             *string
	IconName         string
	Color            string
	CompletedToday   bool
	LastCompletedAt  *time.Time
	HourMarks        []string // "HH:00" slots the habit was checked off at
	CreatedAt        time.Time
}

type Goal struct {
	ID        string
	Title     string
	Category  string
	CreatedAt time.Time
}

type KeyResult struct {
	ID       string
	GoalID   string
	Title    string
	Progress int // stored 0-100 value; reads usually report the derived aggregate
	Position int
}

type Day struct {
	Date       int
	Weekday    string
	FullDate   string
	Reflection *string
}

type DayScore struct {
	Day          int
	DefinitionID string
	Value        int // -2..2
}

type ScoreDefinition struct {
	ID     string
	Label  string
	Labels map[int]string // value -> descriptive text for -2..2
}

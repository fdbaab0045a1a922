package engine

// Cadence is the "N times every M days" recurrence rule attached to a
// template or habit.
type Cadence struct {
	Days  int
	Times int
}

func (c Cadence) IsValid() bool {
	return c.Days > 0 && c.Times > 0
}

// ProgressStrategy selects how key result progress is aggregated.
type ProgressStrategy string

const (
	// StrategyCounterSum is the canonical formula:
	// round(100 * sum(accumulated) / sum(target)).
	StrategyCounterSum ProgressStrategy = "counter_sum"
	// StrategyHeadCount is the completed-items / total-items ratio.
	StrategyHeadCount ProgressStrategy = "head_count"
	// StrategyDefault resolves to the service's configured strategy.
	StrategyDefault ProgressStrategy = ""
)

func (s ProgressStrategy) IsValid() bool {
	switch s {
	case StrategyCounterSum, StrategyHeadCount:
		return true
	default:
		return false
	}
}

// CategoryFamily names an independent category namespace.
type CategoryFamily string

const (
	FamilyTask  CategoryFamily = "task"
	FamilyHabit CategoryFamily = "habit"
	FamilyGoal  CategoryFamily = "goal"
)

func (f CategoryFamily) IsValid() bool {
	switch f {
	case FamilyTask, FamilyHabit, FamilyGoal:
		return true
	default:
		return false
	}
}

const (
	// ScoreMin and ScoreMax bound daily self-score values.
	ScoreMin = -2
	ScoreMax = 2
)

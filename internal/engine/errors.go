package engine

import (
	"errors"
	"fmt"
)

// NotFoundError indicates an operation referenced an id that is not in the
// relevant store. Callers treat it as a no-op-with-signal, not a crash.
type NotFoundError struct {
	Kind string // "template", "instance", "habit", "goal", "key result", ...
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// InvalidScoreValueError is returned for a daily score write outside [-2, 2].
// Out-of-range values fail instead of being clamped.
type InvalidScoreValueError struct {
	Value int
}

func (e InvalidScoreValueError) Error() string {
	return fmt.Sprintf("score value %d outside [%d, %d]", e.Value, ScoreMin, ScoreMax)
}

// InvalidCadenceError is returned when a non-positive frequency is supplied.
type InvalidCadenceError struct {
	Days  int
	Times int
}

func (e InvalidCadenceError) Error() string {
	return fmt.Sprintf("invalid cadence: %d times every %d days", e.Times, e.Days)
}

// DuplicateCategoryError is returned when a category rename collides with an
// existing category in the same entity family.
type DuplicateCategoryError struct {
	Family CategoryFamily
	Name   string
}

func (e DuplicateCategoryError) Error() string {
	return fmt.Sprintf("category %q already exists in %s namespace", e.Name, e.Family)
}

package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseProgressStrategy parses user/config input to a ProgressStrategy.
// Empty input means "use the configured default".
func ParseProgressStrategy(input string) (ProgressStrategy, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return StrategyDefault, nil
	}
	st := ProgressStrategy(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid progress strategy: %q", input)
	}
	return st, nil
}

// ParseCategoryFamily parses "task", "habit" or "goal".
func ParseCategoryFamily(input string) (CategoryFamily, error) {
	f := CategoryFamily(strings.TrimSpace(strings.ToLower(input)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid category family: %q", input)
	}
	return f, nil
}

// FormatHourSlot renders an hour-of-day as the "HH:00" planner slot label.
func FormatHourSlot(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ParseHourSlot parses "HH:00" (or a bare hour like "9") to an hour-of-day.
func ParseHourSlot(input string) (int, error) {
	s := strings.TrimSpace(input)
	if h, rest, found := strings.Cut(s, ":"); found {
		if rest != "00" {
			return 0, fmt.Errorf("invalid time slot %q: only HH:00 granularity is supported", input)
		}
		s = h
	}
	hour, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time slot %q", input)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range [0, 23]", hour)
	}
	return hour, nil
}

package engine

import "testing"

func TestParseHourSlot(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"9", 9, false},
		{"09:00", 9, false},
		{"23:00", 23, false},
		{"0", 0, false},
		{"24", 0, true},
		{"-1", 0, true},
		{"09:30", 0, true},
		{"abc", 0, true},
	}
	for _, c := range cases {
		got, err := ParseHourSlot(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseHourSlot(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHourSlot(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHourSlot(%q)=%d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatHourSlot(t *testing.T) {
	if got := FormatHourSlot(7); got != "07:00" {
		t.Fatalf("FormatHourSlot(7)=%q", got)
	}
	if got := FormatHourSlot(22); got != "22:00" {
		t.Fatalf("FormatHourSlot(22)=%q", got)
	}
}

func TestParseProgressStrategy(t *testing.T) {
	if got, err := ParseProgressStrategy(""); err != nil || got != StrategyDefault {
		t.Fatalf("empty: %v %v", got, err)
	}
	if got, err := ParseProgressStrategy("Counter_Sum"); err != nil || got != StrategyCounterSum {
		t.Fatalf("counter_sum: %v %v", got, err)
	}
	if got, err := ParseProgressStrategy("head_count"); err != nil || got != StrategyHeadCount {
		t.Fatalf("head_count: %v %v", got, err)
	}
	if _, err := ParseProgressStrategy("bogus"); err == nil {
		t.Fatalf("expected error for bogus strategy")
	}
}

func TestParseCategoryFamily(t *testing.T) {
	if got, err := ParseCategoryFamily("Task"); err != nil || got != FamilyTask {
		t.Fatalf("task: %v %v", got, err)
	}
	if _, err := ParseCategoryFamily("project"); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestRecursOnAnchoredToDayOne(t *testing.T) {
	for _, day := range []int{1, 4, 7, 31} {
		if !recursOn(3, day) {
			t.Errorf("recursOn(3, %d)=false, want true", day)
		}
	}
	for _, day := range []int{2, 3, 5, 30} {
		if recursOn(3, day) {
			t.Errorf("recursOn(3, %d)=true, want false", day)
		}
	}
	if recursOn(0, 1) {
		t.Errorf("non-positive frequency must never recur")
	}
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dayflow theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconTask    = "📝"
	IconCycle   = "🔁"
	IconHabit   = "🔥"
	IconGoal    = "🎯"
	IconDone    = "✅"
	IconOpen    = "⬜"
	IconClock   = "🕐"
	IconPlus    = "➕"
	IconScore   = "📊"
	IconPen     = "✍️"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconSparkle = "✨"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// CheckIcon renders completion state for list rows.
func CheckIcon(done bool) string {
	if done {
		return IconDone
	}
	return IconOpen
}

// Counter renders "cur/target" progress, colored once the target is met.
func Counter(cur, target int) string {
	s := fmt.Sprintf("%d/%d", cur, target)
	if target > 0 && cur >= target {
		return Good.Render(s)
	}
	return Muted.Render(s)
}

// ProgressBar renders a fixed-width percentage bar for goal views.
func ProgressBar(pct int, width int) string {
	if width <= 0 {
		width = 10
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := Muted
	switch {
	case pct >= 100:
		style = Good
	case pct >= 50:
		style = H2
	case pct > 0:
		style = Warn
	}
	return fmt.Sprintf("%s %3d%%", style.Render(bar), pct)
}

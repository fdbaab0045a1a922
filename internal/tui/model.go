package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayflow/internal/engine"
	"dayflow/internal/storage"
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service
	day int

	startHour int
	endHour   int

	width  int
	height int

	view *engine.DayView

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	view *engine.DayView
	err  error
}

type toggledMsg struct {
	label string
	err   error
}

func newBoardModel(ctx context.Context, svc *engine.Service, day, startHour, endHour int) boardModel {
	return boardModel{
		ctx:       ctx,
		svc:       svc,
		day:       day,
		startHour: startHour,
		endHour:   endHour,
		loading:   true,
		lastLog:   "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := m.svc.BuildDayView(m.ctx, m.day)
		return loadedMsg{view: view, err: err}
	}
}

func (m boardModel) toggleInstanceCmd(in storage.Instance) tea.Cmd {
	return func() tea.Msg {
		// Cyclic rows are adopted into real instances before toggling.
		id, err := m.svc.ResolveInstanceID(m.ctx, in.ID)
		if err != nil {
			return toggledMsg{err: err}
		}
		res, err := m.svc.ToggleInstance(m.ctx, id, nil)
		if err != nil {
			return toggledMsg{err: err}
		}
		state := "open"
		if res.Completed {
			state = "done"
		}
		return toggledMsg{label: fmt.Sprintf("%s: %d, %s", in.Title, res.AccumulatedCount, state)}
	}
}

func (m boardModel) toggleHabitCmd(h storage.Habit) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleHabit(m.ctx, h.ID, nil)
		if err != nil {
			return toggledMsg{err: err}
		}
		label := fmt.Sprintf("%s: %d/%d", h.Title, res.AccumulatedCount, h.TargetCount)
		if res.StreakAdvanced {
			label += fmt.Sprintf(" (streak %d)", res.Streak)
		}
		return toggledMsg{label: label}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.view = msg.view
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.label
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < m.rowCount()-1 {
				m.selected++
			}
			return m, nil
		case "left", "h":
			if m.day > 1 {
				m.day--
				m.loading = true
				return m, m.loadCmd()
			}
			return m, nil
		case "right", "l":
			if m.day < 31 {
				m.day++
				m.loading = true
				return m, m.loadCmd()
			}
			return m, nil
		case "enter", " ", "c":
			rows := m.rows()
			if m.selected < 0 || m.selected >= len(rows) {
				return m, nil
			}
			row := rows[m.selected]
			switch {
			case row.inst != nil:
				return m, m.toggleInstanceCmd(*row.inst)
			case row.habit != nil:
				return m, m.toggleHabitCmd(*row.habit)
			}
			return m, nil
		}
	}
	return m, nil
}

// boardRow is one selectable line of the day grid.
type boardRow struct {
	inst  *storage.Instance
	habit *storage.Habit
}

// rows lists the selectable entries in render order: scheduled instances by
// hour, then unscheduled ones, then habits.
func (m boardModel) rows() []boardRow {
	if m.view == nil {
		return nil
	}
	var out []boardRow
	for h := m.startHour; h <= m.endHour; h++ {
		slot := engine.FormatHourSlot(h)
		for i := range m.view.Instances {
			if m.view.Instances[i].TimeSlot != nil && *m.view.Instances[i].TimeSlot == slot {
				out = append(out, boardRow{inst: &m.view.Instances[i]})
			}
		}
	}
	for i := range m.view.Instances {
		if m.view.Instances[i].TimeSlot == nil || !m.slotInRange(*m.view.Instances[i].TimeSlot) {
			out = append(out, boardRow{inst: &m.view.Instances[i]})
		}
	}
	for i := range m.view.Habits {
		out = append(out, boardRow{habit: &m.view.Habits[i]})
	}
	return out
}

func (m boardModel) slotInRange(slot string) bool {
	for h := m.startHour; h <= m.endHour; h++ {
		if engine.FormatHourSlot(h) == slot {
			return true
		}
	}
	return false
}

func (m boardModel) rowCount() int {
	return len(m.rows())
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.view == nil {
		return "Dayflow — loading…"
	}
	return fmt.Sprintf("Dayflow | Day %d (%s %s) | Score %+d", m.view.Day, m.view.Weekday, m.view.FullDate, m.view.Total)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Keys"}
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- ←/→ or h/l: switch day")
	lines = append(lines, "- enter/space: toggle")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading || m.view == nil {
		return "Loading…"
	}

	var out []string
	idx := 0

	out = append(out, "Planner")
	for h := m.startHour; h <= m.endHour; h++ {
		slot := engine.FormatHourSlot(h)
		var lines []string
		for _, in := range m.view.Instances {
			if in.TimeSlot != nil && *in.TimeSlot == slot {
				lines = append(lines, m.renderRow(idx, instanceRow(in)))
				idx++
			}
		}
		marks := habitMarksAt(m.view.Habits, slot)
		if len(lines) == 0 && marks == "" {
			continue
		}
		out = append(out, slot)
		out = append(out, lines...)
		if marks != "" {
			out = append(out, "     · "+marks)
		}
	}

	out = append(out, "")
	out = append(out, "Anytime")
	anytime := 0
	for _, in := range m.view.Instances {
		if in.TimeSlot != nil && m.slotInRange(*in.TimeSlot) {
			continue
		}
		out = append(out, m.renderRow(idx, instanceRow(in)))
		idx++
		anytime++
	}
	if anytime == 0 {
		out = append(out, "(nothing unscheduled)")
	}

	out = append(out, "")
	out = append(out, "Habits")
	if len(m.view.Habits) == 0 {
		out = append(out, "(none)")
	}
	for _, h := range m.view.Habits {
		out = append(out, m.renderRow(idx, habitRow(h)))
		idx++
	}
	return strings.Join(out, "\n")
}

func habitMarksAt(habits []storage.Habit, slot string) string {
	var names []string
	for _, h := range habits {
		for _, mark := range h.HourMarks {
			if mark == slot {
				names = append(names, h.Title)
				break
			}
		}
	}
	return strings.Join(names, ", ")
}

func (m boardModel) renderRow(index int, row string) string {
	cursor := "  "
	if index == m.selected {
		cursor = "> "
	}
	return cursor + row
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func instanceRow(in storage.Instance) string {
	check := "[ ]"
	if in.Completed {
		check = "[x]"
	}
	tag := ""
	if in.IsCyclic {
		tag = " (cyclic)"
	}
	if in.TargetCount != nil && *in.TargetCount > 1 {
		tag += fmt.Sprintf(" %d/%d", in.AccumulatedCount, *in.TargetCount)
	}
	return fmt.Sprintf("  %s %s%s", check, in.Title, tag)
}

func habitRow(h storage.Habit) string {
	check := "[ ]"
	if h.CompletedToday {
		check = "[x]"
	}
	row := fmt.Sprintf("%s %s %d/%d", check, h.Title, h.AccumulatedCount, h.TargetCount)
	if h.Streak > 0 {
		row += fmt.Sprintf(" (streak %d)", h.Streak)
	}
	if len(h.HourMarks) > 0 {
		row += " @ " + strings.Join(h.HourMarks, ", ")
	}
	return row
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

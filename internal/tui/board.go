package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"dayflow/internal/engine"
)

func RunBoard(ctx context.Context, svc *engine.Service, day, startHour, endHour int, out io.Writer) error {
	m := newBoardModel(ctx, svc, day, startHour, endHour)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cookedfr/cookedfr/internal/client"
	"github.com/cookedfr/cookedfr/internal/export"
)

func cmdTell(teller client.Teller, t client.Ticket) tea.Cmd {
	return func() tea.Msg {
		fortune, err := teller.Tell(context.Background(), t.Name)
		return fortuneMsg{ticket: t, fortune: fortune, err: err}
	}
}

func cmdExport(path, fortune string, style export.Style) tea.Cmd {
	return func() tea.Msg {
		written, err := export.SaveFile(path, fortune, style)
		return exportDoneMsg{path: written, err: err}
	}
}

// Package tui is the interactive fortune teller for the terminal.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/cookedfr/cookedfr/internal/client"
	"github.com/cookedfr/cookedfr/internal/export"
	"github.com/cookedfr/cookedfr/internal/share"
)

// Deps are the collaborators the UI needs.
type Deps struct {
	Teller     client.Teller
	PageURL    string
	ExportPath string
	Logger     zerolog.Logger
}

type model struct {
	deps   Deps
	req    *client.Requester
	themes []Theme
	theme  int

	input   textinput.Model
	spinner spinner.Model

	pending   client.Ticket
	shareLink string
	toast     string
	width     int
}

// Run starts the program and blocks until the user quits.
func Run(deps Deps) error {
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	if deps.ExportPath == "" {
		deps.ExportPath = export.DefaultFileName
	}

	ti := textinput.New()
	ti.Placeholder = "Enter your name"
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return model{
		deps:    deps,
		req:     client.NewRequester(deps.Teller, deps.Logger),
		themes:  Themes(),
		input:   ti,
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) currentTheme() Theme { return m.themes[m.theme] }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case fortuneMsg:
		m.req.Finish(msg.ticket, msg.fortune, msg.err)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.toast = "Export failed: " + msg.err.Error()
		} else {
			m.toast = "Saved " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.req.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			t, ok := m.req.Begin()
			if !ok {
				return m, nil
			}
			m.pending = t
			m.shareLink = ""
			m.toast = ""
			return m, tea.Batch(m.spinner.Tick, cmdTell(m.deps.Teller, t))

		case "ctrl+s":
			if !m.req.HasFortune() || m.req.Loading() {
				return m, nil
			}
			return m, cmdExport(m.deps.ExportPath, m.req.Fortune(), m.currentTheme().Export)

		case "ctrl+x", "ctrl+b":
			platform := share.PlatformTwitter
			if msg.String() == "ctrl+b" {
				platform = share.PlatformFacebook
			}
			link, err := share.Link(platform, m.req.Fortune(), m.deps.PageURL)
			if err != nil {
				return m, nil
			}
			m.shareLink = link
			return m, nil

		case "tab":
			m.theme = (m.theme + 1) % len(m.themes)
			return m, nil

		case "esc":
			m.req.Reset()
			m.input.Reset()
			m.shareLink = ""
			m.toast = ""
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.req.SetName(m.input.Value())
	return m, cmd
}

func (m model) View() string {
	th := m.currentTheme()
	var b strings.Builder

	b.WriteString(th.Title.Render("🔮 2025 Fortune Teller"))
	b.WriteString("  ")
	b.WriteString(th.Subtitle.Render(th.Icon + " " + th.Name))
	b.WriteString("\n")
	b.WriteString(th.Subtitle.Render("Discover what the future holds for you!"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.req.Loading() {
		b.WriteString(m.spinner.View() + " Consulting the stars...\n")
	}

	if fortune := m.req.Fortune(); fortune != "" {
		width := 60
		if m.width > 0 && m.width-4 < width {
			width = m.width - 4
		}
		card := th.Card.Width(width).Render(th.Fortune.Render(fortune))
		b.WriteString(card)
		b.WriteString("\n")
	}

	if m.shareLink != "" {
		b.WriteString("\n" + th.Subtitle.Render("Share: ") + m.shareLink + "\n")
	}
	if m.toast != "" {
		b.WriteString("\n" + th.Toast.Render(m.toast) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(th.Help.Render(m.helpLine()))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m model) helpLine() string {
	keys := []string{"enter: reveal"}
	if m.req.HasFortune() {
		keys = append(keys, "ctrl+s: save png", "ctrl+x: tweet", "ctrl+b: facebook")
	}
	keys = append(keys, "tab: theme", "esc: reset", "ctrl+c: quit")
	return strings.Join(keys, " • ")
}

var _ tea.Model = model{}

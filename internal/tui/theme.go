package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"

	"github.com/cookedfr/cookedfr/internal/export"
)

// Theme bundles the terminal styles and the matching PNG card colors.
type Theme struct {
	Name     string
	Icon     string
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Fortune  lipgloss.Style
	Toast    lipgloss.Style
	Export   export.Style
}

// Themes returns the themes in cycle order.
func Themes() []Theme {
	return []Theme{LightTheme(), DarkTheme(), MinimalTheme()}
}

func LightTheme() Theme {
	return Theme{
		Name:     "light",
		Icon:     "🌞",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("213")),
		Fortune: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Toast:   lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		Export:  export.DefaultStyle,
	}
}

func DarkTheme() Theme {
	return Theme{
		Name:     "dark",
		Icon:     "🌙",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Fortune: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Toast:   lipgloss.NewStyle().Foreground(lipgloss.Color("84")),
		Export: export.Style{
			Background: color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff},
			Foreground: color.RGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff},
			Accent:     color.RGBA{R: 0x63, G: 0x66, B: 0xf1, A: 0xff},
		},
	}
}

func MinimalTheme() Theme {
	return Theme{
		Name:     "minimal",
		Icon:     "⚪",
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle(),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.NormalBorder()),
		Fortune: lipgloss.NewStyle(),
		Toast:   lipgloss.NewStyle(),
		Export: export.Style{
			Background: color.White,
			Foreground: color.Black,
			Accent:     color.Black,
		},
	}
}

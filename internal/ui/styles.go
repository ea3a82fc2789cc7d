// Package ui provides Charm-based UI components for prism
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles derived from the active palette. rebuildStyles refreshes them.
var (
	Bold = lipgloss.NewStyle().Bold(true)

	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Tagline      lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	LabelStyle   lipgloss.Style

	InfoBox    lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style

	HeaderStyle lipgloss.Style
	AppStyle    lipgloss.Style
)

func rebuildStyles() {
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
		Foreground(Secondary).
		Italic(true)

	Tagline = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	LabelStyle = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	InfoBox = box(Info)
	SuccessBox = box(Success)
	ErrorBox = box(Error)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(Background).
		Background(Primary).
		Padding(0, 1).
		Bold(true)
	if CurrentPreferences.Gradient {
		HeaderStyle = HeaderStyle.
			BorderStyle(lipgloss.ThickBorder()).
			BorderBottom(true).
			BorderForeground(Secondary)
	}
	switch CurrentPreferences.BgPosition {
	case "header":
		HeaderStyle = HeaderStyle.Padding(1, 2)
	case "full":
		HeaderStyle = HeaderStyle.Padding(1, 2).Width(TerminalWidth())
	}

	AppStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
}

func box(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)
}

// PrimaryStyle returns a bold style in the primary color.
func PrimaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Primary).Bold(true)
}

// Header renders a screen title, decorated when decorations are enabled.
func Header(title string) string {
	text := strings.ToUpper(title)
	if CurrentPreferences.Decoration {
		text = "◆ " + text + " ◆"
	}
	return HeaderStyle.Render(text)
}

// Banner returns the prism ASCII banner
func Banner() string {
	banner := `
 ┏━┓┏━┓╻┏━┓┏┳┓
 ┣━┛┣┳┛┃┗━┓┃┃┃
 ╹  ╹┗╸╹┗━┛╹ ╹`
	return lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Render(banner)
}

// KeyValue renders an aligned "label value" line.
func KeyValue(label string, value string) string {
	return LabelStyle.Render(padRight(label+":", 12)) + " " + value
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

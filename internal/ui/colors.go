package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iiroan/prism/internal/theme"
)

// Active palette. ApplyTheme replaces these from a resolved theme.
var (
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Info       lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
	Highlight  lipgloss.Color

	activeTheme theme.Resolved
)

func init() {
	ApplyTheme(theme.Resolve(theme.DefaultColor, theme.ModeDark, theme.LTR), false)
}

// ApplyTheme switches the palette used by every style in this package.
// With noColor set, all colors are cleared.
func ApplyTheme(resolved theme.Resolved, noColor bool) {
	activeTheme = resolved
	s := resolved.Colors
	if noColor {
		s = theme.Swatch{Name: s.Name}
	}

	Primary = s.Primary
	Secondary = s.Secondary
	Accent = s.Accent
	Info = s.Info
	Success = s.Success
	Warning = s.Warning
	Error = s.Error
	Muted = s.Muted
	Background = s.Background
	Foreground = s.Foreground
	Border = s.Border
	Highlight = s.Highlight

	rebuildStyles()
}

// ActiveTheme returns the theme last passed to ApplyTheme.
func ActiveTheme() theme.Resolved {
	return activeTheme
}

// Swatch renders a short color sample for a palette entry.
func Swatch(s theme.Swatch) string {
	block := func(c lipgloss.Color) string {
		if CurrentPreferences.NoColor {
			return "  "
		}
		return lipgloss.NewStyle().Background(c).Render("  ")
	}
	return block(s.Primary) + block(s.Secondary) + block(s.Accent) + block(s.Background)
}

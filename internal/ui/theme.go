package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iiroan/prism/internal/theme"
)

// HuhTheme returns the settings form theme for the active swatch.
func HuhTheme() *huh.Theme {
	return huhTheme(ActiveTheme().Colors, CurrentPreferences.NoColor)
}

func huhTheme(s theme.Swatch, noColor bool) *huh.Theme {
	t := huh.ThemeBase()
	if noColor {
		return t
	}

	f := &t.Focused
	f.Base = f.Base.BorderForeground(s.Border)
	f.Title = f.Title.Bold(true)
	f.NoteTitle = f.NoteTitle.Bold(true)

	roles := []struct {
		color  lipgloss.Color
		styles []*lipgloss.Style
	}{
		{s.Highlight, []*lipgloss.Style{&f.Title, &f.NoteTitle}},
		{s.Muted, []*lipgloss.Style{&f.Description, &f.UnselectedPrefix, &f.TextInput.Placeholder}},
		{s.Error, []*lipgloss.Style{&f.ErrorIndicator, &f.ErrorMessage}},
		{s.Foreground, []*lipgloss.Style{&f.Option, &f.UnselectedOption}},
		{s.Info, []*lipgloss.Style{&f.TextInput.Cursor}},
		{s.Accent, []*lipgloss.Style{
			&f.SelectSelector, &f.NextIndicator, &f.PrevIndicator,
			&f.SelectedOption, &f.SelectedPrefix, &f.TextInput.Prompt,
		}},
	}
	for _, role := range roles {
		for _, st := range role.styles {
			*st = st.Foreground(role.color)
		}
	}

	f.FocusedButton = f.FocusedButton.
		Background(s.Primary).
		Foreground(readableOn(s.Primary, s.Background, s.Foreground)).
		Bold(true)
	f.BlurredButton = f.BlurredButton.
		Background(s.Border).
		Foreground(readableOn(s.Border, s.Background, s.Foreground))

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.NextIndicator = lipgloss.NewStyle()
	t.Blurred.PrevIndicator = lipgloss.NewStyle()
	return t
}

// readableOn picks whichever of a and b sits further from bg in lightness.
// Light variants darken the primary, so the winner differs per mode.
func readableOn(bg, a, b lipgloss.Color) lipgloss.Color {
	base, err := colorful.Hex(string(bg))
	if err != nil {
		return a
	}
	distance := func(c lipgloss.Color) float64 {
		other, err := colorful.Hex(string(c))
		if err != nil {
			return -1
		}
		l1, _, _ := base.Lab()
		l2, _, _ := other.Lab()
		if l1 > l2 {
			return l1 - l2
		}
		return l2 - l1
	}
	if distance(b) > distance(a) {
		return b
	}
	return a
}

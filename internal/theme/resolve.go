package theme

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Resolved is the ready-to-render theme derived from preferences.
// It is a plain value; callers replace it rather than mutate it.
type Resolved struct {
	Color     string
	Known     bool
	Mode      Mode
	Direction Direction
	Colors    Swatch

	// AlignStart is where text starts for the direction, AlignEnd the opposite edge.
	AlignStart lipgloss.Position
	AlignEnd   lipgloss.Position
}

// Factory maps preferences to a resolved theme. Implementations must be pure.
type Factory func(color string, mode Mode, direction Direction) Resolved

// Resolve is the default Factory.
//
// Unknown colors are built from the default swatch but keep the requested
// name, with Known set to false.
func Resolve(color string, mode Mode, direction Direction) Resolved {
	swatch, known := SwatchByName(color)
	if !known {
		swatch = DefaultSwatch()
	}
	swatch.Name = color

	if mode == ModeLight {
		swatch = lightVariant(swatch)
	}

	start, end := lipgloss.Left, lipgloss.Right
	if direction == RTL {
		start, end = lipgloss.Right, lipgloss.Left
	}

	return Resolved{
		Color:      color,
		Known:      known,
		Mode:       mode,
		Direction:  direction,
		Colors:     swatch,
		AlignStart: start,
		AlignEnd:   end,
	}
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{R: 0, G: 0, B: 0}
)

// lightVariant swaps the surfaces of a dark swatch and darkens the accents
// enough to stay readable on a light background.
func lightVariant(s Swatch) Swatch {
	bg := s.Background
	s.Background = blend(bg, white, 0.94)
	s.Foreground = blend(bg, black, 0.1)
	s.Border = blend(s.Border, white, 0.55)
	s.Muted = blend(s.Muted, black, 0.3)
	s.Highlight = blend(s.Highlight, black, 0.45)
	s.Primary = blend(s.Primary, black, 0.2)
	s.Secondary = blend(s.Secondary, black, 0.2)
	s.Accent = blend(s.Accent, black, 0.25)
	s.Info = blend(s.Info, black, 0.25)
	s.Success = blend(s.Success, black, 0.25)
	s.Warning = blend(s.Warning, black, 0.3)
	s.Error = blend(s.Error, black, 0.2)
	return s
}

func blend(c lipgloss.Color, with colorful.Color, t float64) lipgloss.Color {
	base, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	return lipgloss.Color(base.BlendLab(with, t).Clamped().Hex())
}

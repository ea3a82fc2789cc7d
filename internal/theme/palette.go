package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Swatch is the full set of colors a theme color name stands for.
type Swatch struct {
	Name       string
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
}

// DefaultColor is the palette value used when nothing else is configured.
const DefaultColor = "aurora"

// swatchTable lists the built-in swatches in display order. Columns follow the
// Swatch field order after Name.
var swatchTable = [][13]string{
	{"aurora", "#22D3EE", "#A78BFA", "#38BDF8", "#60A5FA", "#34D399", "#FBBF24", "#F87171", "#94A3B8", "#0B1120", "#E2E8F0", "#334155", "#7DD3FC"},
	{"ember", "#F97316", "#F43F5E", "#FACC15", "#38BDF8", "#22C55E", "#F59E0B", "#EF4444", "#94A3B8", "#0F172A", "#E2E8F0", "#475569", "#FDBA74"},
	{"ocean", "#2563EB", "#0EA5E9", "#06B6D4", "#93C5FD", "#10B981", "#F59E0B", "#F87171", "#8B9BB4", "#0A1628", "#DBEAFE", "#1E3A5F", "#BFDBFE"},
	{"forest", "#4ADE80", "#A3E635", "#2DD4BF", "#67E8F9", "#86EFAC", "#FDE047", "#FB7185", "#9CA38F", "#0C140E", "#ECFDF5", "#2F4A36", "#BBF7D0"},
	{"mono", "#E2E8F0", "#CBD5F5", "#94A3B8", "#E2E8F0", "#E2E8F0", "#94A3B8", "#CBD5F5", "#94A3B8", "#0B1220", "#E2E8F0", "#64748B", "#F8FAFC"},
	{"amber", "#FFD24A", "#FFB347", "#FFE08A", "#7FB8FF", "#8BE6B1", "#FFC857", "#F27D72", "#A39A86", "#0B0C0E", "#F9F4E6", "#5B4C2B", "#FFF1B6"},
	{"blue", "#3B82F6", "#6366F1", "#60A5FA", "#38BDF8", "#22C55E", "#F59E0B", "#EF4444", "#94A3B8", "#0B1326", "#E0E7FF", "#1E3A8A", "#93C5FD"},
	{"green", "#22C55E", "#14B8A6", "#84CC16", "#38BDF8", "#4ADE80", "#EAB308", "#F87171", "#A3B1A6", "#08130C", "#DCFCE7", "#14532D", "#86EFAC"},
}

var swatches = buildSwatches(swatchTable)

func buildSwatches(rows [][13]string) []Swatch {
	out := make([]Swatch, len(rows))
	for i, r := range rows {
		c := func(col int) lipgloss.Color { return lipgloss.Color(r[col]) }
		out[i] = Swatch{
			Name: r[0], Primary: c(1), Secondary: c(2), Accent: c(3), Info: c(4),
			Success: c(5), Warning: c(6), Error: c(7), Muted: c(8),
			Background: c(9), Foreground: c(10), Border: c(11), Highlight: c(12),
		}
	}
	return out
}

// Catalog returns the built-in palette in display order.
func Catalog() []PaletteEntry {
	entries := make([]PaletteEntry, len(swatches))
	for i, s := range swatches {
		entries[i] = PaletteEntry{Label: strings.ToUpper(s.Name[:1]) + s.Name[1:], Value: s.Name}
	}
	return entries
}

// SwatchByName returns the swatch for a palette value.
func SwatchByName(name string) (Swatch, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range swatches {
		if s.Name == key {
			return s, true
		}
	}
	return Swatch{}, false
}

// DefaultSwatch returns the swatch for DefaultColor.
func DefaultSwatch() Swatch {
	s, _ := SwatchByName(DefaultColor)
	return s
}

// Package theme defines the theme vocabulary shared by prism and the factory
// that turns a (color, mode, direction) triple into a renderable theme.
package theme

import (
	"fmt"
	"strings"
)

// Mode selects the light or dark variant of a swatch.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Direction is the text direction applied to rendered blocks.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeDark
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == LTR || d == RTL
}

// ParseMode normalizes user input into a Mode.
func ParseMode(value string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(value)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (expected light or dark)", value)
	}
	return m, nil
}

// ParseDirection normalizes user input into a Direction.
func ParseDirection(value string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(value)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown direction %q (expected ltr or rtl)", value)
	}
	return d, nil
}

// PaletteEntry is one selectable color in the settings panel.
type PaletteEntry struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Value string `yaml:"value" json:"value" validate:"required,swatch"`
}

// Contains reports whether value names an entry of palette.
func Contains(palette []PaletteEntry, value string) bool {
	for _, entry := range palette {
		if entry.Value == value {
			return true
		}
	}
	return false
}

// Values returns the entry values in palette order.
func Values(palette []PaletteEntry) []string {
	values := make([]string, len(palette))
	for i, entry := range palette {
		values[i] = entry.Value
	}
	return values
}

// Package store holds UI preferences and is the single source of truth for
// them. Preferences change only through dispatched intents.
package store

import (
	"github.com/iiroan/prism/internal/theme"
)

// Background positions and layouts understood by the settings panel.
var (
	BgPositions = []string{"half", "header", "full"}
	Layouts     = []string{"sidebar", "big-sidebar", "top-navigation", "mega-menu"}
)

// Preferences is the persisted UI preference state.
type Preferences struct {
	Color      string               `yaml:"color" json:"color" validate:"required"`
	Mode       theme.Mode           `yaml:"mode" json:"mode" validate:"oneof=light dark"`
	Direction  theme.Direction      `yaml:"direction" json:"direction" validate:"oneof=ltr rtl"`
	Gradient   bool                 `yaml:"gradient" json:"gradient"`
	Decoration bool                 `yaml:"decoration" json:"decoration"`
	BgPosition string               `yaml:"bg_position" json:"bg_position" validate:"oneof=half header full"`
	Layout     string               `yaml:"layout" json:"layout" validate:"oneof=sidebar big-sidebar top-navigation mega-menu"`
	Palette    []theme.PaletteEntry `yaml:"palette" json:"palette" validate:"dive"`
}

// DefaultPreferences returns the preferences used on first run.
func DefaultPreferences() Preferences {
	return Preferences{
		Color:      theme.DefaultColor,
		Mode:       theme.ModeDark,
		Direction:  theme.LTR,
		Gradient:   true,
		Decoration: true,
		BgPosition: "half",
		Layout:     "big-sidebar",
		Palette:    theme.Catalog(),
	}
}

// Clone returns a copy that shares no slices with p.
func (p Preferences) Clone() Preferences {
	if p.Palette != nil {
		palette := make([]theme.PaletteEntry, len(p.Palette))
		copy(palette, p.Palette)
		p.Palette = palette
	}
	return p
}

// Equal reports whether p and other hold the same values.
func (p Preferences) Equal(other Preferences) bool {
	if p.Color != other.Color ||
		p.Mode != other.Mode ||
		p.Direction != other.Direction ||
		p.Gradient != other.Gradient ||
		p.Decoration != other.Decoration ||
		p.BgPosition != other.BgPosition ||
		p.Layout != other.Layout ||
		len(p.Palette) != len(other.Palette) {
		return false
	}
	for i := range p.Palette {
		if p.Palette[i] != other.Palette[i] {
			return false
		}
	}
	return true
}

// Resolve builds the theme for the current color, mode and direction.
func (p Preferences) Resolve(factory theme.Factory) theme.Resolved {
	if factory == nil {
		factory = theme.Resolve
	}
	return factory(p.Color, p.Mode, p.Direction)
}

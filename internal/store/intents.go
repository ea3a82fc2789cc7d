package store

import (
	"fmt"

	"github.com/iiroan/prism/internal/theme"
)

// Intent is a discrete request to change preferences. Apply must be pure.
type Intent interface {
	Kind() string
	Apply(Preferences) Preferences
}

type SetColor struct{ Color string }

func (i SetColor) Kind() string { return "set-color" }

func (i SetColor) Apply(p Preferences) Preferences {
	p.Color = i.Color
	return p
}

func (i SetColor) String() string { return fmt.Sprintf("%s %s", i.Kind(), i.Color) }

type SetMode struct{ Mode theme.Mode }

func (i SetMode) Kind() string { return "set-mode" }

func (i SetMode) Apply(p Preferences) Preferences {
	p.Mode = i.Mode
	return p
}

func (i SetMode) String() string { return fmt.Sprintf("%s %s", i.Kind(), i.Mode) }

type SetDirection struct{ Direction theme.Direction }

func (i SetDirection) Kind() string { return "set-direction" }

func (i SetDirection) Apply(p Preferences) Preferences {
	p.Direction = i.Direction
	return p
}

func (i SetDirection) String() string { return fmt.Sprintf("%s %s", i.Kind(), i.Direction) }

type SetGradient struct{ Enabled bool }

func (i SetGradient) Kind() string { return "set-gradient" }

func (i SetGradient) Apply(p Preferences) Preferences {
	p.Gradient = i.Enabled
	return p
}

func (i SetGradient) String() string { return fmt.Sprintf("%s %t", i.Kind(), i.Enabled) }

type SetDecoration struct{ Enabled bool }

func (i SetDecoration) Kind() string { return "set-decoration" }

func (i SetDecoration) Apply(p Preferences) Preferences {
	p.Decoration = i.Enabled
	return p
}

func (i SetDecoration) String() string { return fmt.Sprintf("%s %t", i.Kind(), i.Enabled) }

type SetBgPosition struct{ Position string }

func (i SetBgPosition) Kind() string { return "set-bg-position" }

func (i SetBgPosition) Apply(p Preferences) Preferences {
	p.BgPosition = i.Position
	return p
}

func (i SetBgPosition) String() string { return fmt.Sprintf("%s %s", i.Kind(), i.Position) }

type SetLayout struct{ Layout string }

func (i SetLayout) Kind() string { return "set-layout" }

func (i SetLayout) Apply(p Preferences) Preferences {
	p.Layout = i.Layout
	return p
}

func (i SetLayout) String() string { return fmt.Sprintf("%s %s", i.Kind(), i.Layout) }

// Hydrate replaces every preference at once. Reloads from disk and remote
// mirrors use it.
type Hydrate struct{ Preferences Preferences }

func (i Hydrate) Kind() string { return "hydrate" }

func (i Hydrate) Apply(Preferences) Preferences {
	return i.Preferences.Clone()
}

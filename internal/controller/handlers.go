package controller

import (
	"context"

	"github.com/iiroan/prism/internal/theme"
)

// Handlers is the bundle of change callbacks handed to the settings panel and
// other descendant views.
type Handlers struct {
	SetColor       func(ctx context.Context, color string) error
	SetRandomColor func(ctx context.Context) (theme.PaletteEntry, error)
	SetMode        func(ctx context.Context, mode theme.Mode) error
	SetDirection   func(ctx context.Context, dir theme.Direction) error
	SetGradient    func(ctx context.Context, enabled bool) error
	SetDecoration  func(ctx context.Context, enabled bool) error
	SetBgPosition  func(ctx context.Context, position string) error
	SetLayout      func(ctx context.Context, layout string) error
}

// Handlers returns the change callbacks bound to c.
func (c *Controller) Handlers() Handlers {
	return Handlers{
		SetColor:       c.SetColor,
		SetRandomColor: c.SetRandomColor,
		SetMode:        c.SetMode,
		SetDirection:   c.SetDirection,
		SetGradient:    c.SetGradient,
		SetDecoration:  c.SetDecoration,
		SetBgPosition:  c.SetBgPosition,
		SetLayout:      c.SetLayout,
	}
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnTheme    func(theme.Resolved)
	OnProgress func(value float64, state ProgressState)
}

func (o ObserverFuncs) ThemeChanged(r theme.Resolved) {
	if o.OnTheme != nil {
		o.OnTheme(r)
	}
}

func (o ObserverFuncs) ProgressChanged(value float64, state ProgressState) {
	if o.OnProgress != nil {
		o.OnProgress(value, state)
	}
}

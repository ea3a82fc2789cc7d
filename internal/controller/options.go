package controller

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iiroan/prism/internal/clock"
	"github.com/iiroan/prism/internal/theme"
)

const (
	// ProgressInterval is the loading indicator tick period.
	ProgressInterval = 500 * time.Millisecond
	// ProgressMaxStep bounds the random increment added on each tick.
	ProgressMaxStep = 40.0
	// RandomColorDelay leaves room for the transition before a random color lands.
	RandomColorDelay = 500 * time.Millisecond
)

// ColorPolicy decides what SetColor does with a value that is not in the palette.
type ColorPolicy int

const (
	// RejectUnknown returns ErrUnknownColor and changes nothing.
	RejectUnknown ColorPolicy = iota
	// FallbackUnknown substitutes the default palette entry.
	FallbackUnknown
	// AcceptUnknown passes the value through unchecked.
	AcceptUnknown
)

func (p ColorPolicy) String() string {
	switch p {
	case FallbackUnknown:
		return "fallback"
	case AcceptUnknown:
		return "accept"
	default:
		return "reject"
	}
}

// ParseColorPolicy maps a config value to a ColorPolicy.
func ParseColorPolicy(value string) (ColorPolicy, bool) {
	switch value {
	case "", "reject":
		return RejectUnknown, true
	case "fallback":
		return FallbackUnknown, true
	case "accept":
		return AcceptUnknown, true
	default:
		return RejectUnknown, false
	}
}

// Random is the randomness the controller needs. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }

// Document receives the ambient text direction.
type Document interface {
	SetDir(theme.Direction)
}

type noDocument struct{}

func (noDocument) SetDir(theme.Direction) {}

// Observer is told about theme and progress changes so views can redraw.
// Calls happen outside the controller lock and may come from timer goroutines.
type Observer interface {
	ThemeChanged(theme.Resolved)
	ProgressChanged(value float64, state ProgressState)
}

// Option configures a Controller.
type Option func(*Controller)

func WithFactory(f theme.Factory) Option {
	return func(c *Controller) {
		if f != nil {
			c.factory = f
		}
	}
}

func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		if clk != nil {
			c.clock = clk
		}
	}
}

func WithRandom(r Random) Option {
	return func(c *Controller) {
		if r != nil {
			c.random = r
		}
	}
}

func WithDocument(d Document) Option {
	return func(c *Controller) {
		if d != nil {
			c.document = d
		}
	}
}

func WithColorPolicy(p ColorPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

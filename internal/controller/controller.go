// Package controller bridges persisted UI preferences and the resolved theme
// handed to views.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/iiroan/prism/internal/clock"
	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/theme"
)

var (
	ErrClosed           = errors.New("controller closed")
	ErrNoStore          = errors.New("controller requires a store")
	ErrUnknownColor     = errors.New("color not in palette")
	ErrEmptyPalette     = errors.New("palette is empty")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Store is the preference state the controller reads and writes.
type Store interface {
	Snapshot() store.Preferences
	Dispatch(ctx context.Context, intent store.Intent) error
}

// ThemeHandle gives read-only access to the current theme.
type ThemeHandle interface {
	Theme() theme.Resolved
}

// Controller owns the resolved theme and the mount-time loading indicator.
type Controller struct {
	store     Store
	factory   theme.Factory
	clock     clock.Clock
	random    Random
	document  Document
	policy    ColorPolicy
	observers []Observer
	logger    *log.Logger

	mu       sync.Mutex
	closed   bool
	palette  []theme.PaletteEntry
	resolved theme.Resolved

	progress      float64
	progressState ProgressState
	ticker        *clock.Ticker

	randomTimer clock.Timer
	randomGen   uint64
}

var _ ThemeHandle = (*Controller)(nil)

// New reads the store once, resolves the first theme synchronously and starts
// the loading indicator. Close must be called to release the timer. s must
// be non-nil; a nil *store.Store wrapped in the interface is rejected too.
func New(s Store, opts ...Option) (*Controller, error) {
	if st, ok := s.(*store.Store); s == nil || (ok && st == nil) {
		return nil, ErrNoStore
	}

	c := &Controller{
		store:    s,
		factory:  theme.Resolve,
		clock:    clock.Real(),
		random:   globalRandom{},
		document: noDocument{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	prefs := s.Snapshot()
	c.palette = append([]theme.PaletteEntry(nil), prefs.Palette...)
	c.resolved = prefs.Resolve(c.factory)
	c.document.SetDir(prefs.Direction)

	c.mu.Lock()
	c.ticker = clock.Every(c.clock, ProgressInterval, c.tick)
	c.mu.Unlock()

	c.logger.Debug("theme controller mounted",
		"color", prefs.Color, "mode", prefs.Mode, "direction", prefs.Direction,
		"palette", len(c.palette))
	return c, nil
}

// Theme returns the current resolved theme.
func (c *Controller) Theme() theme.Resolved {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// Palette returns the palette captured at mount.
func (c *Controller) Palette() []theme.PaletteEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]theme.PaletteEntry(nil), c.palette...)
}

// Close stops the loading indicator and any pending random color. It is safe
// to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.ticker.Stop()
	if c.randomTimer != nil {
		c.randomTimer.Stop()
		c.randomTimer = nil
	}
	c.randomGen++
	c.logger.Debug("theme controller closed")
	return nil
}

// SetColor switches the palette color.
func (c *Controller) SetColor(ctx context.Context, color string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	color, err := c.admitColor(color)
	if err != nil {
		return err
	}

	prefs := c.store.Snapshot()
	next := c.factory(color, prefs.Mode, prefs.Direction)
	if err := c.store.Dispatch(ctx, store.SetColor{Color: color}); err != nil {
		return err
	}
	c.commit(next)
	return nil
}

// SetRandomColor picks a palette entry at random. The store is told right
// away; the theme follows after RandomColorDelay.
func (c *Controller) SetRandomColor(ctx context.Context) (theme.PaletteEntry, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return theme.PaletteEntry{}, ErrClosed
	}
	if len(c.palette) == 0 {
		c.mu.Unlock()
		return theme.PaletteEntry{}, ErrEmptyPalette
	}
	entry := c.palette[c.random.IntN(len(c.palette))]
	c.cancelRandomLocked()
	c.mu.Unlock()

	if err := c.store.Dispatch(ctx, store.SetColor{Color: entry.Value}); err != nil {
		return theme.PaletteEntry{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return entry, nil
	}
	c.randomGen++
	gen := c.randomGen
	c.randomTimer = c.clock.AfterFunc(RandomColorDelay, func() {
		c.applyRandom(entry.Value, gen)
	})
	c.logger.Debug("random color scheduled", "color", entry.Value)
	return entry, nil
}

func (c *Controller) applyRandom(color string, gen uint64) {
	prefs := c.store.Snapshot()
	next := c.factory(color, prefs.Mode, prefs.Direction)

	c.mu.Lock()
	if c.closed || gen != c.randomGen {
		c.mu.Unlock()
		return
	}
	c.randomTimer = nil
	c.resolved = next
	c.mu.Unlock()

	c.notifyTheme(next)
}

// SetMode switches between light and dark. Setting the current mode is a no-op.
func (c *Controller) SetMode(ctx context.Context, mode theme.Mode) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	prefs := c.store.Snapshot()
	if prefs.Mode == mode {
		return nil
	}
	next := c.factory(prefs.Color, mode, prefs.Direction)
	if err := c.store.Dispatch(ctx, store.SetMode{Mode: mode}); err != nil {
		return err
	}
	c.commit(next)
	return nil
}

// SetDirection switches text direction and updates the ambient document.
func (c *Controller) SetDirection(ctx context.Context, dir theme.Direction) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if !dir.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	prefs := c.store.Snapshot()
	next := c.factory(prefs.Color, prefs.Mode, dir)
	if err := c.store.Dispatch(ctx, store.SetDirection{Direction: dir}); err != nil {
		return err
	}
	c.commit(next)
	c.document.SetDir(dir)
	return nil
}

func (c *Controller) SetGradient(ctx context.Context, enabled bool) error {
	return c.passThrough(ctx, store.SetGradient{Enabled: enabled})
}

func (c *Controller) SetDecoration(ctx context.Context, enabled bool) error {
	return c.passThrough(ctx, store.SetDecoration{Enabled: enabled})
}

func (c *Controller) SetBgPosition(ctx context.Context, position string) error {
	return c.passThrough(ctx, store.SetBgPosition{Position: position})
}

func (c *Controller) SetLayout(ctx context.Context, layout string) error {
	return c.passThrough(ctx, store.SetLayout{Layout: layout})
}

// Refresh recomputes the theme from the store. Call it after the store was
// changed by someone other than this controller.
func (c *Controller) Refresh() {
	if c.checkOpen() != nil {
		return
	}
	prefs := c.store.Snapshot()
	next := prefs.Resolve(c.factory)

	c.mu.Lock()
	if c.closed || c.resolved == next {
		c.mu.Unlock()
		return
	}
	c.cancelRandomLocked()
	c.resolved = next
	c.mu.Unlock()

	c.document.SetDir(prefs.Direction)
	c.notifyTheme(next)
}

func (c *Controller) passThrough(ctx context.Context, intent store.Intent) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	return c.store.Dispatch(ctx, intent)
}

func (c *Controller) admitColor(color string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if theme.Contains(c.palette, color) {
		return color, nil
	}
	switch c.policy {
	case AcceptUnknown:
		c.logger.Warn("color not in palette, accepting as-is", "color", color)
		return color, nil
	case FallbackUnknown:
		fallback := c.fallbackColorLocked()
		if fallback == "" {
			return "", fmt.Errorf("%w: %q", ErrUnknownColor, color)
		}
		c.logger.Warn("color not in palette, using fallback", "color", color, "fallback", fallback)
		return fallback, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}
}

func (c *Controller) fallbackColorLocked() string {
	if theme.Contains(c.palette, theme.DefaultColor) {
		return theme.DefaultColor
	}
	if len(c.palette) > 0 {
		return c.palette[0].Value
	}
	return ""
}

// commit installs next unless the controller closed meanwhile. A direct
// change supersedes a pending random color.
func (c *Controller) commit(next theme.Resolved) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelRandomLocked()
	c.resolved = next
	c.mu.Unlock()

	c.notifyTheme(next)
}

func (c *Controller) cancelRandomLocked() {
	if c.randomTimer != nil {
		c.randomTimer.Stop()
		c.randomTimer = nil
	}
	c.randomGen++
}

func (c *Controller) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func (c *Controller) notifyTheme(resolved theme.Resolved) {
	for _, o := range c.observers {
		o.ThemeChanged(resolved)
	}
}

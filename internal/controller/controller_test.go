package controller

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/prism/internal/clock"
	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/theme"
)

type fixedRandom struct {
	step float64
	pick int
}

func (r fixedRandom) Float64() float64 { return r.step }
func (r fixedRandom) IntN(n int) int   { return r.pick % n }

type recordingDocument struct {
	dirs []theme.Direction
}

func (d *recordingDocument) SetDir(dir theme.Direction) { d.dirs = append(d.dirs, dir) }

type recordingObserver struct {
	mu       sync.Mutex
	themes   []theme.Resolved
	progress []float64
	states   []ProgressState
}

func (o *recordingObserver) ThemeChanged(r theme.Resolved) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.themes = append(o.themes, r)
}

func (o *recordingObserver) ProgressChanged(v float64, s ProgressState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, v)
	o.states = append(o.states, s)
}

type harness struct {
	ctrl     *Controller
	store    *store.Store
	clock    *clock.Fake
	doc      *recordingDocument
	observer *recordingObserver
	changes  *[]store.Change
}

func newHarness(t *testing.T, prefs store.Preferences, opts ...Option) harness {
	t.Helper()
	s := store.New(prefs)
	changes := &[]store.Change{}
	s.Subscribe(func(c store.Change) { *changes = append(*changes, c) })

	h := harness{
		store:    s,
		clock:    clock.NewFake(),
		doc:      &recordingDocument{},
		observer: &recordingObserver{},
		changes:  changes,
	}
	base := []Option{
		WithClock(h.clock),
		WithDocument(h.doc),
		WithObserver(h.observer),
		WithRandom(fixedRandom{step: 0.5}),
	}
	ctrl, err := New(s, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { ctrl.Close() })
	h.ctrl = ctrl
	return h
}

func twoColorPrefs() store.Preferences {
	prefs := store.DefaultPreferences()
	prefs.Color = "blue"
	prefs.Mode = theme.ModeLight
	prefs.Direction = theme.LTR
	prefs.Palette = []theme.PaletteEntry{
		{Label: "Blue", Value: "blue"},
		{Label: "Green", Value: "green"},
	}
	return prefs
}

func TestNewResolvesInitialThemeWithoutRandomness(t *testing.T) {
	h := newHarness(t, twoColorPrefs(), WithRandom(fixedRandom{step: 0.5, pick: 1}))

	assert.Equal(t, theme.Resolve("blue", theme.ModeLight, theme.LTR), h.ctrl.Theme())
	assert.Equal(t, twoColorPrefs().Palette, h.ctrl.Palette())
	assert.Equal(t, []theme.Direction{theme.LTR}, h.doc.dirs)
	assert.Empty(t, *h.changes, "mounting must not dispatch")
}

func TestTwoColorPaletteResolvesDistinctThemes(t *testing.T) {
	h := newHarness(t, twoColorPrefs())
	blue := h.ctrl.Theme()

	require.NoError(t, h.ctrl.SetColor(context.Background(), "green"))
	green := h.ctrl.Theme()

	assert.True(t, blue.Known)
	assert.True(t, green.Known)
	assert.NotEqual(t, blue.Colors.Primary, green.Colors.Primary)
}

func TestSettersMatchFactory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences())

	for _, entry := range theme.Catalog() {
		for _, mode := range []theme.Mode{theme.ModeDark, theme.ModeLight} {
			for _, dir := range []theme.Direction{theme.LTR, theme.RTL} {
				require.NoError(t, h.ctrl.SetColor(ctx, entry.Value))
				require.NoError(t, h.ctrl.SetMode(ctx, mode))
				require.NoError(t, h.ctrl.SetDirection(ctx, dir))

				want := theme.Resolve(entry.Value, mode, dir)
				assert.Equal(t, want, h.ctrl.Theme(), "%s/%s/%s", entry.Value, mode, dir)
			}
		}
	}
}

func TestSetColorDispatchesAndRecomputes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences())

	require.NoError(t, h.ctrl.SetColor(ctx, "ember"))

	assert.Equal(t, "ember", h.store.Snapshot().Color)
	assert.Equal(t, theme.Resolve("ember", theme.ModeDark, theme.LTR), h.ctrl.Theme())
	require.Len(t, *h.changes, 1)
	assert.Equal(t, store.SetColor{Color: "ember"}, (*h.changes)[0].Intent)
	require.Len(t, h.observer.themes, 1)
	assert.Equal(t, "ember", h.observer.themes[0].Color)
}

func TestSetModeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences())
	before := h.ctrl.Theme()

	require.NoError(t, h.ctrl.SetMode(ctx, theme.ModeDark))

	assert.Equal(t, before, h.ctrl.Theme())
	assert.Empty(t, *h.changes)
	assert.Empty(t, h.observer.themes)
}

func TestSetModeRejectsUnknownMode(t *testing.T) {
	h := newHarness(t, store.DefaultPreferences())
	err := h.ctrl.SetMode(context.Background(), "sepia")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestSetDirectionUpdatesDocument(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences())

	require.NoError(t, h.ctrl.SetDirection(ctx, theme.RTL))

	assert.Equal(t, []theme.Direction{theme.LTR, theme.RTL}, h.doc.dirs)
	assert.Equal(t, theme.RTL, h.ctrl.Theme().Direction)
	assert.Equal(t, theme.RTL, h.store.Snapshot().Direction)

	err := h.ctrl.SetDirection(ctx, "ttb")
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Len(t, h.doc.dirs, 2)
}

func TestUnknownColorPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("reject", func(t *testing.T) {
		h := newHarness(t, store.DefaultPreferences())
		before := h.ctrl.Theme()
		err := h.ctrl.SetColor(ctx, "chartreuse")
		assert.ErrorIs(t, err, ErrUnknownColor)
		assert.Equal(t, before, h.ctrl.Theme())
		assert.Equal(t, theme.DefaultColor, h.store.Snapshot().Color)
	})

	t.Run("fallback", func(t *testing.T) {
		prefs := store.DefaultPreferences()
		prefs.Color = "ember"
		h := newHarness(t, prefs, WithColorPolicy(FallbackUnknown))
		require.NoError(t, h.ctrl.SetColor(ctx, "chartreuse"))
		assert.Equal(t, theme.DefaultColor, h.store.Snapshot().Color)
		assert.Equal(t, theme.DefaultColor, h.ctrl.Theme().Color)
	})

	t.Run("fallback to first entry", func(t *testing.T) {
		h := newHarness(t, twoColorPrefs(), WithColorPolicy(FallbackUnknown))
		require.NoError(t, h.ctrl.SetColor(ctx, "green"))
		require.NoError(t, h.ctrl.SetColor(ctx, "chartreuse"))
		assert.Equal(t, "blue", h.store.Snapshot().Color)
	})

	t.Run("accept", func(t *testing.T) {
		h := newHarness(t, store.DefaultPreferences(), WithColorPolicy(AcceptUnknown))
		require.NoError(t, h.ctrl.SetColor(ctx, "chartreuse"))
		assert.Equal(t, "chartreuse", h.store.Snapshot().Color)
		assert.False(t, h.ctrl.Theme().Known)
	})
}

func TestSetRandomColorPicksFromPalette(t *testing.T) {
	ctx := context.Background()
	for seed := uint64(0); seed < 50; seed++ {
		h := newHarness(t, store.DefaultPreferences(), WithRandom(rand.New(rand.NewPCG(seed, seed*7+1))))
		entry, err := h.ctrl.SetRandomColor(ctx)
		require.NoError(t, err)
		assert.True(t, theme.Contains(h.ctrl.Palette(), entry.Value), "seed %d picked %q", seed, entry.Value)
		h.ctrl.Close()
	}
}

func TestSetRandomColorDefersThemeUpdate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences(), WithRandom(fixedRandom{step: 0.5, pick: 2}))
	before := h.ctrl.Theme()

	entry, err := h.ctrl.SetRandomColor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ocean", entry.Value)

	assert.Equal(t, "ocean", h.store.Snapshot().Color, "store is told immediately")
	assert.Equal(t, before, h.ctrl.Theme(), "theme waits for the transition")

	h.clock.Advance(RandomColorDelay - time.Millisecond)
	assert.Equal(t, before, h.ctrl.Theme())

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, theme.Resolve("ocean", theme.ModeDark, theme.LTR), h.ctrl.Theme())
}

func TestDirectChangeSupersedesPendingRandomColor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences(), WithRandom(fixedRandom{step: 0.5, pick: 2}))

	_, err := h.ctrl.SetRandomColor(ctx)
	require.NoError(t, err)
	require.NoError(t, h.ctrl.SetColor(ctx, "mono"))

	h.clock.Advance(time.Second)
	assert.Equal(t, "mono", h.ctrl.Theme().Color)
	assert.Equal(t, "mono", h.store.Snapshot().Color)
}

func TestSetRandomColorEmptyPalette(t *testing.T) {
	prefs := store.DefaultPreferences()
	prefs.Palette = nil
	h := newHarness(t, prefs)

	_, err := h.ctrl.SetRandomColor(context.Background())
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestProgressAdvancesToDoneAndStops(t *testing.T) {
	h := newHarness(t, store.DefaultPreferences())

	value, state := h.ctrl.Progress()
	assert.Zero(t, value)
	assert.Equal(t, ProgressRunning, state)

	h.clock.Advance(10 * time.Second)

	value, state = h.ctrl.Progress()
	assert.Equal(t, 100.0, value)
	assert.Equal(t, ProgressDone, state)
	assert.Equal(t, []float64{20, 40, 60, 80, 100}, h.observer.progress)
	assert.Equal(t, 0, h.clock.Pending(), "no ticks once done")

	h.clock.Advance(10 * time.Second)
	assert.Len(t, h.observer.progress, 5)
}

func TestProgressIsMonotonicAndBounded(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		h := newHarness(t, store.DefaultPreferences(), WithRandom(rand.New(rand.NewPCG(seed, 99))))

		last := 0.0
		for i := 0; i < 200; i++ {
			h.clock.Advance(ProgressInterval)
			value, _ := h.ctrl.Progress()
			assert.GreaterOrEqual(t, value, last)
			assert.LessOrEqual(t, value, 100.0)
			last = value
		}
		_, state := h.ctrl.Progress()
		assert.Equal(t, ProgressDone, state, "seed %d", seed)
		assert.Equal(t, 0, h.clock.Pending())
		h.ctrl.Close()
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences(), WithRandom(fixedRandom{step: 0.1, pick: 1}))

	h.clock.Advance(ProgressInterval)
	_, err := h.ctrl.SetRandomColor(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.clock.Pending())
	before := h.ctrl.Theme()

	require.NoError(t, h.ctrl.Close())
	require.NoError(t, h.ctrl.Close())
	assert.Equal(t, 0, h.clock.Pending())

	h.clock.Advance(time.Minute)
	value, state := h.ctrl.Progress()
	assert.InDelta(t, 4.0, value, 1e-9)
	assert.Equal(t, ProgressRunning, state)
	assert.Equal(t, before, h.ctrl.Theme())

	assert.ErrorIs(t, h.ctrl.SetColor(ctx, "ember"), ErrClosed)
	assert.ErrorIs(t, h.ctrl.SetLayout(ctx, "sidebar"), ErrClosed)
	_, err = h.ctrl.SetRandomColor(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPassThroughSettersLeaveThemeAlone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences())
	before := h.ctrl.Theme()
	handlers := h.ctrl.Handlers()

	require.NoError(t, handlers.SetGradient(ctx, false))
	require.NoError(t, handlers.SetDecoration(ctx, false))
	require.NoError(t, handlers.SetBgPosition(ctx, "full"))
	require.NoError(t, handlers.SetLayout(ctx, "sidebar"))

	prefs := h.store.Snapshot()
	assert.False(t, prefs.Gradient)
	assert.False(t, prefs.Decoration)
	assert.Equal(t, "full", prefs.BgPosition)
	assert.Equal(t, "sidebar", prefs.Layout)
	assert.Equal(t, before, h.ctrl.Theme())
	assert.Empty(t, h.observer.themes)

	err := handlers.SetLayout(ctx, "floating")
	assert.ErrorIs(t, err, store.ErrInvalidPreferences)
}

func TestRefreshFollowsExternalChanges(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, store.DefaultPreferences())

	external := store.DefaultPreferences()
	external.Color = "forest"
	external.Direction = theme.RTL
	require.NoError(t, h.store.Dispatch(ctx, store.Hydrate{Preferences: external}))

	h.ctrl.Refresh()
	assert.Equal(t, theme.Resolve("forest", theme.ModeDark, theme.RTL), h.ctrl.Theme())
	assert.Equal(t, theme.RTL, h.doc.dirs[len(h.doc.dirs)-1])

	h.ctrl.Refresh()
	assert.Len(t, h.observer.themes, 1, "unchanged refresh is silent")
}

type failingStore struct {
	prefs store.Preferences
	err   error
}

func (f failingStore) Snapshot() store.Preferences { return f.prefs.Clone() }
func (f failingStore) Dispatch(context.Context, store.Intent) error {
	return f.err
}

func TestDispatchFailureKeepsTheme(t *testing.T) {
	boom := errors.New("store unavailable")
	ctrl, err := New(failingStore{prefs: store.DefaultPreferences(), err: boom}, WithClock(clock.NewFake()))
	require.NoError(t, err)
	defer ctrl.Close()
	before := ctrl.Theme()

	assert.ErrorIs(t, ctrl.SetColor(context.Background(), "ember"), boom)
	assert.ErrorIs(t, ctrl.SetMode(context.Background(), theme.ModeLight), boom)
	assert.Equal(t, before, ctrl.Theme())
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoStore)

	var missing *store.Store
	assert.NotPanics(t, func() {
		_, err = New(missing)
	})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestParseColorPolicy(t *testing.T) {
	p, ok := ParseColorPolicy("fallback")
	assert.True(t, ok)
	assert.Equal(t, FallbackUnknown, p)
	assert.Equal(t, "fallback", p.String())

	_, ok = ParseColorPolicy("maybe")
	assert.False(t, ok)
}

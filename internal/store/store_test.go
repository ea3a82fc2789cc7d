package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/prism/internal/theme"
)

type memoryPersister struct {
	saved   []Preferences
	stored  *Preferences
	saveErr error
}

func (m *memoryPersister) Load(_ context.Context, fallback Preferences) (Preferences, error) {
	if m.stored == nil {
		return fallback, nil
	}
	return m.stored.Clone(), nil
}

func (m *memoryPersister) Save(_ context.Context, p Preferences) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, p.Clone())
	return nil
}

func TestDispatchAppliesIntents(t *testing.T) {
	ctx := context.Background()
	s := New(DefaultPreferences())

	require.NoError(t, s.Dispatch(ctx, SetColor{Color: "ember"}))
	require.NoError(t, s.Dispatch(ctx, SetMode{Mode: theme.ModeLight}))
	require.NoError(t, s.Dispatch(ctx, SetDirection{Direction: theme.RTL}))
	require.NoError(t, s.Dispatch(ctx, SetGradient{Enabled: false}))
	require.NoError(t, s.Dispatch(ctx, SetDecoration{Enabled: false}))
	require.NoError(t, s.Dispatch(ctx, SetBgPosition{Position: "full"}))
	require.NoError(t, s.Dispatch(ctx, SetLayout{Layout: "mega-menu"}))

	got := s.Snapshot()
	assert.Equal(t, "ember", got.Color)
	assert.Equal(t, theme.ModeLight, got.Mode)
	assert.Equal(t, theme.RTL, got.Direction)
	assert.False(t, got.Gradient)
	assert.False(t, got.Decoration)
	assert.Equal(t, "full", got.BgPosition)
	assert.Equal(t, "mega-menu", got.Layout)
}

func TestDispatchRejectsInvalidPreferences(t *testing.T) {
	ctx := context.Background()
	persister := &memoryPersister{}
	s := New(DefaultPreferences(), WithPersister(persister))

	err := s.Dispatch(ctx, SetMode{Mode: "sepia"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPreferences))
	assert.Contains(t, err.Error(), "Mode must be one of")

	err = s.Dispatch(ctx, SetLayout{Layout: "floating"})
	assert.True(t, errors.Is(err, ErrInvalidPreferences))

	assert.Equal(t, theme.ModeDark, s.Snapshot().Mode)
	assert.Empty(t, persister.saved)
}

func TestDispatchRejectsPaletteWithoutSwatch(t *testing.T) {
	ctx := context.Background()
	s := New(DefaultPreferences())

	next := DefaultPreferences()
	next.Palette = []theme.PaletteEntry{{Label: "Aurora", Value: "aurora"}, {Label: "Plaid", Value: "plaid"}}
	err := s.Dispatch(ctx, Hydrate{Preferences: next})
	assert.ErrorIs(t, err, ErrInvalidPreferences)
	assert.Contains(t, err.Error(), `Palette[1].Value has no built-in swatch for "plaid"`)
	assert.Equal(t, theme.Catalog(), s.Snapshot().Palette)

	next.Palette = []theme.PaletteEntry{{Label: "Blue", Value: "blue"}, {Label: "Green", Value: "green"}}
	next.Color = "green"
	assert.NoError(t, s.Dispatch(ctx, Hydrate{Preferences: next}))
}

func TestDispatchPersistsBeforeNotifying(t *testing.T) {
	ctx := context.Background()
	persister := &memoryPersister{}
	s := New(DefaultPreferences(), WithPersister(persister))

	var seen []Change
	s.Subscribe(func(c Change) {
		require.Len(t, persister.saved, len(seen)+1)
		seen = append(seen, c)
	})

	require.NoError(t, s.Dispatch(ctx, SetColor{Color: "forest"}))
	require.Len(t, seen, 1)
	assert.Equal(t, "set-color", seen[0].Intent.Kind())
	assert.Equal(t, "forest", seen[0].Preferences.Color)
}

func TestDispatchPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := New(DefaultPreferences(), WithPersister(&memoryPersister{saveErr: boom}))

	notified := false
	s.Subscribe(func(Change) { notified = true })

	err := s.Dispatch(ctx, SetColor{Color: "mono"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, theme.DefaultColor, s.Snapshot().Color)
	assert.False(t, notified)
}

func TestDispatchUnchangedIsSilent(t *testing.T) {
	ctx := context.Background()
	persister := &memoryPersister{}
	s := New(DefaultPreferences(), WithPersister(persister))

	calls := 0
	s.Subscribe(func(Change) { calls++ })

	require.NoError(t, s.Dispatch(ctx, SetMode{Mode: theme.ModeDark}))
	require.NoError(t, s.Dispatch(ctx, Hydrate{Preferences: DefaultPreferences()}))
	assert.Zero(t, calls)
	assert.Empty(t, persister.saved)
}

func TestSubscribeCancel(t *testing.T) {
	ctx := context.Background()
	s := New(DefaultPreferences())

	calls := 0
	cancel := s.Subscribe(func(Change) { calls++ })
	require.NoError(t, s.Dispatch(ctx, SetColor{Color: "ember"}))
	cancel()
	cancel()
	require.NoError(t, s.Dispatch(ctx, SetColor{Color: "ocean"}))

	assert.Equal(t, 1, calls)
}

func TestDispatchDeliversInApplyOrder(t *testing.T) {
	ctx := context.Background()
	s := New(DefaultPreferences())

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var delivered []string
	s.Subscribe(func(c Change) {
		if c.Preferences.Color == "ember" {
			close(entered)
			<-release
		}
		mu.Lock()
		delivered = append(delivered, c.Preferences.Color)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Dispatch(ctx, SetColor{Color: "ember"}))
	}()
	<-entered
	go func() {
		defer wg.Done()
		assert.NoError(t, s.Dispatch(ctx, SetColor{Color: "ocean"}))
	}()

	// The second dispatch must wait for the slow subscriber.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "ember", s.Snapshot().Color)
	close(release)
	wg.Wait()

	assert.Equal(t, []string{"ember", "ocean"}, delivered)
	assert.Equal(t, "ocean", s.Snapshot().Color)
}

func TestConcurrentDispatchLastDeliveryMatchesStore(t *testing.T) {
	ctx := context.Background()
	s := New(DefaultPreferences())

	var mu sync.Mutex
	var last Preferences
	count := 0
	s.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		last = c.Preferences
		count++
	})

	colors := []string{"ember", "ocean", "forest", "mono", "aurora", "ember", "ocean", "forest"}
	var wg sync.WaitGroup
	for _, color := range colors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next := DefaultPreferences()
			next.Color = color
			assert.NoError(t, s.Dispatch(ctx, Hydrate{Preferences: next}))
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, count)
	assert.Equal(t, s.Snapshot(), last)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(DefaultPreferences())
	snap := s.Snapshot()
	snap.Palette[0].Value = "mutated"

	assert.Equal(t, "aurora", s.Snapshot().Palette[0].Value)
}

func TestOpenLoadsThroughPersister(t *testing.T) {
	stored := DefaultPreferences()
	stored.Color = "amber"
	persister := &memoryPersister{stored: &stored}

	s, err := Open(context.Background(), persister, DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, "amber", s.Snapshot().Color)

	require.NoError(t, s.Dispatch(context.Background(), SetMode{Mode: theme.ModeLight}))
	assert.Len(t, persister.saved, 1)
}

func TestOpenRejectsInvalidStoredPreferences(t *testing.T) {
	stored := DefaultPreferences()
	stored.Direction = "sideways"

	_, err := Open(context.Background(), &memoryPersister{stored: &stored}, DefaultPreferences())
	assert.ErrorIs(t, err, ErrInvalidPreferences)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs", "prism.db"))
	require.NoError(t, err)
	defer db.Close()

	loaded, err := db.Load(ctx, DefaultPreferences())
	require.NoError(t, err)
	assert.True(t, loaded.Equal(DefaultPreferences()), "empty database should yield the fallback")

	want := DefaultPreferences()
	want.Color = "ocean"
	want.Mode = theme.ModeLight
	want.Direction = theme.RTL
	want.Gradient = false
	want.BgPosition = "header"
	want.Layout = "top-navigation"
	want.Palette = want.Palette[:2]
	require.NoError(t, db.Save(ctx, want))

	want.Layout = "sidebar"
	require.NoError(t, db.Save(ctx, want))

	got, err := db.Load(ctx, DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

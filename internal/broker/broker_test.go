package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/theme"
)

// bus delivers every publish synchronously to all subscribers, including the
// publisher, the way a NATS subject does.
type bus struct {
	mu        sync.Mutex
	nextID    int
	handlers  map[int]func([]byte)
	published [][]byte
	failWith  error
}

func newBus() *bus {
	return &bus{handlers: map[int]func([]byte){}}
}

func (b *bus) Publish(_ string, data []byte) error {
	b.mu.Lock()
	if b.failWith != nil {
		b.mu.Unlock()
		return b.failWith
	}
	b.published = append(b.published, data)
	handlers := make([]func([]byte), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

func (b *bus) Subscribe(_ string, handler func([]byte)) (func() error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[id] = handler
	return func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
		return nil
	}, nil
}

func (b *bus) messages(t *testing.T) []Message {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, 0, len(b.published))
	for _, data := range b.published {
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		out = append(out, msg)
	}
	return out
}

func startMirror(t *testing.T, b *bus, s *store.Store, origin string) *Mirror {
	t.Helper()
	m := NewMirror(b, "prism.test", s, WithOrigin(origin))
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMirrorPropagatesChanges(t *testing.T) {
	b := newBus()
	left := store.New(store.DefaultPreferences())
	right := store.New(store.DefaultPreferences())
	startMirror(t, b, left, "left")
	startMirror(t, b, right, "right")

	require.NoError(t, left.Dispatch(context.Background(), store.SetMode{Mode: theme.ModeLight}))

	assert.Equal(t, theme.ModeLight, right.Snapshot().Mode)
	msgs := b.messages(t)
	require.Len(t, msgs, 1, "remote hydration is not republished")
	assert.Equal(t, "left", msgs[0].Origin)
	assert.Equal(t, "set-mode", msgs[0].Intent)
}

func TestMirrorIgnoresOwnEcho(t *testing.T) {
	b := newBus()
	s := store.New(store.DefaultPreferences())
	var changes int
	s.Subscribe(func(store.Change) { changes++ })
	startMirror(t, b, s, "self")

	require.NoError(t, s.Dispatch(context.Background(), store.SetColor{Color: "ember"}))
	assert.Equal(t, 1, changes)
}

func TestMirrorRejectsInvalidRemote(t *testing.T) {
	b := newBus()
	s := store.New(store.DefaultPreferences())
	startMirror(t, b, s, "self")

	bad := store.DefaultPreferences()
	bad.Layout = "grid"
	data, err := json.Marshal(Message{Origin: "other", Preferences: bad})
	require.NoError(t, err)
	require.NoError(t, b.Publish("prism.test", data))
	require.NoError(t, b.Publish("prism.test", []byte("{not json")))

	assert.Equal(t, "big-sidebar", s.Snapshot().Layout)
}

func TestMirrorPublishSnapshot(t *testing.T) {
	b := newBus()
	s := store.New(store.DefaultPreferences())
	m := startMirror(t, b, s, "self")

	require.NoError(t, m.PublishSnapshot())
	msgs := b.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "snapshot", msgs[0].Intent)
	assert.Equal(t, store.DefaultPreferences(), msgs[0].Preferences)
}

func TestMirrorCloseStopsBothDirections(t *testing.T) {
	b := newBus()
	left := store.New(store.DefaultPreferences())
	right := store.New(store.DefaultPreferences())
	l := startMirror(t, b, left, "left")
	startMirror(t, b, right, "right")

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	require.NoError(t, left.Dispatch(context.Background(), store.SetColor{Color: "ocean"}))
	assert.Equal(t, "aurora", right.Snapshot().Color)

	require.NoError(t, right.Dispatch(context.Background(), store.SetColor{Color: "forest"}))
	assert.Equal(t, "ocean", left.Snapshot().Color)
}

func TestMirrorStartTwice(t *testing.T) {
	m := startMirror(t, newBus(), store.New(store.DefaultPreferences()), "self")
	assert.Error(t, m.Start(context.Background()))
}

func TestMirrorPublishFailureKeepsLocalChange(t *testing.T) {
	b := newBus()
	b.failWith = errors.New("no responders")
	s := store.New(store.DefaultPreferences())
	startMirror(t, b, s, "self")

	require.NoError(t, s.Dispatch(context.Background(), store.SetLayout{Layout: "mega-menu"}))
	assert.Equal(t, "mega-menu", s.Snapshot().Layout)
}

func TestGeneratedOriginsDiffer(t *testing.T) {
	s := store.New(store.DefaultPreferences())
	a := NewMirror(newBus(), "x", s)
	c := NewMirror(newBus(), "x", s)
	assert.NotEmpty(t, a.Origin())
	assert.NotEqual(t, a.Origin(), c.Origin())
}

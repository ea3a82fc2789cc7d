package store

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Persister saves preferences somewhere durable.
type Persister interface {
	// Load returns the stored preferences merged over fallback. A missing
	// store is not an error.
	Load(ctx context.Context, fallback Preferences) (Preferences, error)
	Save(ctx context.Context, p Preferences) error
}

// Change is delivered to subscribers after every accepted intent.
type Change struct {
	Intent      Intent
	Preferences Preferences
}

// Option configures a Store.
type Option func(*Store)

// WithPersister saves every accepted change through p.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the store logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is safe for concurrent use. Dispatches run one at a time, from
// reducing the intent until every subscriber has returned, so subscribers see
// changes in the order they were applied. A subscriber must not dispatch to
// the same store synchronously.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.Mutex
	prefs     Preferences
	persister Persister
	logger    *log.Logger

	subMu  sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(Change)
}

// New creates a store holding initial. The initial value is not validated or
// persisted.
func New(initial Preferences, opts ...Option) *Store {
	s := &Store{
		prefs:  initial.Clone(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads preferences through p, falling back to defaults, and returns a
// store that persists through p.
func Open(ctx context.Context, p Persister, defaults Preferences, opts ...Option) (*Store, error) {
	prefs, err := p.Load(ctx, defaults)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	if err := Validate(prefs); err != nil {
		return nil, err
	}
	opts = append([]Option{WithPersister(p)}, opts...)
	return New(prefs, opts...), nil
}

// Snapshot returns a copy of the current preferences.
func (s *Store) Snapshot() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}

// Dispatch applies intent. The change is validated and persisted before it
// becomes visible; subscribers are notified afterwards. Intents that leave
// preferences unchanged are accepted without persisting or notifying.
func (s *Store) Dispatch(ctx context.Context, intent Intent) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	next := intent.Apply(s.prefs.Clone())
	if next.Equal(s.prefs) {
		s.mu.Unlock()
		s.logger.Debug("intent left preferences unchanged", "intent", intent.Kind())
		return nil
	}
	if err := Validate(next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", intent.Kind(), err)
	}
	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("persisting preferences: %w", err)
		}
	}
	s.prefs = next
	s.mu.Unlock()

	s.logger.Debug("preferences updated", "intent", intent.Kind())
	s.notify(Change{Intent: intent, Preferences: next.Clone()})
	return nil
}

// Subscribe registers fn for future changes. The returned func removes it.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) notify(change Change) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(change)
	}
}

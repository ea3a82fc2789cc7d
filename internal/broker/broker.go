// Package broker mirrors preference changes between prism processes over NATS.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/iiroan/prism/internal/store"
)

// Message is the wire form of a preferences snapshot.
type Message struct {
	Origin      string            `json:"origin"`
	Intent      string            `json:"intent"`
	Preferences store.Preferences `json:"preferences"`
	SentAt      time.Time         `json:"sent_at"`
}

// Transport publishes and receives raw payloads on a subject.
type Transport interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func() error, err error)
}

// Source is the store being mirrored.
type Source interface {
	Snapshot() store.Preferences
	Dispatch(ctx context.Context, intent store.Intent) error
	Subscribe(fn func(store.Change)) (cancel func())
}

// remoteHydrate marks hydrations that arrived from another process so they
// are not published again.
type remoteHydrate struct {
	store.Hydrate
	origin string
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithOrigin overrides the generated origin id.
func WithOrigin(id string) Option {
	return func(m *Mirror) {
		m.origin = id
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Mirror) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Mirror publishes local changes of a store and hydrates it with changes
// published by other processes on the same subject.
type Mirror struct {
	transport Transport
	subject   string
	source    Source
	origin    string
	logger    *log.Logger

	mu          sync.Mutex
	ctx         context.Context
	cancelStore func()
	unsubscribe func() error
}

// NewMirror returns a mirror for source on subject. Call Start to begin.
func NewMirror(t Transport, subject string, source Source, opts ...Option) *Mirror {
	m := &Mirror{
		transport: t,
		subject:   subject,
		source:    source,
		origin:    strings.TrimPrefix(nats.NewInbox(), nats.InboxPrefix),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Origin returns the id stamped on published messages.
func (m *Mirror) Origin() string {
	return m.origin
}

// Start subscribes to the subject and to the store. Remote hydrations are
// dispatched with ctx.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		return errors.New("mirror already started")
	}

	unsubscribe, err := m.transport.Subscribe(m.subject, m.receive)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", m.subject, err)
	}
	m.ctx = ctx
	m.unsubscribe = unsubscribe
	m.cancelStore = m.source.Subscribe(m.publish)
	m.logger.Debug("mirroring preferences", "subject", m.subject, "origin", m.origin)
	return nil
}

// PublishSnapshot sends the current preferences, letting late joiners catch up.
func (m *Mirror) PublishSnapshot() error {
	return m.send("snapshot", m.source.Snapshot())
}

// Close stops both directions. It is safe to call more than once.
func (m *Mirror) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelStore != nil {
		m.cancelStore()
		m.cancelStore = nil
	}
	if m.unsubscribe == nil {
		return nil
	}
	err := m.unsubscribe()
	m.unsubscribe = nil
	return err
}

func (m *Mirror) publish(change store.Change) {
	if _, remote := change.Intent.(remoteHydrate); remote {
		return
	}
	if err := m.send(change.Intent.Kind(), change.Preferences); err != nil {
		m.logger.Warn("could not publish preferences", "subject", m.subject, "error", err)
	}
}

func (m *Mirror) send(intent string, prefs store.Preferences) error {
	data, err := json.Marshal(Message{
		Origin:      m.origin,
		Intent:      intent,
		Preferences: prefs,
		SentAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	return m.transport.Publish(m.subject, data)
}

func (m *Mirror) receive(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		m.logger.Warn("dropping malformed message", "subject", m.subject, "error", err)
		return
	}
	if msg.Origin == m.origin {
		return
	}

	m.mu.Lock()
	ctx := m.ctx
	m.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	intent := remoteHydrate{Hydrate: store.Hydrate{Preferences: msg.Preferences}, origin: msg.Origin}
	if err := m.source.Dispatch(ctx, intent); err != nil {
		m.logger.Warn("rejected remote preferences", "origin", msg.Origin, "error", err)
		return
	}
	m.logger.Debug("applied remote preferences", "origin", msg.Origin, "intent", msg.Intent)
}

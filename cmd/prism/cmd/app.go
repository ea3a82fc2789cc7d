package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iiroan/prism/internal/broker"
	"github.com/iiroan/prism/internal/config"
	"github.com/iiroan/prism/internal/controller"
	"github.com/iiroan/prism/internal/store"
	"github.com/iiroan/prism/internal/theme"
	"github.com/iiroan/prism/internal/ui"
)

// session is an opened store with its theme controller and, when
// configured, the NATS mirror.
type session struct {
	store    *store.Store
	ctrl     *controller.Controller
	file     *config.PreferencesFile
	mirror   *broker.Mirror
	progress chan ui.LoadingUpdate
	updates  *uiUpdates
	closers  []func() error
}

type sessionOptions struct {
	broker bool
}

func openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	s := &session{
		progress: make(chan ui.LoadingUpdate, 1),
		updates:  newUIUpdates(),
	}

	persister, err := s.openPersister()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, persister, cfg.Preferences, store.WithLogger(logger))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening preferences: %w", err)
	}
	s.store = st

	policy, ok := controller.ParseColorPolicy(cfg.Controller.ColorPolicy)
	if !ok {
		s.Close()
		return nil, fmt.Errorf("unknown color policy %q", cfg.Controller.ColorPolicy)
	}

	ctrl, err := controller.New(st,
		controller.WithDocument(ui.DefaultDocument),
		controller.WithColorPolicy(policy),
		controller.WithLogger(logger),
		controller.WithObserver(controller.ObserverFuncs{
			OnTheme: s.updates.postTheme,
			OnProgress: func(value float64, state controller.ProgressState) {
				offerProgress(s.progress, ui.LoadingUpdate{Value: value, Done: state == controller.ProgressDone})
			},
		}),
	)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.ctrl = ctrl
	s.closers = append([]func() error{ctrl.Close}, s.closers...)
	ui.ApplyTheme(ctrl.Theme(), colorDisabled())
	applyUISettings(st.Snapshot())

	cancel := st.Subscribe(func(change store.Change) {
		s.updates.postPreferences(change.Preferences)
		// Hydrations come from the file watcher or another process.
		if change.Intent.Kind() == "hydrate" {
			ctrl.Refresh()
		}
	})
	s.closers = append([]func() error{func() error { cancel(); return nil }}, s.closers...)

	if opts.broker && cfg.Broker.Enabled {
		if err := s.startMirror(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) openPersister() (store.Persister, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		return db, nil
	default:
		s.file = config.NewPreferencesFile(cfg.Store.Path)
		return s.file, nil
	}
}

func (s *session) startMirror(ctx context.Context) error {
	conn, err := broker.Connect(cfg.Broker.URL, logger)
	if err != nil {
		return err
	}
	s.closers = append([]func() error{conn.Close}, s.closers...)

	s.mirror = broker.NewMirror(conn, cfg.Broker.Subject, s.store, broker.WithLogger(logger))
	if err := s.mirror.Start(ctx); err != nil {
		return err
	}
	s.closers = append([]func() error{s.mirror.Close}, s.closers...)
	logger.Debug("broker connected", "url", cfg.Broker.URL, "subject", cfg.Broker.Subject)
	return nil
}

// Close releases everything in reverse order of acquisition.
func (s *session) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// uiUpdates carries theme and preference changes from timer, watcher and
// broker goroutines to the command goroutine, which alone touches the ui
// package globals. Only the newest value of each kind is kept.
type uiUpdates struct {
	mu    sync.Mutex
	theme *theme.Resolved
	prefs *store.Preferences
	ready chan struct{}
}

func newUIUpdates() *uiUpdates {
	return &uiUpdates{ready: make(chan struct{}, 1)}
}

func (u *uiUpdates) postTheme(r theme.Resolved) {
	u.mu.Lock()
	u.theme = &r
	u.mu.Unlock()
	u.signal()
}

func (u *uiUpdates) postPreferences(p store.Preferences) {
	p = p.Clone()
	u.mu.Lock()
	u.prefs = &p
	u.mu.Unlock()
	u.signal()
}

func (u *uiUpdates) signal() {
	select {
	case u.ready <- struct{}{}:
	default:
	}
}

// Ready receives a value whenever updates are pending.
func (u *uiUpdates) Ready() <-chan struct{} {
	return u.ready
}

// apply installs pending updates into the ui package.
func (u *uiUpdates) apply() {
	u.mu.Lock()
	r, p := u.theme, u.prefs
	u.theme, u.prefs = nil, nil
	u.mu.Unlock()

	if r != nil {
		ui.ApplyTheme(*r, colorDisabled())
	}
	if p != nil {
		applyUISettings(*p)
	}
}

// waitForColor applies updates until the active ui theme shows color or
// timeout passes.
func (u *uiUpdates) waitForColor(ctx context.Context, color string, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		u.apply()
		if ui.ActiveTheme().Color == color {
			return true
		}
		select {
		case <-u.ready:
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// offerProgress keeps only the newest update when the reader falls behind.
func offerProgress(ch chan ui.LoadingUpdate, update ui.LoadingUpdate) {
	for {
		select {
		case ch <- update:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iiroan/prism/internal/store"
)

// PreferencesFile persists preferences as a YAML document.
type PreferencesFile struct {
	path string
}

var _ store.Persister = (*PreferencesFile)(nil)

// NewPreferencesFile returns a persister writing to path.
func NewPreferencesFile(path string) *PreferencesFile {
	return &PreferencesFile{path: path}
}

// Path returns the file location.
func (f *PreferencesFile) Path() string {
	return f.path
}

// Load reads the file over fallback. Fields missing from the file keep their
// fallback values.
func (f *PreferencesFile) Load(_ context.Context, fallback store.Preferences) (store.Preferences, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback.Clone(), nil
		}
		return fallback, fmt.Errorf("reading preferences: %w", err)
	}

	prefs := fallback.Clone()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return fallback, fmt.Errorf("parsing preferences: %w", err)
	}
	return prefs, nil
}

// Save writes the file through a temporary sibling so readers never observe a
// partial document.
func (f *PreferencesFile) Save(_ context.Context, p store.Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prism-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}

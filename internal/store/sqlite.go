package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iiroan/prism/internal/theme"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLite persists preferences as key/value rows.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context, fallback Preferences) (Preferences, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences`)
	if err != nil {
		return fallback, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close()

	prefs := fallback.Clone()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fallback, fmt.Errorf("scanning preference: %w", err)
		}
		if err := assignField(&prefs, key, value); err != nil {
			return fallback, err
		}
	}
	if err := rows.Err(); err != nil {
		return fallback, fmt.Errorf("reading preferences: %w", err)
	}
	return prefs, nil
}

func (s *SQLite) Save(ctx context.Context, p Preferences) error {
	palette, err := json.Marshal(p.Palette)
	if err != nil {
		return fmt.Errorf("encoding palette: %w", err)
	}

	values := [][2]string{
		{"color", p.Color},
		{"mode", string(p.Mode)},
		{"direction", string(p.Direction)},
		{"gradient", strconv.FormatBool(p.Gradient)},
		{"decoration", strconv.FormatBool(p.Decoration)},
		{"bg_position", p.BgPosition},
		{"layout", p.Layout},
		{"palette", string(palette)},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, kv := range values {
		if _, err := stmt.ExecContext(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("saving %s: %w", kv[0], err)
		}
	}
	return tx.Commit()
}

func assignField(p *Preferences, key, value string) error {
	switch key {
	case "color":
		p.Color = value
	case "mode":
		p.Mode = theme.Mode(value)
	case "direction":
		p.Direction = theme.Direction(value)
	case "gradient", "decoration":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		if key == "gradient" {
			p.Gradient = b
		} else {
			p.Decoration = b
		}
	case "bg_position":
		p.BgPosition = value
	case "layout":
		p.Layout = value
	case "palette":
		var palette []theme.PaletteEntry
		if err := json.Unmarshal([]byte(value), &palette); err != nil {
			return fmt.Errorf("parsing palette: %w", err)
		}
		p.Palette = palette
	}
	return nil
}

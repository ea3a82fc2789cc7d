package ui

import (
	"sync"

	"github.com/iiroan/prism/internal/theme"
)

// Document carries the ambient text direction that Frame and the menus
// align against.
type Document struct {
	mu  sync.RWMutex
	dir theme.Direction
}

// DefaultDocument is the process-wide document.
var DefaultDocument = &Document{dir: theme.LTR}

// SetDir sets the text direction.
func (d *Document) SetDir(dir theme.Direction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dir = dir
}

// Dir returns the text direction.
func (d *Document) Dir() theme.Direction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dir
}

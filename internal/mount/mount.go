// Package mount owns the terminal's single mounted-view slot. Mounting a
// view replaces the authoring loop with a full-screen Bubble Tea program
// until the view ends; exactly one view is mounted at a time.
package mount

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/playforge/playforge/internal/gameview"
)

// ErrBusy is returned when a view is already mounted. The interactive loop
// never triggers this (it blocks while a view runs), but the MCP surface
// and tests share the same mounter.
var ErrBusy = errors.New("a view is already mounted")

// Mounter runs one view at a time in the terminal.
type Mounter struct {
	mu     sync.Mutex
	active bool
}

// New creates a Mounter with nothing mounted.
func New() *Mounter {
	return &Mounter{}
}

// Mount takes over the terminal (alt screen) and runs the view until it
// returns false from Update, its code fails, or the user hits ctrl+c. The
// previous screen contents are restored on return. The call blocks for the
// lifetime of the view.
func (m *Mounter) Mount(title string, view gameview.View) error {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return ErrBusy
	}
	m.active = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active = false
		m.mu.Unlock()
	}()

	p := tea.NewProgram(newModel(title, view), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("view runtime failed: %w", err)
	}
	if fm, ok := final.(model); ok && fm.runErr != nil {
		return fm.runErr
	}
	return nil
}

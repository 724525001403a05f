package mode

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/vim"
)

var (
	// ErrUnknownMode is returned when switching to a mode that is not registered.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNoMode is returned when no mode is active.
	ErrNoMode = errors.New("no active mode")
)

// Manager manages editor modes and coordinates mode transitions.
// Exactly one registered mode is active at a time.
type Manager struct {
	mu sync.RWMutex

	// modes holds all registered modes by name.
	modes map[string]Mode

	// current is the active mode.
	current Mode

	// callbacks are notified on mode changes.
	callbacks []ModeChangeCallback
}

// ModeChangeCallback is called when the mode changes.
type ModeChangeCallback func(from, to Mode)

// NewManager creates a new mode manager.
func NewManager() *Manager {
	return &Manager{
		modes: make(map[string]Mode),
	}
}

// Register adds a mode to the manager.
// If a mode with the same name exists, it is replaced.
func (m *Manager) Register(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[mode.Name()] = mode
}

// Current returns the current mode.
// Returns nil if no mode is set.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the name of the current mode.
// Returns empty string if no mode is set.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Switch changes to a different mode, calling Exit on the current mode and
// Enter on the new one. Switching to the active mode does nothing.
// When the hint carries an OnEnter command, it runs once the new mode is
// active.
func (m *Manager) Switch(vc vim.Context, name string, hint vim.ModeHint) error {
	m.mu.Lock()

	newMode, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	if newMode == m.current {
		m.mu.Unlock()
		return nil
	}

	oldMode, callbacks, err := m.switchToLocked(newMode, &Context{Context: vc, Hint: hint})
	m.mu.Unlock()

	if err != nil {
		return err
	}

	// Notify callbacks outside of lock
	for _, cb := range callbacks {
		if cb != nil {
			cb(oldMode, newMode)
		}
	}

	if hint.OnEnter != nil {
		return hint.OnEnter.Execute(vc)
	}
	return nil
}

// switchToLocked performs the mode switch (must hold lock).
// Returns the old mode and callbacks to notify.
func (m *Manager) switchToLocked(newMode Mode, ctx *Context) (Mode, []ModeChangeCallback, error) {
	oldMode := m.current

	// Exit current mode
	if oldMode != nil {
		ctx.NextMode = newMode.Name()
		if err := oldMode.Exit(ctx); err != nil {
			return nil, nil, fmt.Errorf("exit %s: %w", oldMode.Name(), err)
		}
	}

	// Enter new mode
	if oldMode != nil {
		ctx.PreviousMode = oldMode.Name()
	} else {
		ctx.PreviousMode = ""
	}
	ctx.NextMode = ""

	if err := newMode.Enter(ctx); err != nil {
		return nil, nil, fmt.Errorf("enter %s: %w", newMode.Name(), err)
	}

	m.current = newMode

	// Copy callbacks to call outside of lock
	callbacks := make([]ModeChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)

	return oldMode, callbacks, nil
}

// HandleKey routes a key event to the active mode.
func (m *Manager) HandleKey(vc vim.Context, event key.Event) (Result, error) {
	current := m.Current()
	if current == nil {
		return Result{Status: Aborted}, ErrNoMode
	}
	return current.HandleKey(NewContext(vc), event), nil
}

// Settle lets the active mode adjust the caret after a command ran.
func (m *Manager) Settle(vc vim.Context) error {
	if s, ok := m.Current().(Settler); ok {
		return s.Settle(NewContext(vc))
	}
	return nil
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Manager) OnChange(callback ModeChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// Modes returns the names of all registered modes, sorted.
func (m *Manager) Modes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.modes))
	for name := range m.modes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetInitialMode activates the first mode. It calls Enter but no Exit.
func (m *Manager) SetInitialMode(vc vim.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mode, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}

	if err := mode.Enter(NewContext(vc)); err != nil {
		return fmt.Errorf("enter %s: %w", name, err)
	}
	m.current = mode
	return nil
}

// IsMode returns true if the current mode matches the given name.
func (m *Manager) IsMode(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil && m.current.Name() == name
}

package input

import (
	"sort"
	"sync"

	"github.com/dshills/modalkeys/internal/input/key"
)

// Hook allows interception of key handling.
type Hook interface {
	// PreKey is called before a key is resolved. mode is the active mode.
	// Return true to consume the event (stop further processing).
	PreKey(event *key.Event, mode string) bool

	// PostKey is called after a key was handled.
	PostKey(event key.Event, out Outcome)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager runs hooks in priority order. Hooks with equal priority run
// in registration order.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithOptions adds a hook with a name and priority.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	return m.remove(func(r HookRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	return m.remove(func(r HookRegistration) bool { return r.Name == name })
}

func (m *HookManager) remove(match func(HookRegistration) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.hooks {
		if match(m.hooks[i]) {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]HookRegistration(nil), m.hooks...)
}

func (m *HookManager) active() []HookRegistration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.enabled {
		return nil
	}
	return append([]HookRegistration(nil), m.hooks...)
}

// RunPreKey runs all PreKey hooks in priority order.
// Returns true if any hook consumed the event.
func (m *HookManager) RunPreKey(event *key.Event, mode string) bool {
	for _, reg := range m.active() {
		if reg.Hook.PreKey(event, mode) {
			return true
		}
	}
	return false
}

// RunPostKey runs all PostKey hooks in priority order.
func (m *HookManager) RunPostKey(event key.Event, out Outcome) {
	for _, reg := range m.active() {
		reg.Hook.PostKey(event, out)
	}
}

// FuncHook wraps functions into a Hook. Nil functions are skipped.
type FuncHook struct {
	Pre  func(event *key.Event, mode string) bool
	Post func(event key.Event, out Outcome)
}

// PreKey calls Pre if set.
func (h FuncHook) PreKey(event *key.Event, mode string) bool {
	if h.Pre == nil {
		return false
	}
	return h.Pre(event, mode)
}

// PostKey calls Post if set.
func (h FuncHook) PostKey(event key.Event, out Outcome) {
	if h.Post != nil {
		h.Post(event, out)
	}
}

// LoggingHook logs every key and its outcome at debug level.
type LoggingHook struct {
	Logger Logger
}

// PreKey logs the key event.
func (h LoggingHook) PreKey(event *key.Event, mode string) bool {
	h.Logger.Debug("key %s in %s mode", event, mode)
	return false
}

// PostKey logs the outcome.
func (h LoggingHook) PostKey(event key.Event, out Outcome) {
	h.Logger.Debug("key %s: %s", event, out)
}

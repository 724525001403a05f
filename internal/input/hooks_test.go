package input

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/modalkeys/internal/input/key"
)

func TestHookManagerOrder(t *testing.T) {
	m := NewHookManager()
	var order []string
	add := func(name string, priority HookPriority) HookID {
		return m.RegisterWithOptions(FuncHook{
			Pre: func(*key.Event, string) bool {
				order = append(order, name)
				return false
			},
		}, name, priority)
	}

	add("normal-1", HookPriorityNormal)
	add("low", HookPriorityLow)
	add("highest", HookPriorityHighest)
	add("normal-2", HookPriorityNormal)

	ev := key.Rune('x')
	if m.RunPreKey(&ev, "normal") {
		t.Fatal("RunPreKey() consumed the event")
	}
	want := "highest,normal-1,normal-2,low"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestHookManagerConsume(t *testing.T) {
	m := NewHookManager()
	var later bool
	m.RegisterWithOptions(FuncHook{
		Pre: func(event *key.Event, _ string) bool {
			*event = key.Rune('y')
			return true
		},
	}, "swap", HookPriorityHigh)
	m.Register(FuncHook{
		Pre: func(*key.Event, string) bool {
			later = true
			return false
		},
	})

	ev := key.Rune('x')
	if !m.RunPreKey(&ev, "normal") {
		t.Fatal("RunPreKey() = false, want true")
	}
	if later {
		t.Error("hook after a consuming hook ran")
	}
	if !ev.Is('y') {
		t.Errorf("event = %v, want y", ev)
	}
}

func TestHookManagerRemove(t *testing.T) {
	m := NewHookManager()
	id := m.Register(FuncHook{})
	m.RegisterWithOptions(FuncHook{}, "named", HookPriorityNormal)

	if got := m.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	if !m.Unregister(id) {
		t.Error("Unregister() = false, want true")
	}
	if m.Unregister(id) {
		t.Error("second Unregister() = true, want false")
	}
	if m.UnregisterByName("") {
		t.Error("UnregisterByName(\"\") = true, want false")
	}
	if !m.UnregisterByName("named") {
		t.Error("UnregisterByName() = false, want true")
	}
	if got := len(m.List()); got != 0 {
		t.Errorf("List() has %d hooks, want 0", got)
	}
}

func TestHookManagerDisabled(t *testing.T) {
	m := NewHookManager()
	m.Register(FuncHook{Pre: func(*key.Event, string) bool { return true }})
	m.SetEnabled(false)

	ev := key.Rune('x')
	if m.RunPreKey(&ev, "normal") {
		t.Error("disabled hooks consumed the event")
	}
}

func TestLoggingHook(t *testing.T) {
	logger := newRecordingLogger()
	h, _ := newTestHandler(t, "abc", 0)
	h.Hooks().Register(LoggingHook{Logger: logger})

	feed(t, h, "x")
	if got := logger.count("DEBUG"); got != 2 {
		t.Errorf("debug lines = %d, want 2", got)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	h, _ := newTestHandler(t, "abc def", 0, func(c *Config) { c.Metrics = m })

	feed(t, h, "dwgzi<Esc>")

	snap := m.Snapshot()
	want := MetricsSnapshot{Keys: 6, Pending: 2, Executed: 3, Aborted: 1, ModeSwitches: 2}
	if snap != want {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}

	var buf bytes.Buffer
	m.WritePrometheus(&buf)
	for _, name := range []string{"modalkeys_keys_total 6", `modalkeys_key_outcomes_total{outcome="aborted"} 1`, "modalkeys_key_duration_seconds"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("WritePrometheus() output lacks %q", name)
		}
	}

	m.SetEnabled(false)
	feed(t, h, "x")
	if got := m.Snapshot().Keys; got != 6 {
		t.Errorf("Keys after disabling = %d, want 6", got)
	}

	var nilMetrics *Metrics
	if nilMetrics.IsEnabled() {
		t.Error("nil metrics reported enabled")
	}
}

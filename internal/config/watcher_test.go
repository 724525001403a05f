package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modalkeys.toml")

	w, err := Watch(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	// Changes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stupid_cw = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != w.Path() {
			t.Errorf("event path = %q, want %q", ev.Path, w.Path())
		}
		if ev.Op&(OpCreate|OpWrite) == 0 {
			t.Errorf("event op = %v, want create or write", ev.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event for the settings file")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "modalkeys.yaml"))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() still open after Close")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "none"},
		{OpWrite, "write"},
		{OpCreate | OpWrite, "create|write"},
		{OpRemove | OpRename, "remove|rename"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

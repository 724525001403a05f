package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.InitialMode != "normal" || !cfg.StupidCW || !cfg.StupidY || cfg.UseSystemClipboard {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "modalkeys.toml",
			content: `stupid_cw = false
log_level = "debug"

[[mappings]]
mode = "normal"
keys = "Q"
to = "dd"
`,
		},
		{
			name: "yaml",
			file: "modalkeys.yaml",
			content: `stupid_cw: false
log_level: debug
mappings:
  - mode: normal
    keys: Q
    to: dd
`,
		},
		{
			name: "yml",
			file: "modalkeys.yml",
			content: `stupid_cw: false
log_level: debug
mappings:
  - {mode: normal, keys: Q, to: dd}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.StupidCW {
				t.Error("StupidCW = true, want false")
			}
			if !cfg.StupidY {
				t.Error("StupidY = false, want the default true")
			}
			if cfg.LogLevel != "debug" {
				t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
			}
			want := Mapping{Mode: "normal", Keys: "Q", To: "dd"}
			if len(cfg.Mappings) != 1 || cfg.Mappings[0] != want {
				t.Errorf("Mappings = %+v, want [%+v]", cfg.Mappings, want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InitialMode != Default().InitialMode || cfg.LogLevel != Default().LogLevel {
		t.Errorf("Load(missing) = %+v, want defaults", cfg)
	}

	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") error = %v", err)
	}
}

func TestLoadHookScript(t *testing.T) {
	path := writeFile(t, "modalkeys.toml", "hook_script = \"hooks.lua\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(filepath.Dir(path), "hooks.lua")
	if cfg.HookScript != want {
		t.Errorf("HookScript = %q, want %q", cfg.HookScript, want)
	}

	abs := filepath.Join(t.TempDir(), "abs.lua")
	cfg, err = Load(writeFile(t, "modalkeys.yaml", "hook_script: "+abs+"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HookScript != abs {
		t.Errorf("HookScript = %q, want %q", cfg.HookScript, abs)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := Load(writeFile(t, "modalkeys.ini", "stupid_cw=false"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("error = %v, want ErrUnsupportedFormat", err)
		}
	})

	t.Run("toml syntax", func(t *testing.T) {
		_, err := Load(writeFile(t, "modalkeys.toml", "stupid_cw = false\nlog_level = \n"))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("error = %v, want *ParseError", err)
		}
		if perr.Line != 2 {
			t.Errorf("Line = %d, want 2", perr.Line)
		}
		if !strings.Contains(perr.Error(), "modalkeys.toml") {
			t.Errorf("Error() = %q, want the path", perr.Error())
		}
	})

	t.Run("yaml syntax", func(t *testing.T) {
		_, err := Load(writeFile(t, "modalkeys.yaml", "stupid_cw: [\n"))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("error = %v, want *ParseError", err)
		}
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := Load(writeFile(t, "modalkeys.toml", `log_level = "loud"`))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("incomplete mapping", func(t *testing.T) {
		_, err := Load(writeFile(t, "modalkeys.yaml", "mappings:\n  - {mode: normal, keys: Q}\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, "modalkeys.toml", "stupid_y = true\n")
	t.Setenv("MODALKEYS_STUPID_Y", "false")
	t.Setenv("MODALKEYS_CLIPBOARD", "1")
	t.Setenv("MODALKEYS_INITIAL_MODE", "insert")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StupidY {
		t.Error("StupidY = true, want the environment's false")
	}
	if !cfg.UseSystemClipboard {
		t.Error("UseSystemClipboard = false, want true")
	}
	if cfg.InitialMode != "insert" {
		t.Errorf("InitialMode = %q, want %q", cfg.InitialMode, "insert")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MODALKEYS_LOG_LEVEL":   "warn",
		"MODALKEYS_METRICS":     "false",
		"MODALKEYS_HOOK_SCRIPT": "/tmp/hooks.lua",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.Metrics || cfg.HookScript != "/tmp/hooks.lua" {
		t.Errorf("ApplyEnv() = %+v", cfg)
	}

	env["MODALKEYS_STUPID_CW"] = "maybe"
	if err := ApplyEnv(&cfg, lookup); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ApplyEnv(bad bool) error = %v, want ErrInvalidValue", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader("metrics: false\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Metrics {
		t.Error("Metrics = true, want false")
	}

	if _, err := Parse(strings.NewReader(""), Format(9)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse(unknown format) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.toml", FormatTOML},
		{"a.TOML", FormatTOML},
		{"dir/a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %v, %v, want %v", tt.path, got, err, tt.want)
		}
	}
	if _, err := FormatOf("a.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf(json) error = %v, want ErrUnsupportedFormat", err)
	}
}

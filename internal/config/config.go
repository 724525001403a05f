package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a settings file format.
type Format uint8

const (
	// FormatTOML is the TOML format.
	FormatTOML Format = iota + 1
	// FormatYAML is the YAML format.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format for path based on its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Mapping is a user key remap. Keys in Mode run what To would run.
type Mapping struct {
	Mode string `toml:"mode" yaml:"mode"`
	Keys string `toml:"keys" yaml:"keys"`
	To   string `toml:"to" yaml:"to"`
}

// Config holds the interpreter settings.
type Config struct {
	// InitialMode is the mode entered at start.
	InitialMode string `toml:"initial_mode" yaml:"initial_mode"`

	// StupidCW makes "cw" act like "ce".
	StupidCW bool `toml:"stupid_cw" yaml:"stupid_cw"`

	// StupidY makes "Y" yank the whole line.
	StupidY bool `toml:"stupid_y" yaml:"stupid_y"`

	// UseSystemClipboard backs the '+' and '*' registers with the system
	// clipboard.
	UseSystemClipboard bool `toml:"use_system_clipboard" yaml:"use_system_clipboard"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Metrics enables interpreter metrics.
	Metrics bool `toml:"metrics" yaml:"metrics"`

	// HookScript is a Lua file defining pre_key and post_key hooks.
	// Relative paths resolve against the settings file.
	HookScript string `toml:"hook_script" yaml:"hook_script"`

	// Mappings are user key remaps.
	Mappings []Mapping `toml:"mappings" yaml:"mappings"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		InitialMode: "normal",
		StupidCW:    true,
		StupidY:     true,
		LogLevel:    "info",
		Metrics:     true,
	}
}

// Load reads the settings file at path over the defaults, then applies the
// environment. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			format, err := FormatOf(path)
			if err != nil {
				return Config{}, err
			}
			if err := decode(path, data, format, &cfg); err != nil {
				return Config{}, err
			}
			if cfg.HookScript != "" && !filepath.IsAbs(cfg.HookScript) {
				cfg.HookScript = filepath.Join(filepath.Dir(path), cfg.HookScript)
			}
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads settings in format from r over the defaults. The environment
// is not consulted.
func Parse(r io.Reader, format Format) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := decode("<reader>", data, format, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode unmarshals data into cfg, keeping the values of absent keys.
func decode(source string, data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			perr := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return perr
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return nil
}

// Validate checks every setting with a restricted domain.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.LogLevel)
	}
	if c.InitialMode == "" {
		return fmt.Errorf("%w: initial_mode is empty", ErrInvalidValue)
	}
	for i, m := range c.Mappings {
		if m.Mode == "" || m.Keys == "" || m.To == "" {
			return fmt.Errorf("%w: mappings[%d] needs mode, keys and to", ErrInvalidValue, i)
		}
	}
	return nil
}

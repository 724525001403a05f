package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "MODALKEYS_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(name string) (string, bool)

// ApplyEnv overrides settings from the environment:
//
//	MODALKEYS_INITIAL_MODE  initial_mode
//	MODALKEYS_STUPID_CW     stupid_cw
//	MODALKEYS_STUPID_Y      stupid_y
//	MODALKEYS_CLIPBOARD     use_system_clipboard
//	MODALKEYS_LOG_LEVEL     log_level
//	MODALKEYS_METRICS       metrics
//	MODALKEYS_HOOK_SCRIPT   hook_script
//
// Empty values are treated as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if v, ok := lookup(EnvPrefix + "INITIAL_MODE"); ok {
		cfg.InitialMode = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "HOOK_SCRIPT"); ok {
		cfg.HookScript = v
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"STUPID_CW", &cfg.StupidCW},
		{"STUPID_Y", &cfg.StupidY},
		{"CLIPBOARD", &cfg.UseSystemClipboard},
		{"METRICS", &cfg.Metrics},
	}
	for _, b := range bools {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, b.name, v)
		}
		*b.dst = parsed
	}
	return nil
}

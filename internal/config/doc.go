// Package config loads the settings of the key interpreter.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← MODALKEYS_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← modalkeys.toml / modalkeys.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Vim's defaults
//	└─────────────────────────────┘
//
// # File Formats
//
// The format follows the file extension: ".toml" files are read with
// go-toml, ".yaml" and ".yml" files with yaml.v3. Both use the same keys:
//
//	initial_mode = "normal"
//	stupid_cw = true
//	stupid_y = true
//	use_system_clipboard = false
//	log_level = "info"
//	metrics = true
//	hook_script = "hooks.lua"
//
//	[[mappings]]
//	mode = "normal"
//	keys = "Q"
//	to = "dd"
//
// A settings file that does not exist is not an error; the defaults apply.
//
// # Live Reload
//
// Watch reports changes to the settings file on a channel. The host reloads
// the file between key events and applies the new options to the handler.
package config

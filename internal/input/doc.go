// Package input interprets Vim-style key sequences against a text host.
//
// Keys flow through a Handler, which feeds them to the active mode, executes
// the commands they resolve to, and reports what happened to each key.
//
// # Architecture
//
// The input system consists of several cooperating packages:
//
//   - key: Normalized key events and Vim key notation
//   - keymap: Binding trees and the count-consuming wrapper
//   - vim: Motions, text objects, operators, commands and registers
//   - mode: The modes and the manager that switches between them
//   - editor: The host interface and an in-memory host
//   - macro: Recording and replaying typed keys
//
// # Key Sequences
//
// Multi-key sequences like "gg" or "d2iw" are resolved one key at a time.
// Every key is answered immediately with Pending, Executed, Aborted,
// Failed or Consumed; nothing waits on a timer.
//
// # Usage
//
//	handler, err := input.NewHandler(host, input.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for event := range keyEvents {
//	    if out := handler.HandleKey(event); out.Status == input.Failed {
//	        showError(out.Err)
//	    }
//	}
package input

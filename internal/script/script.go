// Package script runs user Lua functions around every key the handler
// processes.
//
// A script defines any of these globals:
//
//	-- Called before the key is resolved. Return true to swallow the key,
//	-- or a key name such as "<Esc>" to handle that key instead.
//	function pre_key(key, mode) end
//
//	-- Called with the outcome once the key was handled: "pending",
//	-- "executed", "aborted", "failed" or "consumed".
//	function post_key(key, outcome) end
//
// The table modalkeys offers log(message). Only the base, table, string and
// math libraries are available.
package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modalkeys/internal/input"
	"github.com/dshills/modalkeys/internal/input/key"
)

// DefaultTimeout bounds each call into the script.
const DefaultTimeout = 100 * time.Millisecond

// Hook is an input.Hook backed by a Lua script. Failed calls are logged
// and otherwise ignored.
type Hook struct {
	mu      sync.Mutex
	L       *lua.LState
	logger  input.Logger
	timeout time.Duration
	pre     *lua.LFunction
	post    *lua.LFunction
	closed  bool
}

// Option configures a Hook.
type Option func(*Hook)

// WithTimeout sets the limit for each call into the script.
func WithTimeout(d time.Duration) Option {
	return func(h *Hook) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// Load runs the script file at path and returns its hook.
func Load(path string, logger input.Logger, opts ...Option) (*Hook, error) {
	h := newHook(logger, opts)
	if err := h.run(func() error { return h.L.DoFile(path) }); err != nil {
		h.Close()
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	h.lookup()
	return h, nil
}

// LoadString runs the script src and returns its hook.
func LoadString(src string, logger input.Logger, opts ...Option) (*Hook, error) {
	h := newHook(logger, opts)
	if err := h.run(func() error { return h.L.DoString(src) }); err != nil {
		h.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	h.lookup()
	return h, nil
}

func newHook(logger input.Logger, opts []Option) *Hook {
	h := &Hook{
		L:       lua.NewState(lua.Options{SkipOpenLibs: true}),
		logger:  logger,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	openSafeLibraries(h.L)

	api := h.L.NewTable()
	h.L.SetField(api, "log", h.L.NewFunction(func(L *lua.LState) int {
		h.logger.Info("script: %s", L.CheckString(1))
		return 0
	}))
	h.L.SetGlobal("modalkeys", api)
	return h
}

// openSafeLibraries opens the libraries without file or process access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (h *Hook) lookup() {
	if fn, ok := h.L.GetGlobal("pre_key").(*lua.LFunction); ok {
		h.pre = fn
	}
	if fn, ok := h.L.GetGlobal("post_key").(*lua.LFunction); ok {
		h.post = fn
	}
}

// run calls fn with the call timeout in place and turns panics into errors.
func (h *Hook) run(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// call invokes fn and returns its first result.
func (h *Hook) call(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil
	err := h.run(func() error {
		if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = h.L.Get(-1)
		h.L.Pop(1)
		return nil
	})
	return ret, err
}

// PreKey implements input.Hook.
func (h *Hook) PreKey(event *key.Event, mode string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.pre == nil {
		return false
	}

	ret, err := h.call(h.pre, lua.LString(event.String()), lua.LString(mode))
	if err != nil {
		h.logger.Warn("script pre_key: %v", err)
		return false
	}
	switch v := ret.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LString:
		seq, err := key.ParseSequence(string(v))
		if err != nil || len(seq) != 1 {
			h.logger.Warn("script pre_key: %q is not a single key", string(v))
			return false
		}
		*event = seq[0]
	}
	return false
}

// PostKey implements input.Hook.
func (h *Hook) PostKey(event key.Event, out input.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.post == nil {
		return
	}
	if _, err := h.call(h.post, lua.LString(event.String()), lua.LString(out.Status.String())); err != nil {
		h.logger.Warn("script post_key: %v", err)
	}
}

// Close releases the Lua state.
func (h *Hook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.L.Close()
	}
}

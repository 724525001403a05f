package input

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/keymap"
	"github.com/dshills/modalkeys/internal/input/macro"
	"github.com/dshills/modalkeys/internal/input/mode"
	"github.com/dshills/modalkeys/internal/input/vim"
)

// ErrInvalidMapping is returned for user mappings that name an unknown
// mode or do not parse.
var ErrInvalidMapping = errors.New("invalid mapping")

// Config configures the input handler.
type Config struct {
	// InitialMode is the mode entered at start (default: "normal").
	InitialMode string

	// Options are the settings that change command semantics.
	Options vim.Options

	// Clipboard backs the '+' and '*' registers. Nil keeps them in memory.
	Clipboard vim.ClipboardProvider

	// Mappings are user key remaps added to the built-in bindings.
	Mappings []Mapping

	// Logger receives diagnostics. Nil discards them.
	Logger Logger

	// Metrics collects key statistics. Nil disables collection.
	Metrics *Metrics
}

// DefaultConfig returns a configuration with Vim's defaults.
func DefaultConfig() Config {
	return Config{
		InitialMode: mode.ModeNormal,
		Options:     vim.DefaultOptions(),
	}
}

// Mapping binds Keys in Mode to the commands Vim would run for To, like
// Vim's noremap. Mode is "normal", "visual" (both visual modes) or
// "insert" (insert and replace).
type Mapping struct {
	Mode string
	Keys string
	To   string
}

// OutcomeStatus says what became of a key.
type OutcomeStatus uint8

const (
	// Pending means the key started or continued a sequence.
	Pending OutcomeStatus = iota

	// Executed means a command ran.
	Executed

	// Aborted means no binding matched and the sequence was discarded.
	Aborted

	// Failed means a command was resolved but failed to execute.
	Failed

	// Consumed means the key was taken without running a command, by the
	// command line or by a hook.
	Consumed
)

// String returns the status name.
func (s OutcomeStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Executed:
		return "executed"
	case Aborted:
		return "aborted"
	case Failed:
		return "failed"
	case Consumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Outcome is the result of HandleKey.
type Outcome struct {
	Status OutcomeStatus

	// Err wraps vim.ErrCommandExecution when Status is Failed.
	Err error
}

// String returns the status, with the error for failures.
func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status.String()
}

// Handler is the main entry point for input processing. It feeds keys to
// the active mode and executes the commands they resolve to against the
// host. Keys are processed one at a time.
type Handler struct {
	mu sync.Mutex

	host      editor.Host
	registers *vim.RegisterStore
	options   vim.Options
	dot       *vim.DotBuffer
	modes     *mode.Manager
	ctx       *execContext

	recorder *macro.Recorder
	player   *macro.Player

	hooks   *HookManager
	metrics *Metrics
	logger  Logger
	session string

	// pending holds the keys of the incomplete sequence.
	pending key.Sequence
}

// NewHandler creates a handler driving host.
func NewHandler(host editor.Host, config Config) (*Handler, error) {
	session := uuid.NewString()
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	h := &Handler{
		host:      host,
		registers: vim.NewRegisterStore(),
		options:   config.Options,
		dot:       vim.NewDotBuffer(),
		modes:     mode.NewManager(),
		recorder:  macro.NewRecorder(),
		hooks:     NewHookManager(),
		metrics:   config.Metrics,
		logger:    logger.With("session", session),
		session:   session,
	}
	h.ctx = &execContext{h: h}
	h.player = macro.NewPlayer(h.recorder)
	if config.Clipboard != nil {
		h.registers.SetClipboard(config.Clipboard)
	}

	if err := h.registerDefaultModes(config.Mappings); err != nil {
		return nil, err
	}
	h.modes.OnChange(func(from, to mode.Mode) {
		h.metrics.recordModeSwitch()
		if from != nil {
			h.logger.Debug("mode %s -> %s", from.Name(), to.Name())
		}
	})

	initial := config.InitialMode
	if initial == "" {
		initial = mode.ModeNormal
	}
	if err := h.modes.SetInitialMode(h.ctx, initial); err != nil {
		return nil, fmt.Errorf("%w (modes: %s)", err, strings.Join(h.modes.Modes(), ", "))
	}
	return h, nil
}

// registerDefaultModes builds the binding trees, adds the user mappings,
// and registers the built-in modes.
func (h *Handler) registerDefaultModes(mappings []Mapping) error {
	trees, err := newBindingTrees(mappings)
	if err != nil {
		return err
	}
	h.modes.Register(mode.NewNormalMode(vim.Counted(trees.normal)))
	h.modes.Register(mode.NewVisualMode(vim.Counted(trees.visual)))
	h.modes.Register(mode.NewVisualLineMode(vim.Counted(trees.visualLine)))
	h.modes.Register(mode.NewInsertMode(trees.insert))
	h.modes.Register(mode.NewReplaceMode(trees.replace))
	h.modes.Register(mode.NewCommandMode())
	h.modes.Register(mode.NewSearchMode())
	return nil
}

// HandleKey processes a key event. Panics raised while executing a
// command are reported as failures.
func (h *Handler) HandleKey(event key.Event) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hooks.RunPreKey(&event, h.modes.CurrentName()) {
		out := Outcome{Status: Consumed}
		h.metrics.recordKey(out.Status, time.Now())
		return out
	}

	var out Outcome
	if h.stopsRecording(event) {
		start := time.Now()
		register := h.recorder.StopRecording()
		h.logger.Debug("recorded macro into %q", register)
		out = Outcome{Status: Executed}
		h.metrics.recordKey(out.Status, start)
	} else {
		h.recorder.Record(event)
		out = h.handleKey(event)
	}
	h.hooks.RunPostKey(event, out)
	return out
}

// stopsRecording reports whether event is the "q" that ends a macro
// recording.
func (h *Handler) stopsRecording(event key.Event) bool {
	return h.recorder.IsRecording() &&
		event.Is('q') &&
		len(h.pending) == 0 &&
		h.modes.IsMode(mode.ModeNormal)
}

func (h *Handler) handleKey(event key.Event) (out Outcome) {
	start := time.Now()
	defer func() {
		h.metrics.recordKey(out.Status, start)
	}()
	defer func() {
		if r := recover(); r != nil {
			out = h.fail(fmt.Errorf("%w: panic: %v", vim.ErrCommandExecution, r))
		}
	}()

	res, err := h.modes.HandleKey(h.ctx, event)
	if err != nil {
		return h.fail(err)
	}

	switch res.Status {
	case mode.Pending:
		h.pending = append(h.pending, event)
		return Outcome{Status: Pending}
	case mode.Consumed:
		return Outcome{Status: Consumed}
	case mode.Aborted:
		h.logger.Debug("no binding for %s in %s mode", append(h.pending, event), h.modes.CurrentName())
		h.reset()
		return Outcome{Status: Aborted}
	}

	h.pending = h.pending[:0]
	if err := h.execute(res.Command); err != nil {
		return h.fail(err)
	}
	return Outcome{Status: Executed}
}

// execute runs cmd, records it for dot-repeat and lets the active mode
// settle the caret.
func (h *Handler) execute(cmd vim.Command) error {
	if err := cmd.Execute(h.ctx); err != nil {
		if errors.Is(err, vim.ErrCommandExecution) {
			return err
		}
		return fmt.Errorf("%w: %w", vim.ErrCommandExecution, err)
	}
	h.ctx.RecordChange(cmd, cmd.Count())
	if _, ok := cmd.(vim.SelectRegister); !ok {
		h.ctx.register = 0
	}
	if err := h.modes.Settle(h.ctx); err != nil {
		return fmt.Errorf("%w: %w", vim.ErrCommandExecution, err)
	}
	return nil
}

// fail clears pending state and logs err once, at the key that started a
// macro rather than at each replayed key. Motions that cannot move are
// routine and logged at debug level.
func (h *Handler) fail(err error) Outcome {
	h.reset()
	switch {
	case h.player.IsPlaying():
	case errors.Is(err, vim.ErrOutOfBounds), errors.Is(err, vim.ErrNotFound):
		h.logger.Debug("%v", err)
	default:
		h.logger.Error("%v", err)
	}
	return Outcome{Status: Failed, Err: err}
}

func (h *Handler) reset() {
	h.pending = h.pending[:0]
	h.ctx.register = 0
}

// ActiveModeName returns the name of the active mode.
func (h *Handler) ActiveModeName() string {
	return h.modes.CurrentName()
}

// ActiveMode returns the active mode.
func (h *Handler) ActiveMode() mode.Mode {
	return h.modes.Current()
}

// PendingKeys returns the keys of the incomplete sequence.
func (h *Handler) PendingKeys() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending.String()
}

// Recording returns the register a macro is being recorded into, or 0.
func (h *Handler) Recording() rune {
	return h.recorder.CurrentRegister()
}

// ApplyOptions replaces the settings. It takes effect from the next key.
func (h *Handler) ApplyOptions(opts vim.Options) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.options = opts
	h.logger.Info("options applied: stupid_cw=%t stupid_y=%t", opts.StupidCW, opts.StupidY)
}

// Options returns the current settings.
func (h *Handler) Options() vim.Options {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.options
}

// SetClipboard replaces the provider behind the '+' and '*' registers.
func (h *Handler) SetClipboard(cb vim.ClipboardProvider) {
	h.registers.SetClipboard(cb)
}

// Registers returns the register store.
func (h *Handler) Registers() *vim.RegisterStore {
	return h.registers
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Metrics returns the metrics tracker, or nil when metrics are disabled.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// Session returns the identifier logged with every message of this handler.
func (h *Handler) Session() string {
	return h.session
}

// ForgetLastChange empties the dot-repeat buffer, as after the host
// replaces the whole text.
func (h *Handler) ForgetLastChange() {
	h.dot.Clear()
}

// Status describes the handler for a status line.
type Status struct {
	Mode        string
	DisplayName string
	Cursor      mode.CursorStyle
	PendingKeys string
	Recording   rune
}

// Status returns the current status.
func (h *Handler) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := Status{
		PendingKeys: h.pending.String(),
		Recording:   h.recorder.CurrentRegister(),
	}
	if m := h.modes.Current(); m != nil {
		st.Mode = m.Name()
		st.DisplayName = m.DisplayName()
		st.Cursor = m.CursorStyle()
	}
	return st
}

// bindingTrees are the per-mode binding trees before counts are wrapped
// around them.
type bindingTrees struct {
	normal     *keymap.Node[vim.Command]
	visual     *keymap.Node[vim.Command]
	visualLine *keymap.Node[vim.Command]
	insert     *keymap.Node[vim.Command]
	replace    *keymap.Node[vim.Command]
}

// newBindingTrees returns the built-in trees with the user mappings added.
// Mapping targets resolve against the built-in trees only, so mappings
// never expand each other.
func newBindingTrees(mappings []Mapping) (bindingTrees, error) {
	builtin := bindingTrees{
		normal:     vim.NormalBindings(),
		visual:     vim.VisualBindings(false),
		visualLine: vim.VisualBindings(true),
		insert:     vim.InsertBindings(false),
		replace:    vim.InsertBindings(true),
	}
	out := builtin

	for _, m := range mappings {
		if seq, err := key.ParseSequence(m.Keys); err != nil || len(seq) == 0 {
			return bindingTrees{}, fmt.Errorf("%w: bad keys %q", ErrInvalidMapping, m.Keys)
		}
		type target struct {
			base    *keymap.Node[vim.Command]
			dst     **keymap.Node[vim.Command]
			counted bool
		}
		var targets []target
		switch m.Mode {
		case "normal", "n":
			targets = []target{{builtin.normal, &out.normal, true}}
		case "visual", "v", "x":
			targets = []target{
				{builtin.visual, &out.visual, true},
				{builtin.visualLine, &out.visualLine, true},
			}
		case "insert", "i":
			targets = []target{
				{builtin.insert, &out.insert, false},
				{builtin.replace, &out.replace, false},
			}
		default:
			return bindingTrees{}, fmt.Errorf("%w: unknown mode %q for %q", ErrInvalidMapping, m.Mode, m.Keys)
		}

		for _, t := range targets {
			var root keymap.State[vim.Command] = t.base
			if t.counted {
				root = vim.Counted(t.base)
			}
			cmd, err := vim.Remap(root, m.To)
			if err != nil {
				return bindingTrees{}, fmt.Errorf("%w: %s %q: %w", ErrInvalidMapping, m.Mode, m.Keys, err)
			}
			user, err := keymap.New(keymap.Bind(m.Keys, cmd))
			if err != nil {
				return bindingTrees{}, fmt.Errorf("%w: %s %q: %w", ErrInvalidMapping, m.Mode, m.Keys, err)
			}
			merged, err := keymap.Union(*t.dst, user)
			if err != nil {
				return bindingTrees{}, fmt.Errorf("mapping %s %q: %w", m.Mode, m.Keys, err)
			}
			*t.dst = merged
		}
	}
	return out, nil
}

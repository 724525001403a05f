// Package app wires the key interpreter to its configuration, logging and
// an in-memory buffer, and exposes what a terminal host needs to drive it.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/dshills/modalkeys/internal/config"
	"github.com/dshills/modalkeys/internal/input"
	"github.com/dshills/modalkeys/internal/input/editor"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/input/vim"
	"github.com/dshills/modalkeys/internal/script"
)

// scriptHookName names the Lua hook in the handler's hook chain.
const scriptHookName = "script"

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// File is the file to edit. Empty starts with a scratch buffer.
	File string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Clipboard replaces the clipboard chosen from the configuration.
	Clipboard vim.ClipboardProvider
}

// Application owns one buffer and the handler interpreting keys for it.
type Application struct {
	mu sync.Mutex

	opts    Options
	config  config.Config
	logger  *Logger
	buffer  *editor.Buffer
	handler *input.Handler
	metrics *input.Metrics
	script  *script.Hook

	quit     bool
	reloaded bool
	message  string
}

// New loads the configuration and the file, and creates the handler.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &ComponentError{Component: "config", Action: "load", Err: err}
	}

	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(cfg.LogLevel)
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	logger := NewLogger(logCfg)
	if opts.LogLevel != "" {
		logger.SetLevel(ParseLogLevel(opts.LogLevel))
	}

	text, err := readFile(opts.File)
	if err != nil {
		return nil, err
	}

	app := &Application{
		opts:   opts,
		config: cfg,
		logger: logger,
		buffer: editor.NewBuffer(text),
	}
	app.registerOperations()

	if cfg.Metrics {
		app.metrics = input.NewMetrics()
	}
	app.handler, err = input.NewHandler(app.buffer, app.handlerConfig(cfg))
	if err != nil {
		return nil, &ComponentError{Component: "input", Action: "init", Err: err}
	}
	if err := app.setScript(cfg.HookScript); err != nil {
		return nil, &ComponentError{Component: "script", Action: "load", Err: err}
	}

	logger.WithComponent("app").Info("started in %s mode, session %s", app.handler.ActiveModeName(), app.handler.Session())
	return app, nil
}

func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &OperationError{Op: "read", Target: path, Err: err}
	}
	return string(data), nil
}

// registerOperations binds the ex commands the application implements.
func (app *Application) registerOperations() {
	write := func(*editor.Buffer) error { return app.write() }
	quit := func(*editor.Buffer) error {
		app.quit = true
		return nil
	}
	writeQuit := func(b *editor.Buffer) error {
		if err := app.write(); err != nil {
			return err
		}
		return quit(b)
	}

	app.buffer.Handle("ex:w", write)
	app.buffer.Handle("ex:write", write)
	app.buffer.Handle("ex:q", quit)
	app.buffer.Handle("ex:q!", quit)
	app.buffer.Handle("ex:quit", quit)
	app.buffer.Handle("ex:wq", writeQuit)
	app.buffer.Handle("ex:x", writeQuit)

	edit := func(b *editor.Buffer) error { return app.edit(b) }
	app.buffer.Handle("ex:e", edit)
	app.buffer.Handle("ex:e!", edit)
	app.buffer.Handle("ex:edit", edit)
}

// edit discards the buffer's changes and reads the file again.
func (app *Application) edit(b *editor.Buffer) error {
	if app.opts.File == "" {
		return ErrNoFile
	}
	text, err := readFile(app.opts.File)
	if err != nil {
		return err
	}
	if err := b.Replace(0, b.Len(), text); err != nil {
		return err
	}
	b.SetPosition(0, false)
	app.reloaded = true
	app.message = fmt.Sprintf("%q %dB read", app.opts.File, len(text))
	return nil
}

// write saves the buffer to the file it was loaded from.
func (app *Application) write() error {
	if app.opts.File == "" {
		return ErrNoFile
	}
	text := app.buffer.String()
	if err := os.WriteFile(app.opts.File, []byte(text), 0o644); err != nil {
		return &OperationError{Op: "write", Target: app.opts.File, Err: err}
	}
	app.message = fmt.Sprintf("%q %dB written", app.opts.File, len(text))
	return nil
}

// setScript replaces the Lua hook with the one at path. An empty path
// removes it. On error the current hook stays.
func (app *Application) setScript(path string) error {
	var hook *script.Hook
	if path != "" {
		var err error
		hook, err = script.Load(path, app.logger.WithComponent("script"))
		if err != nil {
			return &OperationError{Op: "load", Target: path, Err: err}
		}
	}

	hooks := app.handler.Hooks()
	hooks.UnregisterByName(scriptHookName)
	if app.script != nil {
		app.script.Close()
	}
	app.script = hook
	if hook != nil {
		hooks.RegisterWithOptions(hook, scriptHookName, input.HookPriorityNormal)
	}
	return nil
}

// HandleKey feeds one key to the handler. Failures are shown as the status
// message.
func (app *Application) HandleKey(event key.Event) input.Outcome {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.message = ""
	out := app.handler.HandleKey(event)
	if app.reloaded {
		// The last change was made to text that is gone.
		app.handler.ForgetLastChange()
		app.reloaded = false
	}
	if out.Status == input.Failed {
		app.message = out.Err.Error()
	}
	return out
}

// Reload reads the configuration file again and applies the options, the
// clipboard choice, the log level and the hook script. Mappings are fixed when the handler
// is created; changes to them are reported and ignored.
func (app *Application) Reload() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	log := app.logger.WithComponent("config")
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		log.Warn("reload failed: %v", err)
		return &OperationError{Op: "reload", Target: app.opts.ConfigPath, Err: err}
	}

	app.handler.ApplyOptions(options(cfg))
	app.handler.SetClipboard(app.clipboard(cfg))
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(ParseLogLevel(cfg.LogLevel))
	}
	if app.metrics != nil {
		app.metrics.SetEnabled(cfg.Metrics)
	}
	if err := app.setScript(cfg.HookScript); err != nil {
		log.Warn("keeping the previous hook script: %v", err)
	}
	if !slices.Equal(cfg.Mappings, app.config.Mappings) {
		log.Warn("mapping changes take effect after a restart")
	}
	app.config = cfg
	log.Info("configuration reloaded from %s", app.opts.ConfigPath)
	return nil
}

// Quit reports whether a quit command ran.
func (app *Application) Quit() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.quit
}

// Message returns the status message of the last key.
func (app *Application) Message() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.message
}

// Buffer returns the edited buffer.
func (app *Application) Buffer() *editor.Buffer {
	return app.buffer
}

// Handler returns the key handler.
func (app *Application) Handler() *input.Handler {
	return app.handler
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// WriteMetrics writes the interpreter metrics in Prometheus text format.
// It writes nothing when metrics are disabled.
func (app *Application) WriteMetrics(w io.Writer) {
	app.metrics.WritePrometheus(w)
}

// Shutdown releases the hook script and logs a summary of the session.
func (app *Application) Shutdown() {
	app.mu.Lock()
	if app.script != nil {
		app.script.Close()
		app.script = nil
	}
	app.mu.Unlock()

	if app.metrics == nil {
		return
	}
	s := app.metrics.Snapshot()
	app.logger.WithComponent("app").Info("processed %d keys: %d executed, %d aborted, %d failed",
		s.Keys, s.Executed, s.Aborted, s.Failed)
}

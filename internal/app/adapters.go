package app

import (
	"github.com/dshills/modalkeys/internal/config"
	"github.com/dshills/modalkeys/internal/input"
	"github.com/dshills/modalkeys/internal/input/mode"
	"github.com/dshills/modalkeys/internal/input/vim"
	"github.com/dshills/modalkeys/internal/terminal"
)

// handlerConfig translates the configuration into handler settings.
func (app *Application) handlerConfig(cfg config.Config) input.Config {
	mappings := make([]input.Mapping, len(cfg.Mappings))
	for i, m := range cfg.Mappings {
		mappings[i] = input.Mapping{Mode: m.Mode, Keys: m.Keys, To: m.To}
	}
	return input.Config{
		InitialMode: cfg.InitialMode,
		Options:     options(cfg),
		Clipboard:   app.clipboard(cfg),
		Mappings:    mappings,
		Logger:      app.logger.WithComponent("input"),
		Metrics:     app.metrics,
	}
}

func options(cfg config.Config) vim.Options {
	return vim.Options{StupidCW: cfg.StupidCW, StupidY: cfg.StupidY}
}

// clipboard picks the provider behind the '+' and '*' registers.
func (app *Application) clipboard(cfg config.Config) vim.ClipboardProvider {
	if app.opts.Clipboard != nil {
		return app.opts.Clipboard
	}
	if !cfg.UseSystemClipboard {
		return nil
	}
	if !vim.ClipboardAvailable() {
		app.logger.Warn("system clipboard unavailable, using in-memory registers")
		return nil
	}
	return vim.SystemClipboard{}
}

// View returns what the terminal draws for the current state.
func (app *Application) View() terminal.View {
	app.mu.Lock()
	defer app.mu.Unlock()

	v := terminal.View{
		Text:      app.buffer.String(),
		Cursor:    app.buffer.Position(),
		Caret:     app.buffer.Caret(),
		Selection: app.buffer.Selection(),
		Status:    app.handler.Status(),
		Message:   app.message,
	}
	if line, ok := app.handler.ActiveMode().(*mode.LineMode); ok {
		v.Prompt = line.Prompt()
		v.Line = line.Buffer()
		v.LineCursor = line.CursorPos()
	}
	return v
}

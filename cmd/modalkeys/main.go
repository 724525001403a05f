// Package main is the entry point for the modalkeys terminal demo: a
// single-buffer editor driven entirely by the modal key interpreter.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modalkeys/internal/app"
	"github.com/dshills/modalkeys/internal/config"
	"github.com/dshills/modalkeys/internal/input/key"
	"github.com/dshills/modalkeys/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts        app.Options
	logFile     string
	metricsFile string
	watch       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	logOut := io.Discard
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			return 1
		}
		defer file.Close()
		logOut = file
	}
	f.opts.LogOutput = logOut

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	term, err := terminal.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	if f.watch && f.opts.ConfigPath != "" {
		w, err := config.Watch(f.opts.ConfigPath)
		if err != nil {
			application.Logger().Warn("config watch disabled: %v", err)
		} else {
			defer w.Close()
			go forwardChanges(w, term)
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM)
	go func() {
		<-signals
		term.Interrupt(app.ErrQuit)
	}()

	loop(application, term)

	if f.metricsFile != "" {
		if err := writeMetrics(application, f.metricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

// forwardChanges turns config file changes into interrupt events, so
// reloads happen on the event loop between keys.
func forwardChanges(w *config.Watcher, term *terminal.Terminal) {
	for ev := range w.Events() {
		term.Interrupt(ev)
	}
}

func loop(application *app.Application, term *terminal.Terminal) {
	term.Draw(application.View())
	for {
		switch ev := term.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			k := key.FromTcell(ev)
			if k.IsZero() {
				continue
			}
			application.HandleKey(k)
			if application.Quit() {
				return
			}
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case config.Event:
				_ = application.Reload() // logged by Reload
			case error:
				if errors.Is(data, app.ErrQuit) {
					return
				}
			}
		case *tcell.EventResize:
			term.Sync()
		}
		term.Draw(application.View())
	}
}

func writeMetrics(application *app.Application, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	defer file.Close()
	application.WriteMetrics(file)
	return nil
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&f.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&f.logFile, "log", "", "Append log lines to this file")
	flag.StringVar(&f.metricsFile, "metrics", "", "Write Prometheus metrics to this file on exit")
	flag.BoolVar(&f.watch, "watch", true, "Reload the configuration file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "modalkeys - Vim-style modal key interpreter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: modalkeys [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modalkeys                         Edit a scratch buffer\n")
		fmt.Fprintf(os.Stderr, "  modalkeys notes.txt               Edit a file (:w writes, :q quits)\n")
		fmt.Fprintf(os.Stderr, "  modalkeys -c modalkeys.toml -log /tmp/mk.log notes.txt\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("modalkeys %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch f.opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: only one file can be edited\n")
		os.Exit(1)
	}
	f.opts.File = flag.Arg(0)
	return f
}

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New creates a slog.Logger per the configuration and installs it as the
// process default. Output is resolved from cfg.Output: "stderr", "stdout",
// or a file path.
func New(cfg *Config) *slog.Logger {
	w := resolveOutput(cfg)
	return NewWithWriter(cfg, w)
}

// NewWithWriter creates a slog.Logger writing to w and installs it as the
// process default. Useful for tests and custom destinations.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if textOutput(cfg, w) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// textOutput decides between text and JSON. "auto" picks text only when
// the destination is a terminal, so piped and file output stays
// machine-readable.
func textOutput(cfg *Config, w io.Writer) bool {
	switch cfg.Format {
	case "text":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveOutput maps cfg.Output to a writer, falling back to stderr when a
// log file cannot be opened.
func resolveOutput(cfg *Config) io.Writer {
	switch cfg.Output {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	default:
		//nolint:gosec // Log files need to be readable by log collection tools
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: failed to open %s: %v, falling back to stderr\n",
				cfg.Output, err)
			return os.Stderr
		}
		return f
	}
}

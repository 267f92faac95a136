// Package logger provides the client's structured logging setup on top of
// log/slog.
package logger

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"
)

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum logging level. Defaults to slog.LevelInfo.
	Level slog.Level

	// Format specifies the output format.
	// Values: "auto" (default: text on a terminal, json otherwise),
	// "text", "json".
	Format string

	// AddSource includes the source file and line number in each record.
	AddSource bool

	// Output specifies where logs are written.
	// Values: "stderr" (default), "stdout", or a file path.
	Output string

	// levelName backs the flag binding.
	levelName string
}

// DefaultConfig returns a Config with package defaults.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		levelName: "info",
		Format:    "auto",
		Output:    "stderr",
	}
}

// Flags registers CLI flags for the logger configuration.
func (c *Config) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&c.levelName, "log-level", c.levelName,
		"Log level: debug, info, warn, error")
	fs.StringVar(&c.Format, "log-format", c.Format,
		"Log format: auto, text, json")
	fs.StringVar(&c.Output, "log-output", c.Output,
		"Log output: stderr, stdout, or file path")
	fs.BoolVar(&c.AddSource, "log-add-source", c.AddSource,
		"Include source file:line in logs")
}

// Validate checks the configuration and resolves the level name.
func (c *Config) Validate() error {
	level, err := parseLevel(c.levelName)
	if err != nil {
		return err
	}
	c.Level = level

	switch c.Format {
	case "auto", "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format %q: must be auto, text or json", c.Format)
	}
}

// SetDefaults applies defaults to zero-value fields.
func (c *Config) SetDefaults() {
	if c.Format == "" {
		c.Format = "auto"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	if c.levelName == "" {
		c.levelName = "info"
		c.Level = slog.LevelInfo
	}
}

// LevelName returns the configured level name.
func (c *Config) LevelName() string {
	return c.levelName
}

// SetLevelName sets the level by name; Validate resolves it.
func (c *Config) SetLevelName(name string) {
	c.levelName = name
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf(
			"invalid log level %q: must be debug, info, warn, or error", name)
	}
}

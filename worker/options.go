package worker

import (
	"log/slog"
	"time"
)

// DefaultTickInterval is the coarse loop interval. One interval is the
// worst-case latency between a stop flag rising and the worker observing
// it, plus whatever the runner's Tick costs.
const DefaultTickInterval = 100 * time.Millisecond

// Options holds configuration for a Worker.
type Options struct {
	// TickInterval is the sleep between loop iterations.
	// Default: DefaultTickInterval.
	TickInterval time.Duration

	// Logger receives lifecycle and hook-failure records.
	// Default: slog.Default().
	Logger *slog.Logger

	// Name overrides the runner's Name for logging.
	Name string
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns Options with package defaults applied.
func DefaultOptions() *Options {
	return &Options{
		TickInterval: DefaultTickInterval,
		Logger:       slog.Default(),
	}
}

// ApplyOptions applies the given options.
func (o *Options) ApplyOptions(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithTickInterval sets the loop interval. Values <= 0 are ignored.
// Shorter intervals improve cancellation latency at the cost of overhead;
// tests use this to keep scenarios fast.
func WithTickInterval(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.TickInterval = d
		}
	}
}

// WithLogger sets the logger for worker lifecycle records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithName overrides the runner's name for logging.
func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
	}
}

package burrow

import (
	"log/slog"
	"time"

	"github.com/burrownet/burrow/eventbus"
)

// ClientOptions holds configuration for the Client.
type ClientOptions struct {
	// Logger receives client lifecycle records. Default: slog.Default().
	Logger *slog.Logger

	// Bus receives lifecycle events. Default: a fresh bus owned (and
	// closed) by the client.
	Bus *eventbus.Bus

	// TickInterval is passed to every worker the client starts.
	// Default: worker.DefaultTickInterval.
	TickInterval time.Duration
}

// ClientOption configures ClientOptions.
type ClientOption func(*ClientOptions)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(o *ClientOptions) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithBus sets the event bus lifecycle events are published on. A bus
// supplied here is the caller's to close.
func WithBus(b *eventbus.Bus) ClientOption {
	return func(o *ClientOptions) {
		if b != nil {
			o.Bus = b
		}
	}
}

// WithTickInterval sets the loop interval for every worker the client
// starts. Values <= 0 are ignored.
func WithTickInterval(d time.Duration) ClientOption {
	return func(o *ClientOptions) {
		if d > 0 {
			o.TickInterval = d
		}
	}
}

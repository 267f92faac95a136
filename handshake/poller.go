package handshake

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/burrownet/burrow/eventbus"
)

// ResponseReceived is published on the event bus for every successful
// handshake fetch.
type ResponseReceived struct {
	Response Response
	At       time.Time
}

// EventName implements eventbus.Event.
func (ResponseReceived) EventName() string { return "HandshakeResponseReceived" }

// Poller periodically fetches the handshake page and publishes each parsed
// response. It implements worker.Runner; run it under a worker.Worker so
// it participates in the group's stop signal and shutdown rendezvous.
type Poller struct {
	// URL is the handshake endpoint. Required.
	URL string

	// Bus receives ResponseReceived events. Required.
	Bus *eventbus.Bus

	// Interval between fetches. Default: 5 minutes.
	Interval time.Duration

	// Client is the HTTP client to fetch with. Default: a client with a
	// 30 second timeout.
	Client *http.Client

	// MaxTries bounds the per-fetch retry budget. Default: 3.
	MaxTries uint

	// FetchTimeout bounds one fetch, retries included. It is also the
	// upper bound on how long this runner can delay a group stop.
	// Default: 45 seconds.
	FetchTimeout time.Duration

	// Logger records fetch failures. Default: slog.Default().
	Logger *slog.Logger

	lastFetch time.Time
}

// Name implements worker.Runner.
func (p *Poller) Name() string { return "handshake-poller" }

// Setup applies defaults and schedules the first fetch for the first tick.
func (p *Poller) Setup() error {
	if p.Interval <= 0 {
		p.Interval = 5 * time.Minute
	}
	if p.Client == nil {
		p.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if p.MaxTries == 0 {
		p.MaxTries = 3
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = 45 * time.Second
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	p.lastFetch = time.Time{}
	return nil
}

// Tick fetches when the interval has elapsed. Fetch failures are not fatal
// to the worker; the next interval retries from scratch.
func (p *Poller) Tick() bool {
	if !p.lastFetch.IsZero() && time.Since(p.lastFetch) < p.Interval {
		return true
	}
	p.lastFetch = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), p.FetchTimeout)
	defer cancel()

	resp, err := FetchWithRetry(ctx, p.Client, p.URL, p.MaxTries)
	if err != nil {
		p.Logger.Warn("handshake fetch failed", slog.String("url", p.URL), slog.Any("error", err))
		return true
	}
	eventbus.Publish(ctx, p.Bus, ResponseReceived{Response: resp, At: time.Now()})
	return true
}

// Teardown releases pooled connections.
func (p *Poller) Teardown() {
	if p.Client != nil {
		p.Client.CloseIdleConnections()
	}
}

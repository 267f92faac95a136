package burrow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/burrownet/burrow/eventbus"
	"github.com/burrownet/burrow/worker"
)

// Client is the controlling caller of a worker group. It owns the external
// stop flag every worker watches and the synchronizer they rendezvous
// through at shutdown, and it joins every worker it started.
//
// A stopped client can be started again; the synchronizer is reset and the
// stop flag cleared on each Start.
//
// Example:
//
//	c := burrow.New(burrow.WithLogger(log))
//	_ = c.Register(&handshake.Poller{URL: url, Bus: c.Bus()})
//	_ = c.Register(&diagnostics.Sampler{Bus: c.Bus()})
//
//	if err := c.Run(ctx); err != nil {
//	    return err
//	}
type Client struct {
	logger  *slog.Logger
	bus     *eventbus.Bus
	ownsBus bool
	tick    time.Duration

	mu            sync.Mutex
	registrations []registration
	workers       []*worker.Worker
	stop          worker.Flag
	group         *worker.Synchronizer
	running       bool
}

// registration pairs a runner with its per-worker options.
type registration struct {
	runner worker.Runner
	opts   []worker.Option
}

// New creates a Client.
func New(opts ...ClientOption) *Client {
	options := &ClientOptions{
		Logger:       slog.Default(),
		TickInterval: worker.DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		logger: options.Logger.With(slog.String("component", "burrow.Client")),
		bus:    options.Bus,
		tick:   options.TickInterval,
		group:  worker.NewSynchronizer(),
	}
	if c.bus == nil {
		c.bus = eventbus.New(options.Logger)
		c.ownsBus = true
	}
	return c
}

// Bus returns the event bus lifecycle events are published on.
func (c *Client) Bus() *eventbus.Bus {
	return c.bus
}

// Register adds a runner to the group. Per-runner options override the
// client-wide defaults (for example worker.WithName or a runner-specific
// worker.WithTickInterval). Registration is rejected while the client is
// running.
func (c *Client) Register(r worker.Runner, opts ...worker.Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrAlreadyRunning
	}
	c.registrations = append(c.registrations, registration{runner: r, opts: opts})
	c.logger.Debug("runner registered", slog.String("runner", r.Name()))
	return nil
}

// Start starts every registered runner as a worker sharing the client's
// stop flag and synchronizer. If any worker fails to start, the stop flag
// is raised, the already-started workers are joined, and the error is
// returned; no worker is left running.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}
	if len(c.registrations) == 0 {
		return ErrNoRunners
	}

	c.stop.Clear()
	c.group.Reset()
	c.workers = c.workers[:0]

	c.logger.Info("starting workers", slog.Int("count", len(c.registrations)))
	for _, reg := range c.registrations {
		opts := append([]worker.Option{
			worker.WithTickInterval(c.tick),
			worker.WithLogger(c.logger),
		}, reg.opts...)
		w := worker.New(reg.runner, opts...)
		if err := w.Start(&c.stop, c.group); err != nil {
			c.stopLocked()
			return fmt.Errorf("burrow: start %s: %w", reg.runner.Name(), err)
		}
		c.workers = append(c.workers, w)
	}
	c.running = true

	names := make([]string, len(c.workers))
	for i, w := range c.workers {
		names[i] = w.Name()
		go c.monitor(w)
	}
	eventbus.Publish(context.Background(), c.bus, Started{Workers: names, At: time.Now()})
	return nil
}

// Stop raises the stop flag and joins every worker. Idempotent; a no-op on
// a client that is not running.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.stopLocked()
	c.running = false
	eventbus.Publish(context.Background(), c.bus, Stopped{At: time.Now()})
}

// stopLocked raises the flag and joins whatever workers have been started.
// Callers hold c.mu.
func (c *Client) stopLocked() {
	c.stop.Set()
	for _, w := range c.workers {
		w.Stop()
	}
	c.logger.Info("all workers stopped", slog.Int("count", len(c.workers)))
}

// Run starts the group, then blocks until ctx is cancelled or any worker
// exits, and stops the group. It returns ctx.Err() when the context ended
// the run, nil when a worker exit did.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Start(); err != nil {
		return err
	}

	c.mu.Lock()
	workers := make([]*worker.Worker, len(c.workers))
	copy(workers, c.workers)
	c.mu.Unlock()

	exited := make(chan struct{})
	var once sync.Once
	for _, w := range workers {
		go func(w *worker.Worker) {
			<-w.Stopped().Done()
			once.Do(func() { close(exited) })
		}(w)
	}

	select {
	case <-ctx.Done():
		c.logger.Info("run cancelled")
	case <-exited:
		c.logger.Info("worker exited, stopping group")
	}

	c.Stop()
	return ctx.Err()
}

// Close stops the client and, when the bus was created by New rather than
// supplied, closes it. The client must not be started again after Close.
func (c *Client) Close() {
	c.Stop()
	if c.ownsBus {
		c.bus.Close()
	}
}

// monitor publishes a WorkerExited event when w's stopped event fires.
func (c *Client) monitor(w *worker.Worker) {
	<-w.Stopped().Done()
	eventbus.Publish(context.Background(), c.bus, WorkerExited{
		Worker: w.Name(),
		Clean:  c.stop.IsSet(),
		At:     time.Now(),
	})
}

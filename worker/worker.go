package worker

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Worker runs a Runner's periodic body on a dedicated goroutine and manages
// its lifecycle signalling.
//
// A Worker is in one of three observable states: not-started (the zero
// value, and the state after Stop or a failed Start), running, or stopped
// (body exited, Stop not yet called). It may be started again only after a
// full Stop.
//
// Example:
//
//	var stop worker.Flag
//	group := worker.NewSynchronizer()
//
//	w := worker.New(runner)
//	if err := w.Start(&stop, group); err != nil {
//	    return err
//	}
//	// ...
//	stop.Set() // ask the whole group to wind down
//	w.Stop()   // join
type Worker struct {
	runner Runner
	opts   *Options

	started *Event
	stopped *Event

	// internal is set by Stop; external is the caller-owned group flag.
	// signals is their composition, rebuilt on every Start.
	internal Flag
	external *Flag
	signals  FlagSet

	group *Synchronizer

	// done is the execution context handle: non-nil while the goroutine
	// is alive or not yet joined, nil otherwise. Written only by Start
	// and Stop, which must not be called concurrently with each other.
	done chan struct{}
}

// New creates a Worker for the given runner.
func New(r Runner, opts ...Option) *Worker {
	options := DefaultOptions()
	options.ApplyOptions(opts...)
	return &Worker{
		runner:  r,
		opts:    options,
		started: NewEvent(),
		stopped: NewSetEvent(),
	}
}

// Name returns the worker's logging name.
func (w *Worker) Name() string {
	if w.opts.Name != "" {
		return w.opts.Name
	}
	return w.runner.Name()
}

// Start spawns the worker's goroutine and blocks until the body has either
// signalled started (Setup succeeded) or exited. external is the
// caller-owned stop flag shared by the worker's group; it may be nil, in
// which case only Stop can end the worker. group, when non-nil, enrols the
// worker in the shutdown rendezvous; the caller must keep both alive for
// the worker's whole running lifetime.
//
// Start returns nil once the worker is running. It returns ErrAlreadyStarted
// if the worker has not been stopped since its last start, ErrAborted if a
// stop flag is already raised, and ErrSetupFailed if the body exited before
// starting. On every error path the worker is left in the not-started state
// with all references released.
func (w *Worker) Start(external *Flag, group *Synchronizer) error {
	if w.done != nil {
		return ErrAlreadyStarted
	}

	w.internal.Clear()
	w.external = external
	w.group = group
	w.signals = FlagSet{&w.internal}
	if external != nil {
		w.signals = append(w.signals, external)
	}

	if w.signals.IsSet() {
		w.release()
		return ErrAborted
	}

	w.started.Reset()
	w.stopped.Reset()

	done := make(chan struct{})
	w.done = done
	go w.run(done)

	select {
	case <-w.started.Done():
		return nil
	case <-w.stopped.Done():
		if w.started.IsSet() {
			// Both fired; started wins.
			return nil
		}
		w.Stop()
		return ErrSetupFailed
	}
}

// Stop raises the worker's internal stop flag, joins the goroutine if one
// exists, and releases the external references. It is idempotent and safe
// to call in any state; a call on a not-started worker is a no-op beyond
// latching the internal flag, which the next Start clears.
func (w *Worker) Stop() {
	w.internal.Set()
	if w.done != nil {
		<-w.done
		w.done = nil
	}
	w.release()
}

// release drops the non-owning references bound at Start.
func (w *Worker) release() {
	w.external = nil
	w.group = nil
	w.signals = nil
}

// IsRunning reports whether the body has signalled started and not yet
// stopped.
func (w *Worker) IsRunning() bool {
	return w.started.IsSet() && !w.stopped.IsSet()
}

// Stopped exposes the latching stopped event so controllers can wait on
// several workers at once via its Done channel. The event is set whenever
// the worker is not running.
func (w *Worker) Stopped() *Event {
	return w.stopped
}

// StopSignals exposes the composite stop-flag set bound by the last Start.
// It is nil while the worker is not started. Primarily for tests.
func (w *Worker) StopSignals() FlagSet {
	return w.signals
}

// run is the body: setup, announce, tick loop, rendezvous, teardown.
// It owns the started/stopped events for the duration and never panics.
//
// The group announcement happens only once Setup has succeeded: a body
// that exits earlier never votes, and counting it would leave the peers'
// vote barrier waiting on a participant that will never arrive.
func (w *Worker) run(done chan struct{}) {
	defer close(done)

	log := w.opts.Logger.With(slog.String("worker", w.Name()))
	group := w.group
	signals := w.signals

	clean := false
	voting := false

	// The stop signal may have risen between Start's check and here.
	if !signals.IsSet() {
		if w.setup(log) {
			if group != nil {
				group.AnnounceStarted()
			}
			w.started.Set()
			log.Debug("worker started")
			voting = true
			clean = w.loop(log, signals)
		}
	}

	if group != nil && voting {
		w.rendezvous(log, group, clean)
	}

	w.teardown(log)
	w.stopped.Set()
	log.Debug("worker stopped", slog.Bool("clean", clean))
}

// loop runs Tick under the coarse interval until a stop flag rises (clean)
// or Tick asks to exit (unclean).
func (w *Worker) loop(log *slog.Logger, signals FlagSet) (clean bool) {
	for {
		time.Sleep(w.opts.TickInterval)
		if signals.IsSet() {
			return true
		}
		if !w.tick(log) {
			return false
		}
	}
}

// rendezvous submits this worker's vote and, on a clean stop, walks the
// two-phase barrier. A false return from AwaitAllCleanVotes means some peer
// voted unclean; the graceful phase is skipped and teardown follows
// immediately.
func (w *Worker) rendezvous(log *slog.Logger, group *Synchronizer, clean bool) {
	if err := group.SubmitCleanVote(clean); err != nil {
		log.Error("vote rejected", slog.Any("error", err))
		return
	}
	if !clean {
		return
	}
	if !group.AwaitAllCleanVotes() {
		log.Debug("peer stopped uncleanly, skipping graceful shutdown")
		return
	}
	w.stopImminent(log)
	if err := group.AnnounceReadyToStop(); err != nil {
		log.Error("ready announcement rejected", slog.Any("error", err))
		return
	}
	group.AwaitAllReadyToStop()
}

// setup invokes Runner.Setup with panic recovery. A panic or error reads
// as a failed setup.
func (w *Worker) setup(log *slog.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("setup panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			ok = false
		}
	}()
	if err := w.runner.Setup(); err != nil {
		log.Error("setup failed", slog.Any("error", err))
		return false
	}
	return true
}

// tick invokes Runner.Tick with panic recovery. A panic reads as a request
// to exit, unclean.
func (w *Worker) tick(log *slog.Logger) (keep bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tick panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			keep = false
		}
	}()
	return w.runner.Tick()
}

// stopImminent notifies runners that opt in via StopNotifier.
func (w *Worker) stopImminent(log *slog.Logger) {
	n, ok := w.runner.(StopNotifier)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("stop-imminent panicked", slog.Any("panic", r))
		}
	}()
	n.StopImminent()
}

// teardown invokes Runner.Teardown on every exit path.
func (w *Worker) teardown(log *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("teardown panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	w.runner.Teardown()
}

package worker

// Runner is the body of work a Worker drives. Implementations supply the
// three lifecycle hooks; the Worker owns the goroutine, the signalling and
// the stop-flag composition.
//
// Every hook may panic. The worker recovers all panics, treats them as hook
// failure, and proceeds to Teardown; a panic never escapes the worker's
// goroutine and is never surfaced to the caller of Start or Stop.
type Runner interface {
	// Name returns an identifier used for logging and debugging.
	Name() string

	// Setup is called once when the worker's goroutine begins. If it
	// returns a non-nil error the body exits without the worker ever
	// being reported as started, and Start returns ErrSetupFailed.
	Setup() error

	// Tick is called once per loop iteration, after the stop signal has
	// been checked. Returning false requests an immediate exit, which is
	// treated as unclean for rendezvous purposes.
	//
	// Tick must be bounded: Stop joins the goroutine and will block for
	// as long as an in-flight Tick runs.
	Tick() bool

	// Teardown is called exactly once when the body exits, on every exit
	// path.
	Teardown()
}

// StopNotifier is an optional capability of a Runner. When every worker in
// a rendezvous group votes clean, each runner implementing StopNotifier is
// notified between the all-voted barrier and the all-ready barrier, while
// all of its peers are still alive.
//
// Tunnel-style activities use this window to send final traffic over a
// connection a peer worker maintains.
type StopNotifier interface {
	StopImminent()
}

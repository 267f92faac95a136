package worker

import "errors"

// Sentinel errors for the worker package.
var (
	// ErrAborted indicates a stop flag was already raised at the moment
	// Start was called. The worker remains in the not-started state; no
	// goroutine was spawned and no hook was invoked.
	ErrAborted = errors.New("worker: stop already signalled at start")

	// ErrAlreadyStarted indicates Start was called on a worker that is
	// already running. Call Stop before starting again.
	ErrAlreadyStarted = errors.New("worker: already started")

	// ErrSetupFailed indicates the body exited before signalling started:
	// the runner's Setup returned an error or panicked, or the stop signal
	// rose between Start's check and the body's entry. The worker has been
	// joined and is back in the not-started state.
	ErrSetupFailed = errors.New("worker: setup did not complete")

	// ErrVoteOverflow indicates a clean/unclean vote was submitted to a
	// Synchronizer that already holds one vote per announced participant.
	ErrVoteOverflow = errors.New("worker: more votes than announced participants")

	// ErrReadyOverflow indicates a ready-to-stop announcement beyond the
	// announced participant count.
	ErrReadyOverflow = errors.New("worker: more ready announcements than announced participants")
)

package burrow

import "errors"

// Sentinel errors for the client controller.
var (
	// ErrAlreadyRunning is returned by Register and Start while the
	// client is running.
	ErrAlreadyRunning = errors.New("burrow: client already running")

	// ErrNoRunners is returned by Start when nothing was registered.
	ErrNoRunners = errors.New("burrow: no runners registered")
)

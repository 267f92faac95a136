package worker

import "sync/atomic"

// Flag is a latching boolean shared between a controller and one or more
// workers. Set uses a release store and IsSet an acquire load, so a worker
// that observes the flag also observes every write the setter made before
// raising it.
//
// The zero value is a cleared flag ready for use.
type Flag struct {
	v atomic.Bool
}

// Set raises the flag.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Clear lowers the flag. Only the owner should clear; workers treat their
// stop flags as read-only.
func (f *Flag) Clear() {
	f.v.Store(false)
}

// IsSet reports whether the flag has been raised.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

// FlagSet is an ordered collection of flag references evaluated as a single
// composite signal. A worker's stop signal is the FlagSet {internal,
// external}.
type FlagSet []*Flag

// IsSet reports the logical OR of every flag in the set.
func (s FlagSet) IsSet() bool {
	for _, f := range s {
		if f.IsSet() {
			return true
		}
	}
	return false
}

package burrow

import "time"

// Started is published when every registered worker has started.
type Started struct {
	Workers []string
	At      time.Time
}

// EventName implements eventbus.Event.
func (Started) EventName() string { return "ClientStarted" }

// WorkerExited is published when a worker's stopped event fires. Clean
// reports whether the group's stop flag was up at the time; an unsolicited
// exit publishes Clean=false.
type WorkerExited struct {
	Worker string
	Clean  bool
	At     time.Time
}

// EventName implements eventbus.Event.
func (WorkerExited) EventName() string { return "WorkerExited" }

// Stopped is published once every worker has been joined.
type Stopped struct {
	At time.Time
}

// EventName implements eventbus.Event.
func (Stopped) EventName() string { return "ClientStopped" }

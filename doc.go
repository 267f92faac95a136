// Package burrow is the coordination core of a circumvention client: it
// runs the client's long-lived background activities (handshake polling,
// status sampling, tunnel maintenance) as a group of peer workers with a
// shared stop signal and a barrier-synchronized graceful shutdown.
//
// The [Client] is the controlling caller: it owns the external stop flag
// every worker watches and the group [worker.Synchronizer] the workers
// rendezvous through. Activities implement [worker.Runner]; the client
// wraps each in a [worker.Worker], starts them together, and joins them on
// shutdown. When all workers stop cleanly (user cancel) they pass a
// two-phase barrier before tearing down; if any worker aborts uncleanly
// the graceful phase is abandoned and everyone exits immediately.
//
// Lifecycle transitions are published on an [eventbus.Bus] for status
// displays and logging; coordination between the workers themselves never
// goes through the bus, only through the synchronizer.
package burrow

// Package worker provides cooperative lifecycle management for long-lived
// background activities and barrier-synchronized graceful shutdown across
// groups of peers.
//
// # Worker
//
// A [Worker] owns one goroutine running a periodic loop around an
// implementer-supplied [Runner]. The runner contributes three hooks:
//
//   - Setup() - called once at body entry. A non-nil error (or a panic)
//     aborts the body before the worker is ever reported as started.
//   - Tick() - called once per loop iteration. Returning false requests an
//     immediate, non-rendezvous exit.
//   - Teardown() - always called on body exit, regardless of path.
//
// Runners that additionally implement [StopNotifier] are told when a clean
// group shutdown is imminent, between the two rendezvous barriers.
//
// The worker stops when its composite stop signal rises: the logical OR of
// an internal flag (set by [Worker.Stop]) and a caller-owned external [Flag]
// shared by every worker in the group. Cancellation is cooperative; the
// worst-case latency is one tick interval plus the runner's Tick time.
//
// # Group rendezvous
//
// Workers started with a shared [Synchronizer] perform a two-phase
// rendezvous on shutdown. Each voting worker reports whether it is stopping
// cleanly (stop signal observed) or uncleanly (Tick returned false, or a
// hook panicked). Clean voters block until every peer has voted; if any
// peer voted unclean the barrier releases everyone immediately and the
// graceful phase is skipped. Otherwise each worker is notified that the
// stop is imminent and the group passes a second all-ready barrier before
// tearing down.
//
// # Signals
//
// The started and stopped [Event] objects are latching: set exactly once
// per run, observable by any number of waiters, reset only on the next
// Start. Controllers may select on [Worker.Stopped]'s Done channel to wait
// for several workers at once.
package worker

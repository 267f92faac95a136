// Package eventbus provides typed in-process pub/sub for lifecycle and
// status events.
//
// Routing is by Go type: Subscribe[T] registers a handler for events of
// type T, Publish delivers to every subscriber of the event's type.
// Delivery is asynchronous; each subscriber drains its own buffered channel
// on its own goroutine, and a panicking handler is recovered and logged
// without affecting its peers.
//
// The bus is how the client controller surfaces worker lifecycle
// transitions and how activities like the handshake poller hand their
// results to whoever cares, without the workers knowing about each other.
// Coordination between workers stays in the worker package; the bus carries
// notifications only.
package eventbus

// Package handshake parses and fetches the server handshake used to
// provision a client: upgrade availability, the pre-shared key, SSH
// credentials, homepages to open, and the current server list.
//
// The wire format is a newline-delimited text blob of "Prefix: value"
// lines. [Response.Parse] never fails; it extracts what it recognizes and
// skips the rest, leaving semantic validation to callers.
//
// [Poller] runs the fetch periodically as a worker.Runner and publishes
// each parsed response on the event bus.
package handshake

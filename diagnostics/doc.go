// Package diagnostics samples the client's own process health and
// publishes it for status reporting.
//
// [Sampler] is a worker.Runner: started under a worker.Worker it samples
// CPU and resident memory on a coarse interval and emits a [StatsSample]
// event per sample. Subscribers typically feed a status display or a
// feedback upload.
package diagnostics

// Package eventstream drives an analysis over an event source.
//
// Events are read on the calling goroutine and handed out round-robin to a
// fixed pool of workers, each owning a private accumulator:
//
//	Source ──► dispatch ──► queue[0] ──► worker 0 (Accumulator)
//	                   ├──► queue[1] ──► worker 1 (Accumulator)
//	                   └──► queue[N-1] ► worker N-1
//
// When the source is drained the partials are merged into worker 0 in worker
// order and finalized once. With one worker the run is strictly sequential.
package eventstream

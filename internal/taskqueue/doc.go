// Package taskqueue implements a flushing task queue that runs deferred work
// in bounded concurrent waves.
//
// Producers Push tasks onto a Queue. When a finite capacity is configured and
// the pending batch reaches it, Push swaps the batch out and runs it as one
// wave before returning, which suspends the producer until every task in the
// wave has finished. Callers must invoke Flush once they stop pushing so the
// remainder below capacity is drained; the queue has no end-of-stream
// detection of its own.
//
// A queue constructed with Unbounded capacity never flushes automatically and
// behaves like a barrier that runs everything at the final Flush. That mode
// holds every task (and whatever the task closes over) in memory until then.
//
// Task failures never cancel siblings. A wave reports every failure it saw
// through a *WaveError once all of its tasks have returned.
package taskqueue

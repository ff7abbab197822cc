// Package splitter converts a cheat database into one emulator cheat file
// per game.
//
// A Converter drives a single forward pass over the source. Each record the
// reader yields becomes one task on a bounded taskqueue.Queue; the task
// formats the record, writes it atomically into the output directory and
// folds the result into the run Summary. When the queue is at capacity,
// Push runs the whole wave before returning, so the parse never gets more
// than one wave ahead of the writers.
//
// Per-record failures do not stop the run. They are collected as
// *RecordError values on the Summary and reported at the end. Fatal errors
// (missing source, held lock, malformed XML) are returned from Run.
package splitter

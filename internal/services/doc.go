// Package services defines shared error markers and context helpers consumed
// by the conversion pipeline and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, record IDs, and stage names so log
//     lines emitted deep inside a task carry the same identifiers as the
//     run that scheduled it.
//   - Structured error markers plus the Wrap helper that classify failures
//     as configuration problems, invalid records, or transient faults.
//
// Use these helpers when wiring new pipeline stages so error classification
// and observability stay uniform across the tool.
package services

// Package cheatxml extracts cheat records from a cheats.xml database one
// <game> element at a time.
//
// The reader never builds a document tree. It pulls tokens until the next
// <game> start element, decodes that element alone into a cheats.Record and
// returns it, so memory use is bounded by the largest single game rather
// than by the size of the database. Nesting deeper than game > folder >
// cheat is ignored.
package cheatxml

// Package history keeps an optional SQLite ledger of completed conversion
// runs and the records that failed in them.
//
// The ledger is off by default; the converter itself keeps no state beyond
// the output directory. When enabled, the CLI appends one row per run after
// the final flush so "mchsplit history" can show how a database has behaved
// across updates. Schema changes bump the version in schema.go; users delete
// the database to adopt the new schema.
package history

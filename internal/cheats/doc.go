// Package cheats holds the in-memory model of one game's cheat list and the
// formatters that turn it into emulator cheat files.
//
// A Record is built by the extraction layer, handed to exactly one
// conversion task, and dropped afterwards. Categories map to Entries, which
// map an entry key (cheat name plus optional note) to the raw code payload.
// Payloads stay raw until Format re-tokenizes them into address/value lines.
package cheats

// Package textutil provides small string helpers shared by the formatter and
// the extraction layer.
//
// SanitizeFileName makes a display name safe to embed in a file name on every
// common filesystem. CollapseWhitespace normalises free-form text the way the
// code payloads in a cheat database need before they are re-tokenized.
package textutil

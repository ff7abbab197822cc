package textutil

import "strings"

// SanitizeFileName replaces every character that is unsafe in a file name
// with an underscore. The unsafe set is / \ ? % * : | " < > plus DEL and the
// C0 control characters. Other characters, including non-ASCII letters, are
// kept as-is so the result maps one-to-one onto the input.
func SanitizeFileName(name string) string {
	if strings.IndexFunc(name, unsafeFileRune) < 0 {
		return name
	}
	return strings.Map(func(r rune) rune {
		if unsafeFileRune(r) {
			return '_'
		}
		return r
	}, name)
}

func unsafeFileRune(r rune) bool {
	switch r {
	case '/', '\\', '?', '%', '*', ':', '|', '"', '<', '>', 0x7f:
		return true
	}
	return r >= 0 && r <= 0x1f
}

// CollapseWhitespace trims s and folds every run of whitespace into a single
// space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package cheats

import (
	"errors"
	"fmt"
	"strings"

	"mchsplit/internal/textutil"
)

// ErrMalformedCode reports a payload token that is not hexadecimal.
var ErrMalformedCode = errors.New("malformed code token")

// SplitCodeLines re-tokenizes a raw payload into one line per address/value
// pair. Whitespace layout in the payload is irrelevant. An odd trailing token
// becomes a line of its own; an empty payload yields no lines.
func SplitCodeLines(payload string) []string {
	tokens := strings.Fields(textutil.CollapseWhitespace(payload))
	if len(tokens) == 0 {
		return nil
	}
	lines := make([]string, 0, (len(tokens)+1)/2)
	for i := 0; i < len(tokens); i += 2 {
		if i+1 < len(tokens) {
			lines = append(lines, tokens[i]+" "+tokens[i+1])
			continue
		}
		lines = append(lines, tokens[i])
	}
	return lines
}

// ValidateCodes checks that every token in payload is a hexadecimal number.
func ValidateCodes(payload string) error {
	for idx, token := range strings.Fields(payload) {
		if !isHex(token) {
			return fmt.Errorf("%w: token %d %q", ErrMalformedCode, idx+1, token)
		}
	}
	return nil
}

// ValidateRecordCodes runs ValidateCodes over every entry of rec and reports
// the first offending entry.
func ValidateRecordCodes(rec *Record) error {
	for _, category := range rec.CategoryNames() {
		entries := rec.Categories[category]
		for _, key := range entries.Keys() {
			if err := ValidateCodes(entries[key]); err != nil {
				return fmt.Errorf("%s / %s: %w", category, key, err)
			}
		}
	}
	return nil
}

func isHex(token string) bool {
	if token == "" {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

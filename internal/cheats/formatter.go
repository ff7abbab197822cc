package cheats

import (
	"bufio"
	"io"

	"mchsplit/internal/textutil"
)

// Formatter serializes a record into one output file.
type Formatter interface {
	// Extension is the file extension including the leading dot.
	Extension() string
	// FileName returns the base name of the file rec is written to.
	FileName(rec *Record) string
	// Format writes the file body for rec.
	Format(w io.Writer, rec *Record) error
}

// FileName returns "<ID> - <sanitized Name><ext>".
func FileName(rec *Record, ext string) string {
	return rec.ID + " - " + textutil.SanitizeFileName(rec.Name) + ext
}

// MCHExtension is the extension MelonDS expects for per-game cheat files.
const MCHExtension = ".mch"

// MCHFormatter writes the MelonDS .mch layout:
//
//	CAT <category>
//
//	CODE 0 <entry key>
//	<address> <value>
//	...
//
// Categories and entries are written in lexicographic order.
type MCHFormatter struct{}

var _ Formatter = MCHFormatter{}

// Extension implements Formatter.
func (MCHFormatter) Extension() string { return MCHExtension }

// FileName implements Formatter.
func (f MCHFormatter) FileName(rec *Record) string {
	return FileName(rec, f.Extension())
}

// Format implements Formatter.
func (MCHFormatter) Format(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)
	for _, category := range rec.CategoryNames() {
		bw.WriteString("CAT ")
		bw.WriteString(category)
		bw.WriteString("\n\n")

		entries := rec.Categories[category]
		for _, key := range entries.Keys() {
			bw.WriteString("CODE 0 ")
			bw.WriteString(key)
			bw.WriteByte('\n')
			for _, line := range SplitCodeLines(entries[key]) {
				bw.WriteString(line)
				bw.WriteByte('\n')
			}
			bw.WriteByte('\n')
		}
	}
	// bufio.Writer keeps the first write error and reports it here.
	return bw.Flush()
}

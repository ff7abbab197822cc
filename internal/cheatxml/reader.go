package cheatxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"mchsplit/internal/cheats"
)

// ErrMalformed marks a document that cannot be parsed any further.
var ErrMalformed = errors.New("malformed cheat database")

type cheatElement struct {
	Name  string `xml:"name"`
	Note  string `xml:"note"`
	Codes string `xml:"codes"`
}

type folderElement struct {
	Name   string         `xml:"name"`
	Cheats []cheatElement `xml:"cheat"`
}

type gameElement struct {
	Name    string          `xml:"name"`
	GameID  string          `xml:"gameid"`
	Cheats  []cheatElement  `xml:"cheat"`
	Folders []folderElement `xml:"folder"`
}

// Reader yields one record per <game> element in document order.
type Reader struct {
	dec   *xml.Decoder
	count int
	err   error
}

// NewReader returns a Reader pulling tokens from r.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return &Reader{dec: dec}
}

// Next returns the next record, or io.EOF once the document is exhausted.
// Any other error wraps ErrMalformed and is sticky: later calls return it
// again.
func (r *Reader) Next() (*cheats.Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			r.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			r.err = fmt.Errorf("%w after %d games (offset %d): %w", ErrMalformed, r.count, r.dec.InputOffset(), err)
			return nil, r.err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "game" {
			continue
		}

		var game gameElement
		if err := r.dec.DecodeElement(&game, &start); err != nil {
			r.err = fmt.Errorf("%w: game %d: %w", ErrMalformed, r.count+1, err)
			return nil, r.err
		}
		r.count++
		return game.record(), nil
	}
}

// Count reports how many records have been returned so far.
func (r *Reader) Count() int {
	return r.count
}

// Offset reports the input byte offset of the decoder.
func (r *Reader) Offset() int64 {
	return r.dec.InputOffset()
}

func (g *gameElement) record() *cheats.Record {
	rec := cheats.NewRecord(g.GameID, g.Name)

	// Folders are applied in document order, so a repeated folder name keeps
	// the last folder's entries.
	for _, folder := range g.Folders {
		rec.SetCategory(folder.Name, entriesOf(folder.Cheats))
	}
	if len(g.Cheats) > 0 {
		rec.SetCategory(cheats.GeneralCategory, entriesOf(g.Cheats))
	}
	return rec
}

func entriesOf(list []cheatElement) cheats.Entries {
	entries := make(cheats.Entries, len(list))
	for _, c := range list {
		entries[cheats.EntryKey(c.Name, c.Note)] = c.Codes
	}
	return entries
}

package cheats

import (
	"maps"
	"slices"
	"strings"
)

// GeneralCategory names the synthetic category that holds cheats with no
// enclosing folder. It sorts ahead of ordinary folder names.
const GeneralCategory = "!GENERAL"

// Entries maps an entry key to its raw code payload.
type Entries map[string]string

// Keys returns the entry keys in lexicographic order.
func (e Entries) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// Record is one game's cheat list.
type Record struct {
	ID         string
	Name       string
	Categories map[string]Entries
}

// NewRecord returns an empty record with trimmed identity fields.
func NewRecord(id, name string) *Record {
	return &Record{
		ID:         strings.TrimSpace(id),
		Name:       strings.TrimSpace(name),
		Categories: make(map[string]Entries),
	}
}

// SetCategory stores entries under name, replacing any category already
// stored under that name. Empty entry sets are kept so a folder with no
// cheats still produces a header.
func (r *Record) SetCategory(name string, entries Entries) {
	if r.Categories == nil {
		r.Categories = make(map[string]Entries)
	}
	if entries == nil {
		entries = Entries{}
	}
	r.Categories[name] = entries
}

// CategoryNames returns category names in lexicographic order.
func (r *Record) CategoryNames() []string {
	return slices.Sorted(maps.Keys(r.Categories))
}

// EntryCount returns the number of entries across all categories.
func (r *Record) EntryCount() int {
	total := 0
	for _, entries := range r.Categories {
		total += len(entries)
	}
	return total
}

// EntryKey builds the key for a cheat entry: the trimmed name, followed by
// " - " and the trimmed note when the note is not blank.
func EntryKey(name, note string) string {
	name = strings.TrimSpace(name)
	note = strings.TrimSpace(note)
	if note == "" {
		return name
	}
	return strings.TrimSpace(name + " - " + note)
}

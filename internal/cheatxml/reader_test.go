package cheatxml

import (
	"errors"
	"io"
	"strings"
	"testing"

	"mchsplit/internal/cheats"
)

const twoGames = `<?xml version="1.0" encoding="UTF-8"?>
<codelist>
  <name>R4 cheat database</name>
  <game>
    <name>Alpha Quest</name>
    <gameid>AAAA 1111</gameid>
    <cheat>
      <name>Master Code</name>
      <codes>94000130 FFFB0000
        62101C40 00000000</codes>
    </cheat>
    <folder>
      <name>Items</name>
      <cheat>
        <name>Max Money</name>
        <note>Press Select</note>
        <codes>02000000 0098967F</codes>
      </cheat>
    </folder>
  </game>
  <game>
    <name>Beta Empty</name>
    <gameid>BBBB 2222</gameid>
  </game>
</codelist>`

func TestReaderYieldsRecordsInOrder(t *testing.T) {
	r := NewReader(strings.NewReader(twoGames))

	first, err := r.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if first.ID != "AAAA 1111" || first.Name != "Alpha Quest" {
		t.Fatalf("unexpected identity %q %q", first.ID, first.Name)
	}
	general := first.Categories[cheats.GeneralCategory]
	if general["Master Code"] == "" {
		t.Fatalf("expected ungrouped cheat in %s, got %+v", cheats.GeneralCategory, first.Categories)
	}
	if got := first.Categories["Items"]["Max Money - Press Select"]; got != "02000000 0098967F" {
		t.Fatalf("unexpected folder payload %q", got)
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if second.ID != "BBBB 2222" || len(second.Categories) != 0 {
		t.Fatalf("expected empty second record, got %+v", second)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF to repeat, got %v", err)
	}
	if r.Count() != 2 {
		t.Fatalf("expected count 2, got %d", r.Count())
	}
}

func TestReaderOmitsGeneralWithoutUngroupedCheats(t *testing.T) {
	doc := `<codelist><game><gameid>X</gameid><folder><name>F</name><cheat><name>c</name><codes>1 2</codes></cheat></folder></game></codelist>`
	rec, err := NewReader(strings.NewReader(doc)).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, ok := rec.Categories[cheats.GeneralCategory]; ok {
		t.Fatal("did not expect a general category")
	}
}

func TestReaderLaterFolderReplacesEarlier(t *testing.T) {
	doc := `<codelist><game><gameid>X</gameid>
<folder><name>Dup</name><cheat><name>first</name><codes>1 1</codes></cheat></folder>
<folder><name>Dup</name><cheat><name>second</name><codes>2 2</codes></cheat></folder>
</game></codelist>`
	rec, err := NewReader(strings.NewReader(doc)).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	dup := rec.Categories["Dup"]
	if len(dup) != 1 || dup["second"] != "2 2" {
		t.Fatalf("expected only the later folder, got %+v", dup)
	}
}

func TestReaderDuplicateKeyLastWins(t *testing.T) {
	doc := `<codelist><game><gameid>X</gameid>
<cheat><name>Same</name><codes>1 1</codes></cheat>
<cheat><name>Same</name><codes>2 2</codes></cheat>
</game></codelist>`
	rec, err := NewReader(strings.NewReader(doc)).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := rec.Categories[cheats.GeneralCategory]["Same"]; got != "2 2" {
		t.Fatalf("expected last duplicate to win, got %q", got)
	}
}

func TestReaderIgnoresDeeperNesting(t *testing.T) {
	doc := `<codelist><game><gameid>X</gameid>
<folder><name>Outer</name>
  <folder><name>Inner</name><cheat><name>deep</name><codes>1 1</codes></cheat></folder>
  <cheat><name>shallow</name><codes>2 2</codes></cheat>
</folder></game></codelist>`
	rec, err := NewReader(strings.NewReader(doc)).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(rec.Categories) != 1 {
		t.Fatalf("expected only the outer folder, got %+v", rec.Categories)
	}
	if _, ok := rec.Categories["Outer"]["deep"]; ok {
		t.Fatal("nested folder cheat must not be collected")
	}
	if rec.Categories["Outer"]["shallow"] != "2 2" {
		t.Fatalf("unexpected outer folder %+v", rec.Categories["Outer"])
	}
}

func TestReaderConvertsDeclaredCharset(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<codelist><game><name>Pok\xe9mon</name><gameid>IRBO</gameid></game></codelist>"
	rec, err := NewReader(strings.NewReader(doc)).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Name != "Pokémon" {
		t.Fatalf("expected converted name, got %q", rec.Name)
	}
}

func TestReaderRejectsUnknownCharset(t *testing.T) {
	doc := `<?xml version="1.0" encoding="x-made-up"?><codelist/>`
	_, err := NewReader(strings.NewReader(doc)).Next()
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestReaderMalformedIsSticky(t *testing.T) {
	doc := `<codelist><game><gameid>OK</gameid></game><game><gameid>BAD</gameid></codelist>`
	r := NewReader(strings.NewReader(doc))

	if _, err := r.Next(); err != nil {
		t.Fatalf("first record should parse: %v", err)
	}
	_, err := r.Next()
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, again := r.Next(); !errors.Is(again, ErrMalformed) {
		t.Fatalf("expected sticky error, got %v", again)
	}
}

func TestReaderEmptyDocument(t *testing.T) {
	if _, err := NewReader(strings.NewReader("")).Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

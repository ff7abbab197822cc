package testsupport

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TwoGameXML is a small database: one game with an ungrouped cheat and a
// folder, and one game with no cheats at all.
const TwoGameXML = `<?xml version="1.0" encoding="UTF-8"?>
<codelist>
  <game>
    <name>Alpha Quest</name>
    <gameid>AAAA 1111</gameid>
    <cheat>
      <name>Master Code</name>
      <codes>94000130 FFFB0000  62101C40 00000000
 D2000000 00000000</codes>
    </cheat>
    <folder>
      <name>Items</name>
      <cheat>
        <name>Max Money</name>
        <note>Press Select</note>
        <codes>02000000 0098967F 12345678</codes>
      </cheat>
    </folder>
  </game>
  <game>
    <name>Beta: Empty?</name>
    <gameid>BBBB 2222</gameid>
  </game>
</codelist>
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadDir returns the file names and contents found directly in dir.
func ReadDir(t testing.TB, dir string) map[string]string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		files[entry.Name()] = string(data)
	}
	return files
}

// FileNames returns the sorted keys of files.
func FileNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

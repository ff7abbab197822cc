package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mchsplit/internal/services"
	"mchsplit/internal/testsupport"
)

func TestSplitWritesOneFilePerGame(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSource(testsupport.TwoGameXML))

	out, _, err := runCLI(t, []string{"split"}, env.configPath)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	requireContains(t, out, "Splitting, please wait...")
	requireContains(t, out, "Written")
	requireContains(t, out, "Digest")

	files := testsupport.ReadDir(t, env.cfg.Paths.OutputDir)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %q", testsupport.FileNames(files))
	}
	if _, ok := files["AAAA 1111 - Alpha Quest.mch"]; !ok {
		t.Fatalf("missing Alpha Quest output, got %q", testsupport.FileNames(files))
	}
}

func TestRootCommandSplitsByDefault(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSource(testsupport.TwoGameXML))

	if _, _, err := runCLI(t, nil, env.configPath); err != nil {
		t.Fatalf("root: %v", err)
	}
	if got := len(testsupport.ReadDir(t, env.cfg.Paths.OutputDir)); got != 2 {
		t.Fatalf("expected 2 files, got %d", got)
	}
}

func TestSplitFlagsOverrideConfig(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())

	src := filepath.Join(env.baseDir, "elsewhere", "db.xml")
	testsupport.WriteFile(t, src, testsupport.TwoGameXML)
	outDir := filepath.Join(env.baseDir, "custom-out")

	if _, _, err := runCLI(t, []string{"split", "--source", src, "-o", outDir, "-t", "1"}, env.configPath); err != nil {
		t.Fatalf("split with threads: %v", err)
	}
	if _, _, err := runCLI(t, []string{"-s", src, "-o", outDir, "--maxthreads"}, env.configPath); err != nil {
		t.Fatalf("root with maxthreads: %v", err)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 recorded runs, got %d", len(runs))
	}
	// Newest first.
	unlimited, threaded := runs[0], runs[1]
	if threaded.Capacity != 1 || threaded.Waves != 2 {
		t.Fatalf("expected capacity 1 and 2 waves, got %+v", threaded)
	}
	if unlimited.Capacity != 0 || unlimited.Waves != 1 {
		t.Fatalf("expected unlimited single wave, got %+v", unlimited)
	}
	if threaded.Digest != unlimited.Digest {
		t.Fatal("expected identical digests regardless of capacity")
	}
	if threaded.OutputDir != outDir || threaded.Source != src {
		t.Fatalf("expected overridden paths, got %q %q", threaded.Source, threaded.OutputDir)
	}
}

func TestSplitMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"split"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "not found")
	if _, statErr := os.Stat(env.cfg.Paths.OutputDir); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output directory, got %v", statErr)
	}
}

func TestSplitReportsRecordFailures(t *testing.T) {
	doc := `<codelist>
<game><name>Missing</name></game>
<game><name>Present</name><gameid>GOOD</gameid></game>
</codelist>`
	env := setupCLITestEnv(t, testsupport.WithSource(doc), testsupport.WithHistory())

	out, _, err := runCLI(t, []string{"split"}, env.configPath)
	if err == nil {
		t.Fatal("expected non-nil error when a game fails")
	}
	requireContains(t, err.Error(), "1 of 2 games failed")
	requireContains(t, out, "missing game id")
	requireContains(t, out, "validation")

	runs, listErr := testsupport.MustOpenHistory(t, env.cfg).List(context.Background(), 1)
	if listErr != nil || len(runs) != 1 || runs[0].Status != "partial" {
		t.Fatalf("expected partial run in history, got %+v %v", runs, listErr)
	}
}

func TestSplitRejectsInvalidThreads(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSource(testsupport.TwoGameXML))

	_, _, err := runCLI(t, []string{"split", "--threads", "0"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for zero threads")
	}
	requireContains(t, err.Error(), "split.threads")
}

func TestSplitWritesRunLog(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSource(testsupport.TwoGameXML), testsupport.WithLogDir())

	if _, _, err := runCLI(t, []string{"split"}, env.configPath); err != nil {
		t.Fatalf("split: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(env.cfg.Logging.Dir, "mchsplit-*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one run log, got %v %v", matches, err)
	}
}

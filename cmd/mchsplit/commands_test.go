package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mchsplit/internal/preflight"
	"mchsplit/internal/testsupport"
)

func TestCheckPassesWithSource(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSource(testsupport.TwoGameXML))

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "[OK] "+env.cfg.Paths.Source+" (readable, plain)")
	requireContains(t, out, "will be created under")
}

func TestCheckFailsWithoutSource(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, err.Error(), "preflight checks failed")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Run history is disabled")
}

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSource(testsupport.TwoGameXML), testsupport.WithHistory())

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")

	for range 2 {
		if _, _, err := runCLI(t, []string{"split"}, env.configPath); err != nil {
			t.Fatalf("split: %v", err)
		}
	}

	runs, err := testsupport.MustOpenHistory(t, env.cfg).List(context.Background(), 0)
	if err != nil || len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %v %v", runs, err)
	}

	out, _, err = runCLI(t, []string{"history", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, runs[0].RunID)
	if strings.Contains(out, runs[1].RunID) {
		t.Fatalf("expected limit to hide older run, got %s", out)
	}

	out, _, err = runCLI(t, []string{"history", "show", runs[1].RunID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, "No failed games")

	if _, _, err := runCLI(t, []string{"history", "show", "missing"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Config path: "+env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[split]\nthreads = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Cheat database", statusError, "missing", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Cheat database:", "[ERROR] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Output directory", statusOK, "ok", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestRenderCheckResults(t *testing.T) {
	lines := renderCheckResults([]preflight.Result{
		{Name: "Cheat database", Passed: true, Detail: "cheats.xml (readable, plain)"},
		{Name: "Output directory", Detail: "/data (error: would be cleared)"},
	}, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] cheats.xml") || !strings.Contains(lines[1], "[ERROR] /data") {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestCapacityLabel(t *testing.T) {
	if capacityLabel(0) != "unlimited" || capacityLabel(10) != "10" {
		t.Fatal("unexpected capacity labels")
	}
}

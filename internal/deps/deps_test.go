package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckBinariesFindsExistingBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix executable bits")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "fake-rsync")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	statuses := CheckBinaries([]Requirement{{Name: "rsync", Command: "fake-rsync"}})
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected binary to be available: %+v", statuses[0])
	}
	if missing := Missing(statuses); len(missing) != 0 {
		t.Fatalf("expected no missing requirements, got %+v", missing)
	}
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	statuses := CheckBinaries([]Requirement{
		{Name: "rsync", Command: "definitely-not-installed"},
		{Name: "empty", Command: ""},
	})
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	for _, status := range statuses {
		if status.Available {
			t.Fatalf("expected unavailable status: %+v", status)
		}
		if status.Detail == "" {
			t.Fatalf("expected detail for %s", status.Name)
		}
	}
	if missing := Missing(statuses); len(missing) != 2 {
		t.Fatalf("expected 2 missing, got %d", len(missing))
	}
}

func TestForStrategy(t *testing.T) {
	if reqs := ForStrategy("copy", ""); reqs != nil {
		t.Fatalf("copy strategy should need no binaries, got %+v", reqs)
	}
	if reqs := ForStrategy("symlink", ""); reqs != nil {
		t.Fatalf("symlink strategy should need no binaries, got %+v", reqs)
	}

	reqs := ForStrategy("rsync", "")
	if len(reqs) != 1 || reqs[0].Command != "rsync" {
		t.Fatalf("unexpected rsync requirements: %+v", reqs)
	}
	reqs = ForStrategy("RSYNC", "/usr/local/bin/rsync")
	if len(reqs) != 1 || reqs[0].Command != "/usr/local/bin/rsync" {
		t.Fatalf("unexpected custom binary requirements: %+v", reqs)
	}
}

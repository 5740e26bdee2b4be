package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestForNameKnownStrategies(t *testing.T) {
	for _, name := range []string{"copy", "rsync", "symlink", "move", ""} {
		strategy, err := ForName(name, Config{})
		if err != nil {
			t.Fatalf("ForName(%q): %v", name, err)
		}
		if strategy == nil {
			t.Fatalf("ForName(%q) returned nil strategy", name)
		}
	}
	if _, err := ForName("teleport", Config{}); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestCopyStrategyTransfers(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "a.png")
	dst := filepath.Join(dir, "out", "m", "v", "a.png")
	writeFile(t, src, "image bytes")

	strategy, err := ForName("copy", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "image bytes" {
		t.Fatalf("content mismatch: %q", got)
	}

	// Re-running must succeed and leave identical content.
	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("re-run Transfer: %v", err)
	}
}

func TestCopyStrategyVerify(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "out", "a.png")
	writeFile(t, src, "verified")

	strategy, err := ForName("copy", Config{Verify: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "verified" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestCopyStrategySkipExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "out", "a.png")
	writeFile(t, src, "1234")
	writeFile(t, dst, "abcd")

	strategy, err := ForName("copy", Config{SkipExisting: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	// Same size, so the existing file is left untouched.
	if string(got) != "abcd" {
		t.Fatalf("expected skip to preserve destination, got %q", got)
	}
}

func TestSymlinkStrategyIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "out", "a.png")
	writeFile(t, src, "linked")

	strategy, err := ForName("symlink", Config{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := strategy.Transfer(context.Background(), src, dst); err != nil {
			t.Fatalf("Transfer #%d: %v", i+1, err)
		}
	}

	target, err := os.Readlink(dst)
	if err != nil {
		t.Fatal(err)
	}
	if target != src {
		t.Fatalf("unexpected link target: %q", target)
	}
}

func TestSymlinkStrategyReplacesStaleLink(t *testing.T) {
	dir := t.TempDir()
	oldSrc := filepath.Join(dir, "old.png")
	newSrc := filepath.Join(dir, "new.png")
	dst := filepath.Join(dir, "out", "a.png")
	writeFile(t, oldSrc, "old")
	writeFile(t, newSrc, "new")

	strategy, err := ForName("symlink", Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), oldSrc, dst); err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), newSrc, dst); err != nil {
		t.Fatal(err)
	}
	target, err := os.Readlink(dst)
	if err != nil {
		t.Fatal(err)
	}
	if target != newSrc {
		t.Fatalf("expected later write to win, link points at %q", target)
	}
}

type fakeExecutor struct {
	calls [][]string
	err   error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) error {
	call := append([]string{binary}, args...)
	f.calls = append(f.calls, call)
	return f.err
}

func TestRsyncStrategyInvokesBinary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "out", "a.png")
	writeFile(t, src, "x")

	fake := &fakeExecutor{}
	strategy := newRsyncStrategy("rsync", []string{"--checksum"}).withExecutor(fake)

	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	want := []string{"rsync", "-a", "--checksum", "--", src, dst}
	if len(call) != len(want) {
		t.Fatalf("unexpected call: %v", call)
	}
	for i := range want {
		if call[i] != want[i] {
			t.Fatalf("argument %d: got %q want %q", i, call[i], want[i])
		}
	}
	// Parent directory must exist before rsync runs.
	if _, err := os.Stat(filepath.Dir(dst)); err != nil {
		t.Fatalf("destination directory missing: %v", err)
	}
}

func TestRsyncStrategyPropagatesFailure(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeExecutor{err: errors.New("rsync exploded")}
	strategy := newRsyncStrategy("rsync", nil).withExecutor(fake)

	err := strategy.Transfer(context.Background(), filepath.Join(dir, "a"), filepath.Join(dir, "out", "a"))
	if err == nil {
		t.Fatal("expected error from executor")
	}
}

func TestSidecarDecoratorCopiesCompanion(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src", "1234.png")
	sidecar := filepath.Join(dir, "src", "1234.json")
	dst := filepath.Join(dir, "out", "m", "1234.png")
	writeFile(t, src, "img")
	writeFile(t, sidecar, `{"seed":42}`)

	resolver := func(name string) (string, bool) {
		if name == "1234.json" {
			return sidecar, true
		}
		return "", false
	}
	strategy, err := ForName("copy", Config{Sidecar: resolver})
	if err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "out", "m", "1234.json"))
	if err != nil {
		t.Fatalf("sidecar not delivered: %v", err)
	}
	if string(got) != `{"seed":42}` {
		t.Fatalf("sidecar content mismatch: %q", got)
	}
}

func TestSidecarMissingDoesNotFailJob(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "out", "a.png")
	writeFile(t, src, "img")

	resolver := func(string) (string, bool) { return "", false }
	strategy, err := ForName("copy", Config{Sidecar: resolver})
	if err != nil {
		t.Fatal(err)
	}
	if err := strategy.Transfer(context.Background(), src, dst); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
}

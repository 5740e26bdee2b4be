package taxonomy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"curator/internal/services"
)

func TestMaterializeCreatesDirectories(t *testing.T) {
	out := t.TempDir()
	dirs := []string{
		filepath.Join(out, "sd1.5", "v1"),
		filepath.Join(out, "sd1.5", "v2"),
		filepath.Join(out, "sdxl", "base"),
	}

	created, err := Materialize(context.Background(), dirs)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 3 {
		t.Fatalf("expected 3 created, got %d", created)
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s", dir)
		}
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	out := t.TempDir()
	dirs := []string{filepath.Join(out, "m", "v")}

	if _, err := Materialize(context.Background(), dirs); err != nil {
		t.Fatalf("first Materialize: %v", err)
	}
	created, err := Materialize(context.Background(), dirs)
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected 0 created on re-run, got %d", created)
	}
}

func TestMaterializeToleratesConcurrentCallers(t *testing.T) {
	out := t.TempDir()
	dirs := []string{
		filepath.Join(out, "shared", "node"),
		filepath.Join(out, "shared", "other"),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Materialize(context.Background(), dirs); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Materialize failed: %v", err)
	}
}

func TestMaterializeUnwritableRoot(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission test requires non-root unix")
	}
	out := t.TempDir()
	if err := os.Chmod(out, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(out, 0o755) })

	_, err := Materialize(context.Background(), []string{filepath.Join(out, "m", "v")})
	if err == nil {
		t.Fatal("expected error for unwritable root")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestMaterializeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Materialize(ctx, []string{filepath.Join(t.TempDir(), "m")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

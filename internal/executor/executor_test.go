package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"curator/internal/logging"
	"curator/internal/plan"
	"curator/internal/transfer"
)

func makeJobs(t *testing.T, dir string, count int) []plan.Job {
	t.Helper()
	jobs := make([]plan.Job, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%03d.png", i)
		source := filepath.Join(dir, "src", name)
		if err := os.MkdirAll(filepath.Dir(source), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(source, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
		jobs = append(jobs, plan.Job{
			Source:      source,
			Destination: filepath.Join(dir, "out", name),
		})
	}
	return jobs
}

func newCopyPool(t *testing.T, workers int) *Pool {
	t.Helper()
	strategy, err := transfer.ForName("copy", transfer.Config{})
	if err != nil {
		t.Fatal(err)
	}
	return New(strategy, workers, logging.NewNop())
}

func TestPoolTransfersAllJobs(t *testing.T) {
	dir := t.TempDir()
	jobs := makeJobs(t, dir, 40)

	result, err := newCopyPool(t, 8).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Completed != len(jobs) {
		t.Fatalf("expected %d completed, got %d", len(jobs), result.Completed)
	}
	if result.Failed != 0 {
		t.Fatalf("expected no failures, got %d", result.Failed)
	}
	for _, job := range jobs {
		if _, err := os.Stat(job.Destination); err != nil {
			t.Fatalf("missing destination %s: %v", job.Destination, err)
		}
	}
}

func TestPoolResultInvariantAcrossWorkerCounts(t *testing.T) {
	collect := func(workers int) map[string]struct{} {
		dir := t.TempDir()
		jobs := makeJobs(t, dir, 30)
		result, err := newCopyPool(t, workers).Run(context.Background(), jobs)
		if err != nil {
			t.Fatalf("Run(workers=%d): %v", workers, err)
		}
		if result.Completed+result.Failed != len(jobs) {
			t.Fatalf("outcome count mismatch: %d + %d != %d", result.Completed, result.Failed, len(jobs))
		}
		set := make(map[string]struct{})
		entries, err := os.ReadDir(filepath.Join(dir, "out"))
		if err != nil {
			t.Fatal(err)
		}
		for _, entry := range entries {
			set[entry.Name()] = struct{}{}
		}
		return set
	}

	one := collect(1)
	many := collect(32)
	if len(one) != len(many) {
		t.Fatalf("file sets differ: %d vs %d", len(one), len(many))
	}
	for name := range one {
		if _, ok := many[name]; !ok {
			t.Fatalf("file %q missing with 32 workers", name)
		}
	}
}

type flakyStrategy struct {
	failOn string
}

func (f flakyStrategy) Name() string { return "flaky" }

func (f flakyStrategy) Transfer(_ context.Context, src, _ string) error {
	if strings.Contains(src, f.failOn) {
		return errors.New("simulated transfer failure")
	}
	return nil
}

func TestPoolIsolatesPerJobFailures(t *testing.T) {
	jobs := []plan.Job{
		{Source: "/src/good-1", Destination: "/dst/1"},
		{Source: "/src/bad-2", Destination: "/dst/2"},
		{Source: "/src/good-3", Destination: "/dst/3"},
	}

	pool := New(flakyStrategy{failOn: "bad"}, 2, logging.NewNop())
	result, err := pool.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Completed != 2 {
		t.Fatalf("expected 2 completed, got %d", result.Completed)
	}
	if result.Failed != 1 {
		t.Fatalf("expected 1 failed, got %d", result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0].Job.Source != "/src/bad-2" {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
}

type panicStrategy struct{}

func (panicStrategy) Name() string { return "panic" }

func (panicStrategy) Transfer(context.Context, string, string) error {
	panic("strategy exploded")
}

func TestPoolRecoversPanickingJob(t *testing.T) {
	jobs := []plan.Job{{Source: "/a", Destination: "/b"}}
	result, err := New(panicStrategy{}, 1, logging.NewNop()).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected panic to surface as failure, got %+v", result)
	}
	if !strings.Contains(result.Failures[0].Err.Error(), "panic") {
		t.Fatalf("expected panic detail, got %v", result.Failures[0].Err)
	}
}

type blockingStrategy struct {
	started atomic.Int32
	release chan struct{}
	once    sync.Once
}

func (b *blockingStrategy) Name() string { return "blocking" }

func (b *blockingStrategy) Transfer(ctx context.Context, _, _ string) error {
	b.started.Add(1)
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestPoolHonorsCancellation(t *testing.T) {
	strategy := &blockingStrategy{release: make(chan struct{})}
	jobs := make([]plan.Job, 10)
	for i := range jobs {
		jobs[i] = plan.Job{Source: "/a", Destination: "/b"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for strategy.started.Load() == 0 {
		}
		cancel()
	}()

	_, err := New(strategy, 2, logging.NewNop()).Run(ctx, jobs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPoolEmptyJobList(t *testing.T) {
	result, err := newCopyPool(t, 4).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Completed != 0 || result.Failed != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

package report

import (
	"strings"
	"testing"
	"time"
)

func TestSummaryThroughput(t *testing.T) {
	s := Summary{Completed: 100, Elapsed: 4 * time.Second}
	if got := s.Throughput(); got != 25 {
		t.Fatalf("Throughput() = %v, want 25", got)
	}

	zero := Summary{Completed: 10}
	if got := zero.Throughput(); got != 0 {
		t.Fatalf("Throughput() with zero elapsed = %v, want 0", got)
	}
}

func TestSummaryConsistent(t *testing.T) {
	good := Summary{Records: 10, Resolved: 7, Skipped: 3}
	if !good.Consistent() {
		t.Fatal("expected consistent summary")
	}
	bad := Summary{Records: 10, Resolved: 7, Skipped: 2}
	if bad.Consistent() {
		t.Fatal("expected inconsistent summary")
	}
}

func TestSummaryRender(t *testing.T) {
	s := Summary{
		Records:   3,
		Malformed: 1,
		Resolved:  2,
		Skipped:   1,
		Completed: 2,
		Elapsed:   1500 * time.Millisecond,
	}
	out := s.Render()
	for _, want := range []string{"Records parsed", "Transferred", "1.5s", "files/s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTablePadding(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}})
	if !strings.Contains(out, "only") {
		t.Fatalf("renderTable dropped short row:\n%s", out)
	}
}

// Package report summarizes the outcome of a reorganization run.
package report

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary aggregates the counters produced by a full run.
type Summary struct {
	RunID      string
	Strategy   string
	Workers    int
	Records    int
	Malformed  int
	Resolved   int
	Skipped    int
	Collisions int
	Completed  int
	Failed     int
	DirsMade   int
	Elapsed    time.Duration
}

// Throughput returns completed transfers per second, or zero when the
// run finished too quickly to measure.
func (s Summary) Throughput() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Completed) / secs
}

// Consistent reports whether the resolved and skipped counts account for
// every parsed record.
func (s Summary) Consistent() bool {
	return s.Resolved+s.Skipped == s.Records
}

// Render produces a human-readable table of the run counters.
func (s Summary) Render() string {
	rows := [][]string{
		{"Records parsed", fmt.Sprintf("%d", s.Records)},
		{"Malformed rows", fmt.Sprintf("%d", s.Malformed)},
		{"Resolved", fmt.Sprintf("%d", s.Resolved)},
		{"Skipped (not found)", fmt.Sprintf("%d", s.Skipped)},
		{"Index collisions", fmt.Sprintf("%d", s.Collisions)},
		{"Transferred", fmt.Sprintf("%d", s.Completed)},
		{"Failed", fmt.Sprintf("%d", s.Failed)},
		{"Directories created", fmt.Sprintf("%d", s.DirsMade)},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	}
	if tp := s.Throughput(); tp > 0 {
		rows = append(rows, []string{"Throughput", fmt.Sprintf("%.1f files/s", tp)})
	}
	return renderTable([]string{"Metric", "Value"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

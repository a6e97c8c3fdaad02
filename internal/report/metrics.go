package report

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

// MetricsResult is the single-block aggregate summary. All counts are zero
// on an empty store.
type MetricsResult struct {
	Opts       Options
	Total      int
	Open       int
	Closed     int
	Overdue    int
	DueSoon    int
	NoDue      int
	Stale      int
	Unassigned int
	BySeverity []store.FieldCount // open signals, descending count

	MedianAgeDays int     // open signals
	AvgCycleDays  float64 // closed signals with a close timestamp
	CycleSamples  int
}

// Metrics computes the aggregate rollup. opts.Days is the due-soon window
// and opts.StaleDays the staleness threshold.
func Metrics(ctx context.Context, s store.Store, opts Options) (*MetricsResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	r := &MetricsResult{Opts: opts, Total: len(signals)}
	severities := make(map[string]int)
	var openAges []int
	cycleTotal := 0

	for _, sig := range signals {
		switch sig.Status {
		case models.StatusOpen:
			r.Open++
			openAges = append(openAges, policy.AgeDays(sig, opts.AsOf))
			severities[string(sig.Severity)]++
			if sig.Owner == "" {
				r.Unassigned++
			}
			if sig.Due == nil {
				r.NoDue++
			}
		case models.StatusClosed:
			r.Closed++
			if sig.ClosedAt != nil {
				cycleTotal += policy.CycleDays(sig)
				r.CycleSamples++
			}
		}

		if policy.IsOverdue(sig, opts.AsOf) {
			r.Overdue++
		}
		if policy.IsDueSoon(sig, opts.AsOf, opts.Days) {
			r.DueSoon++
		}
		if policy.IsStale(sig, opts.AsOf, opts.StaleDays) {
			r.Stale++
		}
	}

	for value, count := range severities {
		r.BySeverity = append(r.BySeverity, store.FieldCount{Value: value, Count: count})
	}
	sort.Slice(r.BySeverity, func(i, j int) bool {
		if r.BySeverity[i].Count != r.BySeverity[j].Count {
			return r.BySeverity[i].Count > r.BySeverity[j].Count
		}
		return r.BySeverity[i].Value < r.BySeverity[j].Value
	})

	if len(openAges) > 0 {
		sort.Ints(openAges)
		mid := len(openAges) / 2
		if len(openAges)%2 == 0 {
			r.MedianAgeDays = (openAges[mid-1] + openAges[mid]) / 2
		} else {
			r.MedianAgeDays = openAges[mid]
		}
	}
	if r.CycleSamples > 0 {
		r.AvgCycleDays = float64(cycleTotal) / float64(r.CycleSamples)
	}
	return r, nil
}

// Render writes the metrics summary block.
func (r *MetricsResult) Render(w io.Writer, f Format) error {
	writeSection(w, f, "Signal Metrics")
	fmt.Fprintf(w, "- As of: %s\n", r.Opts.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "- Total signals: %d\n", r.Total)
	fmt.Fprintf(w, "- Open: %d\n", r.Open)
	fmt.Fprintf(w, "- Closed: %d\n", r.Closed)
	fmt.Fprintf(w, "- Overdue (open): %d\n", r.Overdue)
	fmt.Fprintf(w, "- Due soon (next %d days): %d\n", r.Opts.Days, r.DueSoon)
	fmt.Fprintf(w, "- No due date (open): %d\n", r.NoDue)
	fmt.Fprintf(w, "- Stale (no update in %d days): %d\n", r.Opts.StaleDays, r.Stale)
	fmt.Fprintf(w, "- Unassigned (open): %d\n", r.Unassigned)
	fmt.Fprintf(w, "- Median open age: %d days\n", r.MedianAgeDays)
	fmt.Fprintf(w, "- Average close cycle: %.1f days (%d closed)\n", r.AvgCycleDays, r.CycleSamples)

	fmt.Fprintln(w)
	writeSection(w, f, "Open by severity")
	if len(r.BySeverity) == 0 {
		fmt.Fprintln(w, "- None")
		return nil
	}
	for _, fc := range r.BySeverity {
		fmt.Fprintf(w, "- %s: %d\n", fc.Value, fc.Count)
	}
	return nil
}

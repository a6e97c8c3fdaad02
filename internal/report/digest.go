package report

import (
	"context"
	"fmt"
	"io"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

// DigestResult holds the snapshot counts and buckets for the digest report.
type DigestResult struct {
	Opts  Options
	Total int
	Open  int

	Closed  int
	Overdue []*models.Signal
	DueSoon []*models.Signal
	Recent  []*models.Signal
}

// Digest buckets signals into overdue, due-soon, and recently-created lists
// with an overall snapshot.
func Digest(ctx context.Context, s store.Store, opts Options) (*DigestResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	r := &DigestResult{Opts: opts, Total: len(signals)}
	for _, sig := range signals {
		switch sig.Status {
		case models.StatusOpen:
			r.Open++
		case models.StatusClosed:
			r.Closed++
		}

		if policy.IsOverdue(sig, opts.AsOf) {
			r.Overdue = append(r.Overdue, sig)
		} else if policy.IsDueSoon(sig, opts.AsOf, opts.Days) {
			r.DueSoon = append(r.DueSoon, sig)
		}

		age := policy.AgeDays(sig, opts.AsOf)
		if age <= opts.Days && !sig.CreatedAt.After(opts.AsOf.AddDate(0, 0, 1)) {
			r.Recent = append(r.Recent, sig)
		}
	}
	return r, nil
}

// Render writes the digest in the requested format.
func (r *DigestResult) Render(w io.Writer, f Format) error {
	writeHeading(w, f, "Signal Digest")
	fmt.Fprintln(w)
	writeSection(w, f, "Snapshot")
	fmt.Fprintf(w, "- As of: %s\n", r.Opts.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "- Total signals: %d\n", r.Total)
	fmt.Fprintf(w, "- Open: %d\n", r.Open)
	fmt.Fprintf(w, "- Closed: %d\n", r.Closed)
	fmt.Fprintf(w, "- Overdue (open): %d\n", len(r.Overdue))
	fmt.Fprintf(w, "- Due soon (next %d days): %d\n", r.Opts.Days, len(r.DueSoon))

	fmt.Fprintln(w)
	writeSection(w, f, "Overdue Signals")
	writeSignalList(w, r.Overdue, r.Opts.Limit)

	fmt.Fprintln(w)
	writeSection(w, f, "Due Soon")
	writeSignalList(w, r.DueSoon, r.Opts.Limit)

	fmt.Fprintln(w)
	writeSection(w, f, fmt.Sprintf("Recent Signals (last %d days)", r.Opts.Days))
	writeSignalList(w, r.Recent, r.Opts.Limit)
	return nil
}

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

// StaleResult lists open signals that have gone quiet, oldest update first.
type StaleResult struct {
	Opts      Options
	TotalOpen int
	Signals   []*models.Signal
}

// Stale finds open signals without an update in opts.StaleDays days.
func Stale(ctx context.Context, s store.Store, opts Options) (*StaleResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{Status: models.StatusOpen})
	if err != nil {
		return nil, err
	}

	r := &StaleResult{Opts: opts, TotalOpen: len(signals)}
	for _, sig := range signals {
		if policy.IsStale(sig, opts.AsOf, opts.StaleDays) {
			r.Signals = append(r.Signals, sig)
		}
	}
	sort.Slice(r.Signals, func(i, j int) bool {
		a, b := r.Signals[i], r.Signals[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
	return r, nil
}

// Render writes the stale-signal table, oldest update first.
func (r *StaleResult) Render(w io.Writer, f Format) error {
	writeSection(w, f, fmt.Sprintf("Stale Signals (no update in %d days)", r.Opts.StaleDays))
	fmt.Fprintf(w, "- As of: %s\n", r.Opts.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "- Open signals: %d\n", r.TotalOpen)
	fmt.Fprintf(w, "- Stale: %d\n", len(r.Signals))
	fmt.Fprintln(w)

	if len(r.Signals) == 0 {
		fmt.Fprintln(w, "No stale signals.")
		return nil
	}

	headers := []string{"ID", "Title", "Owner", "Severity", "Last update", "Idle(d)"}
	var rows [][]string
	for i, sig := range r.Signals {
		if r.Opts.Limit > 0 && i >= r.Opts.Limit {
			break
		}
		idle := policy.DaysSince(sig.UpdatedAt, r.Opts.AsOf)
		rows = append(rows, []string{
			fmt.Sprintf("%d", sig.ID),
			sig.Title,
			ownerLabel(sig.Owner),
			string(sig.Severity),
			sig.UpdatedAt.Format("2006-01-02"),
			fmt.Sprintf("%d", idle),
		})
	}
	return writeTable(w, f, headers, rows)
}

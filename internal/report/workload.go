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

// WorkloadRow is one owner's due-bucket breakdown.
type WorkloadRow struct {
	Owner   string
	Overdue int
	DueSoon int
	Later   int
	NoDue   int
	Total   int
}

// WorkloadResult groups open signals by owner. Per-owner totals sum to
// TotalOpen.
type WorkloadResult struct {
	Opts      Options
	Rows      []WorkloadRow
	TotalOpen int
}

// Workload buckets every open signal per owner into overdue, due-soon,
// later, and no-due counts.
func Workload(ctx context.Context, s store.Store, opts Options) (*WorkloadResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{Status: models.StatusOpen})
	if err != nil {
		return nil, err
	}

	byOwner := make(map[string]*WorkloadRow)
	for _, sig := range signals {
		owner := ownerLabel(sig.Owner)
		row := byOwner[owner]
		if row == nil {
			row = &WorkloadRow{Owner: owner}
			byOwner[owner] = row
		}

		switch {
		case policy.IsOverdue(sig, opts.AsOf):
			row.Overdue++
		case policy.IsDueSoon(sig, opts.AsOf, opts.Days):
			row.DueSoon++
		case sig.Due == nil:
			row.NoDue++
		default:
			row.Later++
		}
		row.Total++
	}

	r := &WorkloadResult{Opts: opts, TotalOpen: len(signals)}
	for _, row := range byOwner {
		r.Rows = append(r.Rows, *row)
	}
	sort.Slice(r.Rows, func(i, j int) bool {
		if r.Rows[i].Total != r.Rows[j].Total {
			return r.Rows[i].Total > r.Rows[j].Total
		}
		return r.Rows[i].Owner < r.Rows[j].Owner
	})
	return r, nil
}

// Render writes the per-owner workload table.
func (r *WorkloadResult) Render(w io.Writer, f Format) error {
	writeSection(w, f, fmt.Sprintf("Workload by owner (due soon = next %d days)", r.Opts.Days))
	fmt.Fprintln(w)

	headers := []string{"Owner", "Overdue", "Due soon", "Later", "No due", "Total"}
	var rows [][]string
	for i, row := range r.Rows {
		if r.Opts.Limit > 0 && i >= r.Opts.Limit {
			break
		}
		rows = append(rows, []string{
			row.Owner,
			fmt.Sprintf("%d", row.Overdue),
			fmt.Sprintf("%d", row.DueSoon),
			fmt.Sprintf("%d", row.Later),
			fmt.Sprintf("%d", row.NoDue),
			fmt.Sprintf("%d", row.Total),
		})
	}
	if err := writeTable(w, f, headers, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nOpen signals: %d\n", r.TotalOpen)
	return nil
}

package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

// AuditEntry is one flagged signal with its hygiene findings.
type AuditEntry struct {
	Signal *models.Signal
	Flags  []string
}

// AuditResult lists open signals with data-hygiene problems.
type AuditResult struct {
	Opts    Options
	Checked int // open signals examined
	Entries []AuditEntry
}

// Audit flags open signals that are missing classifiers or have gone
// overdue or stale. Clean signals are omitted.
func Audit(ctx context.Context, s store.Store, opts Options) (*AuditResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{Status: models.StatusOpen})
	if err != nil {
		return nil, err
	}

	r := &AuditResult{Opts: opts, Checked: len(signals)}
	for _, sig := range signals {
		var flags []string
		if sig.Owner == "" {
			flags = append(flags, "missing owner")
		}
		if sig.Due == nil {
			flags = append(flags, "missing due date")
		}
		if sig.Category == "" {
			flags = append(flags, "missing category")
		}
		if sig.Severity == "" {
			flags = append(flags, "missing severity")
		}
		if len(sig.Tags) == 0 {
			flags = append(flags, "missing tags")
		}
		if sig.Source == "" {
			flags = append(flags, "missing source")
		}
		if policy.IsOverdue(sig, opts.AsOf) {
			flags = append(flags, "overdue")
		}
		if policy.IsStale(sig, opts.AsOf, opts.StaleDays) {
			flags = append(flags, "stale")
		}

		if len(flags) > 0 {
			r.Entries = append(r.Entries, AuditEntry{Signal: sig, Flags: flags})
		}
	}

	sort.SliceStable(r.Entries, func(i, j int) bool {
		if len(r.Entries[i].Flags) != len(r.Entries[j].Flags) {
			return len(r.Entries[i].Flags) > len(r.Entries[j].Flags)
		}
		return r.Entries[i].Signal.ID < r.Entries[j].Signal.ID
	})
	return r, nil
}

// Render writes the audit findings table.
func (r *AuditResult) Render(w io.Writer, f Format) error {
	writeSection(w, f, "Signal Audit")
	fmt.Fprintf(w, "- As of: %s\n", r.Opts.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "- Open signals checked: %d\n", r.Checked)
	fmt.Fprintf(w, "- Flagged: %d\n", len(r.Entries))
	fmt.Fprintln(w)

	if len(r.Entries) == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	headers := []string{"ID", "Title", "Owner", "Flags"}
	var rows [][]string
	for i, e := range r.Entries {
		if r.Opts.Limit > 0 && i >= r.Opts.Limit {
			break
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Signal.ID),
			e.Signal.Title,
			ownerLabel(e.Signal.Owner),
			strings.Join(e.Flags, ", "),
		})
	}
	return writeTable(w, f, headers, rows)
}

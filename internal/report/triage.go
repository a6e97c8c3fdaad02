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

// Triage scoring weights. Product-tunable constants, not architecture.
const (
	severityFactor    = 10 // multiplied by the severity weight (1..4)
	overduePerDay     = 3  // per whole day past due
	overdueScoreCap   = 30
	dueSoonBonus      = 8
	noDueBonus        = 2
	unassignedPenalty = 3
	agingMinDays      = 14 // age before the aging credit kicks in
	agingScoreCap     = 12 // one point per week of age, capped
)

// TriageEntry is one ranked row of the triage report.
type TriageEntry struct {
	Signal  *models.Signal
	Score   int
	AgeDays int
	Reasons []string
}

// TriageResult ranks open signals by urgency.
type TriageResult struct {
	Opts       Options
	Entries    []TriageEntry // full ranking; Render applies the limit
	Overdue    int
	DueSoon    int
	Unassigned int
	NoDue      int
}

// Triage scores every open signal and returns a deterministic ranking:
// score descending, then age descending, then id ascending.
func Triage(ctx context.Context, s store.Store, opts Options) (*TriageResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{Status: models.StatusOpen})
	if err != nil {
		return nil, err
	}

	r := &TriageResult{Opts: opts}
	for _, sig := range signals {
		age := policy.AgeDays(sig, opts.AsOf)
		score := sig.Severity.Weight() * severityFactor
		var reasons []string

		switch {
		case policy.IsOverdue(sig, opts.AsOf):
			pastDue := overduePerDay * policy.DaysOverdue(sig, opts.AsOf)
			if pastDue > overdueScoreCap {
				pastDue = overdueScoreCap
			}
			score += pastDue
			reasons = append(reasons, "overdue")
			r.Overdue++
		case policy.IsDueSoon(sig, opts.AsOf, opts.Days):
			score += dueSoonBonus
			reasons = append(reasons, "due soon")
			r.DueSoon++
		case sig.Due == nil:
			score += noDueBonus
			reasons = append(reasons, "no due date")
			r.NoDue++
		}

		if sig.Owner == "" {
			score += unassignedPenalty
			reasons = append(reasons, "unassigned")
			r.Unassigned++
		}

		if age >= agingMinDays {
			aging := age / 7
			if aging > agingScoreCap {
				aging = agingScoreCap
			}
			score += aging
			reasons = append(reasons, "aging")
		}

		if len(reasons) == 0 {
			reasons = append(reasons, "recent")
		}

		r.Entries = append(r.Entries, TriageEntry{
			Signal:  sig,
			Score:   score,
			AgeDays: age,
			Reasons: reasons,
		})
	}

	sort.SliceStable(r.Entries, func(i, j int) bool {
		a, b := r.Entries[i], r.Entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.AgeDays != b.AgeDays {
			return a.AgeDays > b.AgeDays
		}
		return a.Signal.ID < b.Signal.ID
	})
	return r, nil
}

// Render writes the triage snapshot and ranked table.
func (r *TriageResult) Render(w io.Writer, f Format) error {
	writeSection(w, f, "Triage Snapshot")
	fmt.Fprintf(w, "- As of: %s\n", r.Opts.AsOf.Format("2006-01-02"))
	fmt.Fprintf(w, "- Open signals: %d\n", len(r.Entries))
	fmt.Fprintf(w, "- Overdue: %d\n", r.Overdue)
	fmt.Fprintf(w, "- Due soon (next %d days): %d\n", r.Opts.Days, r.DueSoon)
	fmt.Fprintf(w, "- Unassigned: %d\n", r.Unassigned)
	fmt.Fprintf(w, "- No due date: %d\n", r.NoDue)
	fmt.Fprintln(w)

	headers := []string{"ID", "Title", "Severity", "Owner", "Due", "Age(d)", "Score", "Reason"}
	var rows [][]string
	for i, e := range r.Entries {
		if r.Opts.Limit > 0 && i >= r.Opts.Limit {
			break
		}
		due := "no due date"
		if e.Signal.Due != nil {
			due = e.Signal.Due.Format("2006-01-02")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Signal.ID),
			e.Signal.Title,
			string(e.Signal.Severity),
			ownerLabel(e.Signal.Owner),
			due,
			fmt.Sprintf("%d", e.AgeDays),
			fmt.Sprintf("%d", e.Score),
			strings.Join(e.Reasons, ", "),
		})
	}
	return writeTable(w, f, headers, rows)
}

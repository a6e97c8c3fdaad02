package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

// CalendarWeek groups the signals due in one ISO week.
type CalendarWeek struct {
	Start   time.Time // Monday
	Signals []*models.Signal
}

// CalendarResult lays open signals out by due-date week within the horizon,
// with overdue, beyond-horizon, and no-due sections.
type CalendarResult struct {
	Opts    Options
	Weeks   []CalendarWeek
	Overdue []*models.Signal
	Beyond  []*models.Signal
	NoDue   []*models.Signal
}

// Calendar groups open signals by the ISO week of their due date, for dues
// within opts.Days of the as-of date.
func Calendar(ctx context.Context, s store.Store, opts Options) (*CalendarResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	signals, err := s.ListSignals(ctx, store.Filter{Status: models.StatusOpen})
	if err != nil {
		return nil, err
	}

	r := &CalendarResult{Opts: opts}
	horizon := policy.DateOnly(opts.AsOf).AddDate(0, 0, opts.Days)
	byWeek := make(map[time.Time][]*models.Signal)

	for _, sig := range signals {
		switch {
		case sig.Due == nil:
			r.NoDue = append(r.NoDue, sig)
		case policy.IsOverdue(sig, opts.AsOf):
			r.Overdue = append(r.Overdue, sig)
		case policy.DateOnly(*sig.Due).After(horizon):
			r.Beyond = append(r.Beyond, sig)
		default:
			week := policy.WeekStart(*sig.Due)
			byWeek[week] = append(byWeek[week], sig)
		}
	}

	for start, sigs := range byWeek {
		sort.Slice(sigs, func(i, j int) bool {
			a, b := sigs[i], sigs[j]
			if !a.Due.Equal(*b.Due) {
				return a.Due.Before(*b.Due)
			}
			return a.ID < b.ID
		})
		r.Weeks = append(r.Weeks, CalendarWeek{Start: start, Signals: sigs})
	}
	sort.Slice(r.Weeks, func(i, j int) bool {
		return r.Weeks[i].Start.Before(r.Weeks[j].Start)
	})

	byDue := func(sigs []*models.Signal) {
		sort.Slice(sigs, func(i, j int) bool {
			a, b := sigs[i], sigs[j]
			if a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due) {
				return a.Due.Before(*b.Due)
			}
			return a.ID < b.ID
		})
	}
	byDue(r.Overdue)
	byDue(r.Beyond)
	sort.Slice(r.NoDue, func(i, j int) bool { return r.NoDue[i].ID < r.NoDue[j].ID })

	return r, nil
}

// Render writes the calendar sections in week order.
func (r *CalendarResult) Render(w io.Writer, f Format) error {
	writeHeading(w, f, fmt.Sprintf("Due Calendar (next %d days from %s)",
		r.Opts.Days, r.Opts.AsOf.Format("2006-01-02")))

	fmt.Fprintln(w)
	writeSection(w, f, "Overdue")
	writeSignalList(w, r.Overdue, r.Opts.Limit)

	for _, week := range r.Weeks {
		fmt.Fprintln(w)
		writeSection(w, f, fmt.Sprintf("Week of %s", week.Start.Format("2006-01-02")))
		writeSignalList(w, week.Signals, r.Opts.Limit)
	}

	fmt.Fprintln(w)
	writeSection(w, f, "Beyond horizon")
	writeSignalList(w, r.Beyond, r.Opts.Limit)

	fmt.Fprintln(w)
	writeSection(w, f, "No due date")
	writeSignalList(w, r.NoDue, r.Opts.Limit)
	return nil
}

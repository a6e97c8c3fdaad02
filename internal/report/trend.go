package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

// TrendWeek is one week's created/closed tally.
type TrendWeek struct {
	Start        time.Time // Monday
	Created      int
	Closed       int
	Net          int // created − closed
	AvgCycleDays float64
	cycleSum     int
	cycleCount   int
}

// TrendResult covers the last Opts.Weeks ISO weeks ending with the week
// containing the as-of date, oldest first. Weeks without activity are
// still listed.
type TrendResult struct {
	Opts  Options
	Weeks []TrendWeek
}

// Trend tallies weekly created and closed counts with the mean close-cycle
// of signals closed in each week.
func Trend(ctx context.Context, s store.Store, opts Options) (*TrendResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Weeks == 0 {
		return nil, fmt.Errorf("weeks must be positive: %d", opts.Weeks)
	}

	signals, err := s.ListSignals(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}

	last := policy.WeekStart(opts.AsOf)
	first := last.AddDate(0, 0, -7*(opts.Weeks-1))

	weeks := make([]TrendWeek, opts.Weeks)
	index := make(map[time.Time]*TrendWeek, opts.Weeks)
	for i := range weeks {
		weeks[i].Start = first.AddDate(0, 0, 7*i)
		index[weeks[i].Start] = &weeks[i]
	}

	for _, sig := range signals {
		if week := index[policy.WeekStart(sig.CreatedAt)]; week != nil {
			week.Created++
		}
		if sig.ClosedAt != nil {
			if week := index[policy.WeekStart(*sig.ClosedAt)]; week != nil {
				week.Closed++
				week.cycleSum += policy.CycleDays(sig)
				week.cycleCount++
			}
		}
	}

	for i := range weeks {
		weeks[i].Net = weeks[i].Created - weeks[i].Closed
		if weeks[i].cycleCount > 0 {
			weeks[i].AvgCycleDays = float64(weeks[i].cycleSum) / float64(weeks[i].cycleCount)
		}
	}

	return &TrendResult{Opts: opts, Weeks: weeks}, nil
}

// Render writes the per-week trend table, oldest week first.
func (r *TrendResult) Render(w io.Writer, f Format) error {
	writeSection(w, f, fmt.Sprintf("Trend (last %d weeks)", r.Opts.Weeks))
	fmt.Fprintln(w)

	headers := []string{"Week", "Created", "Closed", "Net", "Avg cycle (d)"}
	var rows [][]string
	for _, week := range r.Weeks {
		cycle := "-"
		if week.cycleCount > 0 {
			cycle = fmt.Sprintf("%.1f", week.AvgCycleDays)
		}
		rows = append(rows, []string{
			week.Start.Format("2006-01-02"),
			fmt.Sprintf("%d", week.Created),
			fmt.Sprintf("%d", week.Closed),
			fmt.Sprintf("%d", week.Net),
			cycle,
		})
	}
	return writeTable(w, f, headers, rows)
}

// Package report implements the aggregate reports over the signal table.
// Each report queries the store, classifies signals through the date policy,
// and returns a typed result; rendering to table or markdown is a separate
// step so the computed results stay testable.
package report

import (
	"fmt"
	"time"

	"github.com/groupscholar/sigcat/internal/policy"
)

// Format selects the rendering style for a report.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (use: table, markdown)", s)
}

// Default windows and limits for the report commands.
const (
	DefaultDigestDays   = 7
	DefaultDigestLimit  = 8
	DefaultTriageDays   = 14
	DefaultTriageLimit  = 10
	DefaultWorkloadDays = 14
	DefaultCalendarDays = 28
	DefaultStaleDays    = 14
	DefaultDueDays      = 14
	DefaultActivityDays = 7
	DefaultTrendWeeks   = 8
)

// Options carries the shared report parameters. AsOf defaults to the
// current date and is overridable for deterministic output.
type Options struct {
	AsOf      time.Time
	Days      int
	Weeks     int
	Limit     int
	StaleDays int
}

// ParseAsOf parses a --as-of override, or returns today's date (UTC) when
// the value is empty.
func ParseAsOf(value string) (time.Time, error) {
	if value == "" {
		return policy.DateOnly(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date %q (want YYYY-MM-DD)", value)
	}
	return t, nil
}

// validate fails fast on nonsense windows so no report runs with them.
func (o Options) validate() error {
	if o.Days < 0 {
		return fmt.Errorf("days must not be negative: %d", o.Days)
	}
	if o.Weeks < 0 {
		return fmt.Errorf("weeks must not be negative: %d", o.Weeks)
	}
	if o.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", o.Limit)
	}
	if o.StaleDays < 0 {
		return fmt.Errorf("stale-days must not be negative: %d", o.StaleDays)
	}
	if o.AsOf.IsZero() {
		return fmt.Errorf("as-of date is required")
	}
	return nil
}

package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/groupscholar/sigcat/internal/report"
	"github.com/groupscholar/sigcat/internal/store"
)

// reportFlags holds the shared flag values for one report command.
type reportFlags struct {
	days      int
	weeks     int
	limit     int
	staleDays int
	format    string
	out       string
	asOf      string
}

// addCommonFlags registers the flags every report command shares.
func (rf *reportFlags) addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.format, "format", "table", "Output format: table, markdown")
	cmd.Flags().StringVar(&rf.out, "out", "", "Output file path (default stdout)")
	cmd.Flags().StringVar(&rf.asOf, "as-of", "", "As-of date override (YYYY-MM-DD)")
}

// options validates the flags into report options and a format.
func (rf *reportFlags) options() (report.Options, report.Format, error) {
	asOf, err := report.ParseAsOf(rf.asOf)
	if err != nil {
		return report.Options{}, "", err
	}
	format, err := report.ParseFormat(rf.format)
	if err != nil {
		return report.Options{}, "", err
	}
	opts := report.Options{
		AsOf:      asOf,
		Days:      rf.days,
		Weeks:     rf.weeks,
		Limit:     rf.limit,
		StaleDays: rf.staleDays,
	}
	return opts, format, nil
}

// renderable is any computed report that can write itself out.
type renderable interface {
	Render(w io.Writer, f report.Format) error
}

// runReport executes one report generator and renders it to stdout or the
// --out file.
func runReport(rf *reportFlags, gen func(context.Context, store.Store, report.Options) (renderable, error)) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	opts, format, err := rf.options()
	if err != nil {
		return err
	}

	result, err := gen(context.Background(), s, opts)
	if err != nil {
		return err
	}

	w, closeOut, err := openOut(rf.out, ui.Out)
	if err != nil {
		return err
	}
	if err := result.Render(w, format); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	if rf.out != "" {
		ui.Success("Wrote report to %s", rf.out)
	}
	return nil
}

func init() {
	digestFlags := &reportFlags{}
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Overdue, due-soon, and recent signal buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(digestFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Digest(ctx, s, opts)
			})
		},
	}
	digestFlags.addCommonFlags(digestCmd)
	digestCmd.Flags().IntVar(&digestFlags.days, "days", report.DefaultDigestDays, "Lookback/lookahead window in days")
	digestCmd.Flags().IntVar(&digestFlags.limit, "limit", report.DefaultDigestLimit, "Maximum signals per section")

	triageFlags := &reportFlags{}
	triageCmd := &cobra.Command{
		Use:   "triage",
		Short: "Rank open signals by urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(triageFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Triage(ctx, s, opts)
			})
		},
	}
	triageFlags.addCommonFlags(triageCmd)
	triageCmd.Flags().IntVar(&triageFlags.days, "days", report.DefaultTriageDays, "Due-soon window in days")
	triageCmd.Flags().IntVar(&triageFlags.limit, "limit", report.DefaultTriageLimit, "Maximum ranked rows")

	workloadFlags := &reportFlags{}
	workloadCmd := &cobra.Command{
		Use:   "workload",
		Short: "Per-owner due-bucket counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(workloadFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Workload(ctx, s, opts)
			})
		},
	}
	workloadFlags.addCommonFlags(workloadCmd)
	workloadCmd.Flags().IntVar(&workloadFlags.days, "days", report.DefaultWorkloadDays, "Due-soon window in days")
	workloadCmd.Flags().IntVar(&workloadFlags.limit, "limit", 0, "Maximum owner rows (0 = all)")

	calendarFlags := &reportFlags{}
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Open signals by due-date week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(calendarFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Calendar(ctx, s, opts)
			})
		},
	}
	calendarFlags.addCommonFlags(calendarCmd)
	calendarCmd.Flags().IntVar(&calendarFlags.days, "days", report.DefaultCalendarDays, "Horizon in days")
	calendarCmd.Flags().IntVar(&calendarFlags.limit, "limit", 0, "Maximum signals per section (0 = all)")

	auditFlags := &reportFlags{}
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Flag signals missing owners, dates, or classifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(auditFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Audit(ctx, s, opts)
			})
		},
	}
	auditFlags.addCommonFlags(auditCmd)
	auditCmd.Flags().IntVar(&auditFlags.staleDays, "stale-days", report.DefaultStaleDays, "Staleness threshold in days")
	auditCmd.Flags().IntVar(&auditFlags.limit, "limit", 0, "Maximum flagged rows (0 = all)")

	metricsFlags := &reportFlags{}
	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Aggregate counts and cycle-time rollup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(metricsFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Metrics(ctx, s, opts)
			})
		},
	}
	metricsFlags.addCommonFlags(metricsCmd)
	metricsCmd.Flags().IntVar(&metricsFlags.days, "due-days", report.DefaultDueDays, "Due-soon window in days")
	metricsCmd.Flags().IntVar(&metricsFlags.staleDays, "stale-days", report.DefaultStaleDays, "Staleness threshold in days")

	staleFlags := &reportFlags{}
	staleCmd := &cobra.Command{
		Use:   "stale",
		Short: "Open signals with no recent updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			staleFlags.staleDays = staleFlags.days
			return runReport(staleFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Stale(ctx, s, opts)
			})
		},
	}
	staleFlags.addCommonFlags(staleCmd)
	staleCmd.Flags().IntVar(&staleFlags.days, "days", report.DefaultStaleDays, "Staleness threshold in days")
	staleCmd.Flags().IntVar(&staleFlags.limit, "limit", 0, "Maximum rows (0 = all)")

	activityFlags := &reportFlags{}
	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Signals created, updated, and closed recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(activityFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Activity(ctx, s, opts)
			})
		},
	}
	activityFlags.addCommonFlags(activityCmd)
	activityCmd.Flags().IntVar(&activityFlags.days, "days", report.DefaultActivityDays, "Lookback window in days")
	activityCmd.Flags().IntVar(&activityFlags.limit, "limit", 0, "Maximum signals per section (0 = all)")

	trendFlags := &reportFlags{}
	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Weekly created/closed counts and close-cycle averages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(trendFlags, func(ctx context.Context, s store.Store, opts report.Options) (renderable, error) {
				return report.Trend(ctx, s, opts)
			})
		},
	}
	trendFlags.addCommonFlags(trendCmd)
	trendCmd.Flags().IntVar(&trendFlags.weeks, "weeks", report.DefaultTrendWeeks, "Number of weeks")

	rootCmd.AddCommand(digestCmd, triageCmd, workloadCmd, calendarCmd,
		auditCmd, metricsCmd, staleCmd, activityCmd, trendCmd)
}

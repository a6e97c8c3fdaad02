package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/output"
	"github.com/groupscholar/sigcat/internal/store"
)

// Severity and status flags get per-command variables: pflag writes a
// flag's default into its variable at registration time, so two commands
// registering different defaults on one shared variable would leave only
// the last default standing.
var (
	signalTitle    string
	signalCategory string
	signalSeverity string
	signalOwner    string
	signalSource   string
	signalDue      string
	signalTags     string
	signalNotes    string
	signalSearch   string
	signalLimit    int
	addSeverity    string
	listStatus     string
	clearNotes     bool
	clearDue       bool
	transitionNote string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configured storage backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := getStore(); err != nil {
			return err
		}
		ui.Success("Initialized %s backend", viper.GetString("backend"))
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a signal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return addRun()
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRun()
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a signal's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateRun(cmd, args[0])
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a signal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return closeRun(args[0])
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Reopen a closed signal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reopenRun(args[0])
	},
}

func init() {
	addCmd.Flags().StringVar(&signalTitle, "title", "", "Signal title (required)")
	addCmd.Flags().StringVar(&signalCategory, "category", "", "Category")
	addCmd.Flags().StringVar(&addSeverity, "severity", string(models.DefaultSeverity), "Severity: low, medium, high, critical")
	addCmd.Flags().StringVar(&signalOwner, "owner", "", "Owner")
	addCmd.Flags().StringVar(&signalSource, "source", "", "Where the signal came from")
	addCmd.Flags().StringVar(&signalDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&signalTags, "tags", "", "Comma-separated tags")
	addCmd.Flags().StringVar(&signalNotes, "notes", "", "Free-text notes")
	_ = addCmd.MarkFlagRequired("title")

	listCmd.Flags().StringVar(&listStatus, "status", "open", "Filter by status: open, closed, all")
	listCmd.Flags().StringVar(&signalCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&signalOwner, "owner", "", "Filter by owner")
	listCmd.Flags().StringVar(&signalSeverity, "severity", "", "Filter by severity")
	listCmd.Flags().StringVar(&signalSearch, "search", "", "Substring search over title, notes, source")
	listCmd.Flags().IntVar(&signalLimit, "limit", 0, "Maximum rows")

	updateCmd.Flags().StringVar(&signalTitle, "title", "", "New title")
	updateCmd.Flags().StringVar(&signalCategory, "category", "", "New category")
	updateCmd.Flags().StringVar(&signalSeverity, "severity", "", "New severity")
	updateCmd.Flags().StringVar(&signalOwner, "owner", "", "New owner")
	updateCmd.Flags().StringVar(&signalSource, "source", "", "New source")
	updateCmd.Flags().StringVar(&signalDue, "due", "", "New due date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&signalTags, "tags", "", "Replacement comma-separated tags")
	updateCmd.Flags().StringVar(&signalNotes, "notes", "", "Note to append")
	updateCmd.Flags().BoolVar(&clearNotes, "clear-notes", false, "Clear all notes")
	updateCmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")

	closeCmd.Flags().StringVar(&transitionNote, "note", "", "Closing note to append")
	reopenCmd.Flags().StringVar(&transitionNote, "note", "", "Reopening note to append")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(reopenCmd)
}

// parseDue parses a YYYY-MM-DD due date.
func parseDue(value string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", value)
	}
	return &t, nil
}

// parseID parses a signal id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid signal id %q", arg)
	}
	return id, nil
}

func addRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	if signalTitle == "" {
		return fmt.Errorf("title must not be empty")
	}
	severity, err := models.ParseSeverity(addSeverity)
	if err != nil {
		return err
	}

	sig := &models.Signal{
		Title:    signalTitle,
		Category: signalCategory,
		Severity: severity,
		Owner:    signalOwner,
		Source:   signalSource,
		Status:   models.StatusOpen,
		Tags:     models.SplitTags(signalTags),
		Notes:    signalNotes,
	}
	if signalDue != "" {
		if sig.Due, err = parseDue(signalDue); err != nil {
			return err
		}
	}

	if err := s.CreateSignal(ctx, sig); err != nil {
		return err
	}
	ui.Success("Added signal %s: %s", output.Cyan(fmt.Sprintf("%d", sig.ID)), sig.Title)
	return nil
}

func listRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	filter := store.Filter{
		Category: signalCategory,
		Owner:    signalOwner,
		Severity: signalSeverity,
		Search:   signalSearch,
		Limit:    signalLimit,
	}
	if listStatus != "" && listStatus != "all" {
		status, err := models.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		filter.Status = status
	}
	if signalSeverity != "" {
		if _, err := models.ParseSeverity(signalSeverity); err != nil {
			return err
		}
	}
	if signalLimit < 0 {
		return fmt.Errorf("limit must not be negative: %d", signalLimit)
	}

	signals, err := s.ListSignals(ctx, filter)
	if err != nil {
		return err
	}
	if len(signals) == 0 {
		ui.Info("No signals found.")
		return nil
	}

	table := ui.Table([]string{"ID", "Title", "Category", "Severity", "Owner", "Due", "Status", "Tags"})
	for _, sig := range signals {
		due := ""
		if sig.Due != nil {
			due = sig.Due.Format("2006-01-02")
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", sig.ID),
			sig.Title,
			sig.Category,
			output.SeverityColor(string(sig.Severity)),
			sig.Owner,
			due,
			output.StatusColor(string(sig.Status)),
			models.JoinTags(sig.Tags),
		})
	}
	return table.Render()
}

func updateRun(cmd *cobra.Command, arg string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}
	sig, err := s.GetSignal(ctx, id)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	changed := false

	if flags.Changed("title") {
		if signalTitle == "" {
			return fmt.Errorf("title must not be empty")
		}
		sig.Title = signalTitle
		changed = true
	}
	if flags.Changed("category") {
		sig.Category = signalCategory
		changed = true
	}
	if flags.Changed("severity") {
		severity, err := models.ParseSeverity(signalSeverity)
		if err != nil {
			return err
		}
		sig.Severity = severity
		changed = true
	}
	if flags.Changed("owner") {
		sig.Owner = signalOwner
		changed = true
	}
	if flags.Changed("source") {
		sig.Source = signalSource
		changed = true
	}
	if flags.Changed("due") {
		if sig.Due, err = parseDue(signalDue); err != nil {
			return err
		}
		changed = true
	}
	if clearDue {
		sig.Due = nil
		changed = true
	}
	if flags.Changed("tags") {
		sig.Tags = models.SplitTags(signalTags)
		changed = true
	}
	if clearNotes {
		sig.Notes = ""
		changed = true
	}
	if flags.Changed("notes") {
		// Notes are append-only unless explicitly cleared.
		sig.AppendNote("", signalNotes)
		changed = true
	}

	if !changed {
		ui.Info("Nothing to update.")
		return nil
	}

	if err := s.UpdateSignal(ctx, sig); err != nil {
		return err
	}
	ui.Success("Updated signal %d", sig.ID)
	return nil
}

func closeRun(arg string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}
	sig, err := s.GetSignal(ctx, id)
	if err != nil {
		return err
	}
	if sig.Status == models.StatusClosed {
		return fmt.Errorf("signal %d is already closed", id)
	}

	now := time.Now().UTC().Truncate(time.Second)
	sig.Status = models.StatusClosed
	sig.ClosedAt = &now
	sig.AppendNote("Closed", transitionNote)

	if err := s.UpdateSignal(ctx, sig); err != nil {
		return err
	}
	ui.Success("Closed signal %d", sig.ID)
	return nil
}

func reopenRun(arg string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := parseID(arg)
	if err != nil {
		return err
	}
	sig, err := s.GetSignal(ctx, id)
	if err != nil {
		return err
	}
	if sig.Status == models.StatusOpen {
		return fmt.Errorf("signal %d is already open", id)
	}

	sig.Status = models.StatusOpen
	sig.ClosedAt = nil
	sig.AppendNote("Reopened", transitionNote)

	if err := s.UpdateSignal(ctx, sig); err != nil {
		return err
	}
	ui.Success("Reopened signal %d", sig.ID)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/report"
	"github.com/groupscholar/sigcat/internal/store"
)

var (
	exportOut string

	// Export defaults to the full catalog, so its status filter must not
	// share list's variable and its "open" default.
	exportStatus string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export signals as CSV",
	Long:  "Export signals as CSV with a fixed column order, honoring the list filters.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by status: open, closed")
	exportCmd.Flags().StringVar(&signalCategory, "category", "", "Filter by category")
	exportCmd.Flags().StringVar(&signalOwner, "owner", "", "Filter by owner")
	exportCmd.Flags().StringVar(&signalSeverity, "severity", "", "Filter by severity")
	exportCmd.Flags().StringVar(&signalSearch, "search", "", "Substring search over title, notes, source")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output CSV file path (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

// openOut returns the report writer: a created file when path is set,
// otherwise the UI's standard output with a no-op closer.
func openOut(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}

func exportRun() error {
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
	}
	if exportStatus != "" {
		status, err := models.ParseStatus(exportStatus)
		if err != nil {
			return err
		}
		filter.Status = status
	}

	signals, err := s.ListSignals(ctx, filter)
	if err != nil {
		return err
	}

	w, closeOut, err := openOut(exportOut, ui.Out)
	if err != nil {
		return err
	}
	if err := report.ExportCSV(w, signals); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}

	if exportOut != "" {
		ui.Success("Exported %d signals to %s", len(signals), exportOut)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show grouped rollup counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return summaryRun()
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func summaryRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	sections := []struct {
		label string
		field string
	}{
		{"By status", "status"},
		{"By category", "category"},
		{"By severity", "severity"},
		{"By owner", "owner"},
	}

	for _, section := range sections {
		counts, err := s.CountByField(ctx, section.field)
		if err != nil {
			return err
		}

		fmt.Fprintf(ui.Out, "\n%s\n", section.label)
		for range section.label {
			fmt.Fprint(ui.Out, "-")
		}
		fmt.Fprintln(ui.Out)

		if len(counts) == 0 {
			fmt.Fprintln(ui.Out, "(none)")
			continue
		}
		for _, fc := range counts {
			value := fc.Value
			if value == "" {
				value = "Unspecified"
			}
			fmt.Fprintf(ui.Out, "%s: %d\n", value, fc.Count)
		}
	}
	return nil
}

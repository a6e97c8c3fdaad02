package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groupscholar/sigcat/internal/report"
	"github.com/groupscholar/sigcat/internal/seed"
	"github.com/groupscholar/sigcat/internal/store"
)

var (
	seedForce bool
	seedAsOf  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	Long:  "Insert demo signals with dates offset from the as-of day. Refuses to run on a non-empty catalog unless --force.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedRun()
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Seed even if the catalog already has signals")
	seedCmd.Flags().StringVar(&seedAsOf, "as-of", "", "As-of date override (YYYY-MM-DD)")
	rootCmd.AddCommand(seedCmd)
}

func seedRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	asOf, err := report.ParseAsOf(seedAsOf)
	if err != nil {
		return err
	}

	if !seedForce {
		existing, err := s.ListSignals(ctx, store.Filter{Limit: 1})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("catalog is not empty; use --force to seed anyway")
		}
	}

	n, err := seed.Apply(ctx, s, asOf)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	ui.Success("Seeded %d signals", n)
	return nil
}

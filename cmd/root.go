package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/groupscholar/sigcat/internal/output"
	"github.com/groupscholar/sigcat/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sigcat",
	Short: "Signal catalog - log and summarize risks, notes, and feedback",
	Long: `sigcat tracks short text "signals" (risks, partner notes, feedback items)
with owner, due date, severity, and status, and summarizes them with
reporting commands like digest, triage, workload, and trend.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/sigcat/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend: sqlite, postgres")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "sigcat")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SIGCAT")
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "sigcat")

	viper.SetDefault("backend", "sqlite")
	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "sigcat.db"))
	viper.SetDefault("database_url", "")

	// Flags beat config file and env
	_ = viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// The store is initialized lazily so config/version commands run
	// without touching a database.
}

// getStore returns the shared store, opening the configured backend and
// running migrations on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	ctx := context.Background()
	backend := viper.GetString("backend")

	var (
		s   store.Store
		err error
	)
	switch backend {
	case "sqlite":
		s, err = store.NewSQLiteStore(viper.GetString("db_path"))
	case "postgres":
		s, err = store.NewPostgresStore(ctx, viper.GetString("database_url"))
	default:
		return nil, fmt.Errorf("unknown backend %q (use: sqlite, postgres)", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sigcat %s (commit %s, built %s)\n", buildVersion, buildCommit, buildDate)
	},
}

package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/output"
	"github.com/groupscholar/sigcat/internal/store"
)

// cmdEnv isolates viper, the shared store, and reusable flag state for one
// command-level test, returning the SQLite path to pass via --db. The
// per-command severity/status variables are deliberately left alone so the
// tests see exactly what flag registration produced.
func cmdEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "sigcat.db")

	viper.Reset()
	viper.SetDefault("backend", "sqlite")
	viper.SetDefault("db_path", dbPath)
	viper.SetDefault("database_url", "")
	ui = output.New()

	if dataStore != nil {
		_ = dataStore.Close()
		dataStore = nil
	}
	t.Cleanup(func() {
		if dataStore != nil {
			_ = dataStore.Close()
			dataStore = nil
		}
		viper.Reset()
	})

	// Values from a previous execution would otherwise leak in.
	signalTitle, signalCategory, signalSeverity = "", "", ""
	signalOwner, signalSource, signalDue = "", "", ""
	signalTags, signalNotes, signalSearch = "", "", ""
	signalLimit = 0
	clearNotes, clearDue = false, false
	transitionNote = ""
	exportOut = ""

	return dbPath
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// The severity and status flags live in per-command variables; a shared
// variable would hold only the last default registered across commands.
func TestFlagDefaults_SurviveRegistration(t *testing.T) {
	severity, err := addCmd.Flags().GetString("severity")
	require.NoError(t, err)
	assert.Equal(t, string(models.DefaultSeverity), severity)

	status, err := listCmd.Flags().GetString("status")
	require.NoError(t, err)
	assert.Equal(t, "open", status)

	exported, err := exportCmd.Flags().GetString("status")
	require.NoError(t, err)
	assert.Equal(t, "", exported)
}

func TestAdd_DefaultsSeverity(t *testing.T) {
	dbPath := cmdEnv(t)

	require.NoError(t, runCommand(t, "add", "--title", "Fee waiver question", "--db", dbPath))

	s, err := getStore()
	require.NoError(t, err)
	signals, err := s.ListSignals(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, models.DefaultSeverity, signals[0].Severity)
	assert.Equal(t, models.StatusOpen, signals[0].Status)
	assert.Equal(t, "Fee waiver question", signals[0].Title)
}

func TestCloseReopen_Transitions(t *testing.T) {
	dbPath := cmdEnv(t)
	ctx := context.Background()

	require.NoError(t, runCommand(t, "add", "--title", "Cohort survey dip", "--db", dbPath))
	require.NoError(t, runCommand(t, "close", "1", "--note", "resolved at standup", "--db", dbPath))

	s, err := getStore()
	require.NoError(t, err)
	sig, err := s.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, sig.Status)
	require.NotNil(t, sig.ClosedAt)
	assert.Contains(t, sig.Notes, "[Closed] resolved at standup")

	err = runCommand(t, "close", "1", "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already closed")

	transitionNote = ""
	require.NoError(t, runCommand(t, "reopen", "1", "--db", dbPath))
	sig, err = s.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, sig.Status)
	assert.Nil(t, sig.ClosedAt)

	err = runCommand(t, "reopen", "1", "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already open")
}

func TestUpdate_AppendsNotes(t *testing.T) {
	dbPath := cmdEnv(t)
	ctx := context.Background()

	require.NoError(t, runCommand(t, "add", "--title", "Mentor pairing gap", "--notes", "initial look", "--db", dbPath))
	require.NoError(t, runCommand(t, "update", "1", "--owner", "Dana", "--notes", "second look", "--db", dbPath))

	s, err := getStore()
	require.NoError(t, err)
	sig, err := s.GetSignal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dana", sig.Owner)
	assert.Equal(t, "initial look\nsecond look", sig.Notes)
	assert.False(t, sig.UpdatedAt.Before(sig.CreatedAt))
}

func TestUpdate_NotFound(t *testing.T) {
	dbPath := cmdEnv(t)

	err := runCommand(t, "update", "99", "--owner", "Dana", "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signal not found: 99")
}

func TestList_DefaultsToOpen(t *testing.T) {
	dbPath := cmdEnv(t)

	require.NoError(t, runCommand(t, "add", "--title", "Waiting on partner", "--db", dbPath))
	require.NoError(t, runCommand(t, "add", "--title", "Already handled", "--db", dbPath))
	require.NoError(t, runCommand(t, "close", "2", "--db", dbPath))

	var buf strings.Builder
	ui.Out = &buf
	require.NoError(t, listRun())
	out := buf.String()
	assert.Contains(t, out, "Waiting on partner")
	assert.NotContains(t, out, "Already handled")
}

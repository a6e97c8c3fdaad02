package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExport_IncludesClosedByDefault(t *testing.T) {
	dbPath := cmdEnv(t)

	require.NoError(t, runCommand(t, "add", "--title", "Open risk", "--db", dbPath))
	require.NoError(t, runCommand(t, "add", "--title", "Handled note", "--db", dbPath))
	require.NoError(t, runCommand(t, "close", "2", "--db", dbPath))

	out := filepath.Join(filepath.Dir(dbPath), "signals.csv")
	require.NoError(t, runCommand(t, "export", "--out", out, "--db", dbPath))

	records := readCSV(t, out)
	require.Len(t, records, 3)
	statuses := map[string]bool{}
	for _, row := range records[1:] {
		statuses[row[6]] = true
	}
	assert.True(t, statuses["open"])
	assert.True(t, statuses["closed"], "a bare export covers the whole catalog")
}

func TestExport_StatusFilter(t *testing.T) {
	dbPath := cmdEnv(t)
	t.Cleanup(func() { exportStatus = "" })

	require.NoError(t, runCommand(t, "add", "--title", "Open risk", "--db", dbPath))
	require.NoError(t, runCommand(t, "add", "--title", "Handled note", "--db", dbPath))
	require.NoError(t, runCommand(t, "close", "2", "--db", dbPath))

	out := filepath.Join(filepath.Dir(dbPath), "open.csv")
	require.NoError(t, runCommand(t, "export", "--status", "open", "--out", out, "--db", dbPath))

	records := readCSV(t, out)
	require.Len(t, records, 2)
	assert.Equal(t, "Open risk", records[1][1])
	assert.Equal(t, "open", records[1][6])
}

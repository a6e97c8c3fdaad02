package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("table")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat("markdown")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "json"`)
}

func TestParseAsOf(t *testing.T) {
	got, err := ParseAsOf("2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, asOf, got)

	_, err = ParseAsOf("10/02/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid as-of date")
}

func TestParseAsOf_DefaultsToToday(t *testing.T) {
	got, err := ParseAsOf("")
	require.NoError(t, err)
	assert.False(t, got.IsZero())
	assert.Equal(t, 0, got.Hour())
	assert.WithinDuration(t, time.Now(), got, 48*time.Hour)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Options{AsOf: asOf}.validate())
	assert.Error(t, Options{AsOf: asOf, Days: -1}.validate())
	assert.Error(t, Options{AsOf: asOf, Weeks: -1}.validate())
	assert.Error(t, Options{AsOf: asOf, Limit: -1}.validate())
	assert.Error(t, Options{AsOf: asOf, StaleDays: -1}.validate())
	assert.Error(t, Options{}.validate())
}

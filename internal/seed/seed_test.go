package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestApply(t *testing.T) {
	s := newTestStore(t)
	asOf := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	n, err := Apply(context.Background(), s, asOf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	signals, err := s.ListSignals(context.Background(), store.Filter{})
	require.NoError(t, err)
	require.Len(t, signals, 10)

	var open, closed, overdue, unassigned int
	for _, sig := range signals {
		switch sig.Status {
		case models.StatusOpen:
			open++
		case models.StatusClosed:
			closed++
			require.NotNil(t, sig.ClosedAt)
		}
		if policy.IsOverdue(sig, asOf) {
			overdue++
		}
		if sig.Owner == "" {
			unassigned++
		}
		assert.NotEmpty(t, sig.Title)
		assert.NotEmpty(t, sig.Category)
		assert.False(t, sig.CreatedAt.After(asOf))
	}

	// The demo mix keeps one closed, one overdue, and one unassigned signal
	// so every report has something to show.
	assert.Equal(t, 9, open)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, overdue)
	assert.Equal(t, 1, unassigned)
}

func TestApply_DatesTrackAsOf(t *testing.T) {
	s := newTestStore(t)
	asOf := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := Apply(context.Background(), s, asOf)
	require.NoError(t, err)

	signals, err := s.ListSignals(context.Background(), store.Filter{})
	require.NoError(t, err)

	var overdue int
	for _, sig := range signals {
		if policy.IsOverdue(sig, asOf) {
			overdue++
		}
	}
	assert.Equal(t, 1, overdue, "offsets keep the overdue mix stable for any as-of date")
}

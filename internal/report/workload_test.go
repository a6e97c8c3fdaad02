package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupscholar/sigcat/internal/models"
)

func TestWorkload_OwnerBuckets(t *testing.T) {
	s := newTestStore(t)

	mustCreate(t, s,
		&models.Signal{Title: "Overdue one", Owner: "Priya", Due: datePtr("2026-02-01"), CreatedAt: date("2026-01-10")},
		&models.Signal{Title: "Due soon one", Owner: "Priya", Due: datePtr("2026-02-18"), CreatedAt: date("2026-02-01")},
		&models.Signal{Title: "Later one", Owner: "Priya", Due: datePtr("2026-04-01"), CreatedAt: date("2026-02-01")},
		&models.Signal{Title: "No due", Owner: "Marcus", CreatedAt: date("2026-02-01")},
		&models.Signal{Title: "Orphan", Due: datePtr("2026-02-12"), CreatedAt: date("2026-02-01")},
		&models.Signal{Title: "Closed out", Owner: "Priya", Status: models.StatusClosed,
			CreatedAt: date("2026-01-01"), ClosedAt: tsPtr("2026-01-15T09:00:00Z")},
	)

	r, err := Workload(context.Background(), s, Options{AsOf: asOf, Days: 14})
	require.NoError(t, err)

	assert.Equal(t, 5, r.TotalOpen)
	require.Len(t, r.Rows, 3)

	// Priya carries the most open signals, then alphabetical.
	assert.Equal(t, "Priya", r.Rows[0].Owner)
	assert.Equal(t, 1, r.Rows[0].Overdue)
	assert.Equal(t, 1, r.Rows[0].DueSoon)
	assert.Equal(t, 1, r.Rows[0].Later)
	assert.Equal(t, 3, r.Rows[0].Total)

	assert.Equal(t, "Marcus", r.Rows[1].Owner)
	assert.Equal(t, 1, r.Rows[1].NoDue)

	assert.Equal(t, "Unassigned", r.Rows[2].Owner)
	assert.Equal(t, 1, r.Rows[2].DueSoon)

	sum := 0
	for _, row := range r.Rows {
		sum += row.Total
	}
	assert.Equal(t, r.TotalOpen, sum)
}

func TestWorkload_Render(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s,
		&models.Signal{Title: "Solo", Owner: "Dana", Due: datePtr("2026-02-12"), CreatedAt: date("2026-02-01")},
	)

	r, err := Workload(context.Background(), s, Options{AsOf: asOf, Days: 14})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, r.Render(&buf, FormatMarkdown))
	out := buf.String()
	assert.Contains(t, out, "Workload by owner (due soon = next 14 days)")
	assert.Contains(t, out, "Dana")
	assert.Contains(t, out, "Open signals: 1")
}

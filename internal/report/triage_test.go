package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupscholar/sigcat/internal/models"
)

func TestTriage_Scoring(t *testing.T) {
	s := newTestStore(t)

	mustCreate(t, s,
		// critical, 9 days overdue, unassigned, 31 days old:
		// 4*10 + min(3*9, 30) + 3 + 31/7 = 40 + 27 + 3 + 4 = 74
		&models.Signal{Title: "Retention dip", Severity: models.SeverityCritical,
			Due: datePtr("2026-02-01"), CreatedAt: date("2026-01-10")},
		// medium, due soon, owned, 2 days old: 2*10 + 8 = 28
		&models.Signal{Title: "Outreach follow-up", Severity: models.SeverityMedium,
			Owner: "Priya", Due: datePtr("2026-02-14"), CreatedAt: date("2026-02-08")},
		// low, no due date, owned, 1 day old: 1*10 + 2 = 12
		&models.Signal{Title: "Idea parking lot", Severity: models.SeverityLow,
			Owner: "Marcus", CreatedAt: date("2026-02-09")},
	)

	r, err := Triage(context.Background(), s, Options{AsOf: asOf, Days: 14, Limit: 10})
	require.NoError(t, err)

	require.Len(t, r.Entries, 3)
	assert.Equal(t, "Retention dip", r.Entries[0].Signal.Title)
	assert.Equal(t, 74, r.Entries[0].Score)
	assert.Equal(t, []string{"overdue", "unassigned", "aging"}, r.Entries[0].Reasons)

	assert.Equal(t, "Outreach follow-up", r.Entries[1].Signal.Title)
	assert.Equal(t, 28, r.Entries[1].Score)

	assert.Equal(t, "Idea parking lot", r.Entries[2].Signal.Title)
	assert.Equal(t, 12, r.Entries[2].Score)

	assert.Equal(t, 1, r.Overdue)
	assert.Equal(t, 1, r.DueSoon)
	assert.Equal(t, 1, r.Unassigned)
	assert.Equal(t, 1, r.NoDue)
}

func TestTriage_OverdueScoreCapped(t *testing.T) {
	s := newTestStore(t)

	// 40 days overdue would add 120 uncapped; the cap holds it at 30.
	mustCreate(t, s,
		&models.Signal{Title: "Ancient overdue", Severity: models.SeverityLow,
			Owner: "Priya", Due: datePtr("2026-01-01"), CreatedAt: date("2026-02-05")},
	)

	r, err := Triage(context.Background(), s, Options{AsOf: asOf, Days: 14})
	require.NoError(t, err)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, 10+30, r.Entries[0].Score)
}

func TestTriage_TieBreaks(t *testing.T) {
	s := newTestStore(t)

	// Identical scores and ages; ranking must fall back to id ascending.
	mustCreate(t, s,
		&models.Signal{Title: "First", Severity: models.SeverityMedium, Owner: "A", CreatedAt: date("2026-02-09")},
		&models.Signal{Title: "Second", Severity: models.SeverityMedium, Owner: "B", CreatedAt: date("2026-02-09")},
	)

	r, err := Triage(context.Background(), s, Options{AsOf: asOf, Days: 14})
	require.NoError(t, err)
	require.Len(t, r.Entries, 2)
	assert.True(t, r.Entries[0].Signal.ID < r.Entries[1].Signal.ID)
}

func TestTriage_IgnoresClosed(t *testing.T) {
	s := newTestStore(t)

	mustCreate(t, s,
		&models.Signal{Title: "Open one", Owner: "Priya", CreatedAt: date("2026-02-09")},
		&models.Signal{Title: "Done", Status: models.StatusClosed,
			CreatedAt: date("2026-01-01"), ClosedAt: tsPtr("2026-01-20T10:00:00Z")},
	)

	r, err := Triage(context.Background(), s, Options{AsOf: asOf, Days: 14})
	require.NoError(t, err)
	require.Len(t, r.Entries, 1)
	assert.Equal(t, "Open one", r.Entries[0].Signal.Title)
}

func TestTriage_RenderLimit(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s,
		&models.Signal{Title: "Alpha", Owner: "A", CreatedAt: date("2026-02-09")},
		&models.Signal{Title: "Beta", Owner: "B", CreatedAt: date("2026-02-08")},
	)

	r, err := Triage(context.Background(), s, Options{AsOf: asOf, Days: 14, Limit: 1})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, r.Render(&buf, FormatMarkdown))
	out := buf.String()
	assert.Contains(t, out, "- Open signals: 2")
	// Beta is a day older and wins the tie; Alpha falls off under the limit.
	assert.Contains(t, out, "Beta")
	assert.NotContains(t, out, "Alpha")
}

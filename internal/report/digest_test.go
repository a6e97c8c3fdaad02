package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupscholar/sigcat/internal/models"
)

func TestDigest_Buckets(t *testing.T) {
	s := newTestStore(t)

	mustCreate(t, s,
		&models.Signal{Title: "Overdue grant report", Due: datePtr("2026-02-01"), CreatedAt: date("2026-01-10")},
		&models.Signal{Title: "Due soon outreach", Due: datePtr("2026-02-14"), CreatedAt: date("2026-01-15")},
		&models.Signal{Title: "Fresh note", CreatedAt: date("2026-02-08")},
		&models.Signal{Title: "Closed last month", Status: models.StatusClosed, Due: datePtr("2026-01-20"),
			CreatedAt: date("2026-01-01"), ClosedAt: tsPtr("2026-01-25T12:00:00Z")},
		&models.Signal{Title: "Far future", Due: datePtr("2026-04-01"), CreatedAt: date("2026-01-05")},
	)

	r, err := Digest(context.Background(), s, Options{AsOf: asOf, Days: 7, Limit: 8})
	require.NoError(t, err)

	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 4, r.Open)
	assert.Equal(t, 1, r.Closed)

	require.Len(t, r.Overdue, 1)
	assert.Equal(t, "Overdue grant report", r.Overdue[0].Title)
	require.Len(t, r.DueSoon, 1)
	assert.Equal(t, "Due soon outreach", r.DueSoon[0].Title)
	require.Len(t, r.Recent, 1)
	assert.Equal(t, "Fresh note", r.Recent[0].Title)
}

func TestDigest_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	r, err := Digest(context.Background(), s, Options{AsOf: asOf, Days: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, r.Total)
	assert.Empty(t, r.Overdue)
}

func TestDigest_RejectsNegativeWindow(t *testing.T) {
	s := newTestStore(t)

	_, err := Digest(context.Background(), s, Options{AsOf: asOf, Days: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestDigest_RenderMarkdown(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s,
		&models.Signal{Title: "Overdue grant report", Owner: "Priya", Category: "funding",
			Severity: models.SeverityHigh, Due: datePtr("2026-02-01"), CreatedAt: date("2026-01-10")},
	)

	r, err := Digest(context.Background(), s, Options{AsOf: asOf, Days: 7, Limit: 8})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, r.Render(&buf, FormatMarkdown))
	out := buf.String()

	assert.Contains(t, out, "# Signal Digest")
	assert.Contains(t, out, "## Overdue Signals")
	assert.Contains(t, out, "- Overdue (open): 1")
	assert.Contains(t, out, "Overdue grant report (funding, high) - Priya - due 2026-02-01")
}

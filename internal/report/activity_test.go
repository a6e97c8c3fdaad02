package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupscholar/sigcat/internal/models"
)

func TestActivity_WindowBuckets(t *testing.T) {
	s := newTestStore(t)

	mustCreate(t, s,
		&models.Signal{Title: "New with deadline", Owner: "Priya", Due: datePtr("2026-02-14"),
			CreatedAt: date("2026-02-06"), UpdatedAt: date("2026-02-06")},
		&models.Signal{Title: "New but late", Owner: "Marcus", Due: datePtr("2026-02-01"),
			CreatedAt: date("2026-02-09"), UpdatedAt: date("2026-02-09")},
		&models.Signal{Title: "Wrapped up", Owner: "Dana", Status: models.StatusClosed,
			CreatedAt: date("2026-01-20"), UpdatedAt: date("2026-02-05"),
			ClosedAt: tsPtr("2026-02-05T15:00:00Z")},
		&models.Signal{Title: "Dormant", Owner: "Priya",
			CreatedAt: date("2026-01-10"), UpdatedAt: date("2026-01-15")},
	)

	r, err := Activity(context.Background(), s, Options{AsOf: asOf, Days: 7})
	require.NoError(t, err)

	assert.Len(t, r.Created, 2)
	assert.Len(t, r.Updated, 3)
	assert.Len(t, r.Closed, 1)
	assert.Equal(t, "Wrapped up", r.Closed[0].Title)
	assert.Equal(t, 1, r.OpenOverdue)
	assert.Equal(t, 1, r.OpenDueSoon)
}

func TestActivity_WindowExcludesFuture(t *testing.T) {
	s := newTestStore(t)

	// A creation timestamp after the as-of date must not count as activity.
	mustCreate(t, s,
		&models.Signal{Title: "From tomorrow", Owner: "Priya",
			CreatedAt: date("2026-02-11"), UpdatedAt: date("2026-02-11")},
	)

	r, err := Activity(context.Background(), s, Options{AsOf: asOf, Days: 7})
	require.NoError(t, err)
	assert.Empty(t, r.Created)
	assert.Empty(t, r.Updated)
}

func TestActivity_Render(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s,
		&models.Signal{Title: "Fresh arrival", Owner: "Priya",
			CreatedAt: date("2026-02-09"), UpdatedAt: date("2026-02-09")},
	)

	r, err := Activity(context.Background(), s, Options{AsOf: asOf, Days: 7})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, r.Render(&buf, FormatMarkdown))
	out := buf.String()
	assert.Contains(t, out, "Activity (last 7 days)")
	assert.Contains(t, out, "- Signals created: 1")
	assert.Contains(t, out, "- Signals updated/closed: 1")
	assert.Contains(t, out, "- Signals closed: 0")
	assert.Contains(t, out, "- Open overdue: 0")
	assert.Contains(t, out, "- Open due soon (next 7 days): 0")
	assert.Contains(t, out, "Fresh arrival")
}

// Package seed loads a demo dataset so the report commands have something
// to chew on. Dates are offsets from the as-of day, keeping the seeded
// catalog's overdue/due-soon/stale mix stable no matter when it runs.
package seed

import (
	"context"
	"time"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/policy"
	"github.com/groupscholar/sigcat/internal/store"
)

type entry struct {
	title         string
	category      string
	severity      models.Severity
	owner         string
	source        string
	tags          string
	notes         string
	dueOffset     *int // days from as-of; nil = no due date
	createdOffset int  // days before as-of
	closedOffset  *int // days before as-of; nil = still open
}

func days(n int) *int { return &n }

var entries = []entry{
	{
		title: "FAFSA verification backlog spike", category: "operations",
		severity: models.SeverityHigh, owner: "Ariana", source: "ops dashboard",
		tags: "fafsa,backlog", notes: "Verification queue doubled week-over-week; need staffing check.",
		dueOffset: days(23), createdOffset: 6,
	},
	{
		title: "Partner onboarding doc refresh needed", category: "partner",
		severity: models.SeverityMedium, owner: "Leah", source: "partner call",
		tags: "onboarding,docs", notes: "New compliance section missing from latest deck.",
		dueOffset: days(30), createdOffset: 4,
	},
	{
		title: "Scholar retention dip in cohort 7", category: "scholars",
		severity: models.SeverityCritical, owner: "Mateo", source: "retention report",
		tags: "retention,cohort-7", notes: "Drop-off at week 5; schedule listening sessions.",
		dueOffset: days(-3), createdOffset: 21,
	},
	{
		title: "Grant reporting deadline approaching", category: "funding",
		severity: models.SeverityHigh, owner: "Priya", source: "funding calendar",
		tags: "grant,reporting", notes: "Need outcome stats + beneficiary stories.",
		dueOffset: days(8), createdOffset: 12,
	},
	{
		title: "Mentor match satisfaction trend positive", category: "program",
		severity: models.SeverityLow, owner: "Jules", source: "survey insights",
		tags: "mentors,nps", notes: "NPS up 12 points after new matching rubric.",
		createdOffset: 30,
	},
	{
		title: "Data sharing agreement needs legal review", category: "compliance",
		severity: models.SeverityHigh, owner: "Rita", source: "legal inbox",
		tags: "compliance,legal", notes: "Draft from partner includes new data fields.",
		dueOffset: days(38), createdOffset: 2,
	},
	{
		title: "Alumni spotlight series filming", category: "marketing",
		severity: models.SeverityMedium, owner: "Noah", source: "content calendar",
		tags: "alumni,storytelling", notes: "Finalize interview schedule with 3 alumni.",
		dueOffset: days(18), createdOffset: 9,
	},
	{
		title: "Scholar support tickets cleared", category: "support",
		severity: models.SeverityLow, owner: "Kai", source: "support queue",
		tags: "support,ops", notes: "Queue back to baseline after weekend push.",
		createdOffset: 11, closedOffset: days(4),
	},
	{
		title: "Employer partnership pipeline warming", category: "partnerships",
		severity: models.SeverityMedium, owner: "", source: "pipeline review",
		tags: "employers,pipeline", notes: "Two employers requested cohort impact stats.",
		dueOffset: days(19), createdOffset: 17,
	},
	{
		title: "Budget variance flagged for Q1", category: "finance",
		severity: models.SeverityHigh, owner: "Iris", source: "finance report",
		tags: "budget,variance", notes: "Travel costs trending 18% above plan.",
		dueOffset: days(12), createdOffset: 5,
	},
}

// Apply inserts the demo dataset relative to asOf and returns how many
// signals were created.
func Apply(ctx context.Context, s store.Store, asOf time.Time) (int, error) {
	base := policy.DateOnly(asOf)
	for _, e := range entries {
		created := base.AddDate(0, 0, -e.createdOffset).Add(10 * time.Hour)
		sig := &models.Signal{
			Title:     e.title,
			Category:  e.category,
			Severity:  e.severity,
			Owner:     e.owner,
			Source:    e.source,
			Status:    models.StatusOpen,
			Tags:      models.SplitTags(e.tags),
			Notes:     e.notes,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if e.dueOffset != nil {
			due := base.AddDate(0, 0, *e.dueOffset)
			sig.Due = &due
		}
		if e.closedOffset != nil {
			closed := base.AddDate(0, 0, -*e.closedOffset).Add(16 * time.Hour)
			sig.Status = models.StatusClosed
			sig.ClosedAt = &closed
			sig.UpdatedAt = closed
		}
		if err := s.CreateSignal(ctx, sig); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

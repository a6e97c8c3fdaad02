package store

import (
	"context"

	"github.com/groupscholar/sigcat/internal/models"
)

// Filter narrows a signal listing. Zero values mean "no constraint".
type Filter struct {
	Status   models.Status
	Category string
	Owner    string
	Severity string
	Search   string // substring match over title, notes, source
	Limit    int
}

// FieldCount is one row of a grouped rollup (e.g. severity "high" → 4).
type FieldCount struct {
	Value string
	Count int
}

// Store defines the persistence interface for the signal catalog.
// Report logic depends only on this interface, never on which backend
// is active.
type Store interface {
	// CreateSignal inserts a signal and assigns its ID. CreatedAt and
	// UpdatedAt are stamped with the current time unless already set;
	// seeding relies on presetting them.
	CreateSignal(ctx context.Context, s *models.Signal) error
	GetSignal(ctx context.Context, id int64) (*models.Signal, error)
	ListSignals(ctx context.Context, f Filter) ([]*models.Signal, error)
	// UpdateSignal persists all mutable fields and refreshes UpdatedAt.
	UpdateSignal(ctx context.Context, s *models.Signal) error
	// CountByField returns grouped counts for one of the rollup
	// dimensions: status, category, severity, or owner.
	CountByField(ctx context.Context, field string) ([]FieldCount, error)

	Migrate(ctx context.Context) error
	Close() error
}

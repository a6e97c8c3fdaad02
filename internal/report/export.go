package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/groupscholar/sigcat/internal/models"
)

// CSVHeader is the fixed export column order. Importers may rely on it.
var CSVHeader = []string{
	"id", "title", "category", "severity", "owner", "due", "status",
	"tags", "source", "notes", "created_at", "updated_at", "closed_at",
}

// ExportCSV writes signals in the fixed column order.
func ExportCSV(w io.Writer, signals []*models.Signal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range signals {
		due := ""
		if s.Due != nil {
			due = s.Due.Format("2006-01-02")
		}
		closedAt := ""
		if s.ClosedAt != nil {
			closedAt = s.ClosedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		record := []string{
			fmt.Sprintf("%d", s.ID),
			s.Title,
			s.Category,
			string(s.Severity),
			s.Owner,
			due,
			string(s.Status),
			models.JoinTags(s.Tags),
			s.Source,
			s.Notes,
			s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			closedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/groupscholar/sigcat/internal/models"
	"github.com/groupscholar/sigcat/internal/output"
)

// writeTable renders headers+rows either as a terminal table or as a
// markdown pipe table.
func writeTable(w io.Writer, f Format, headers []string, rows [][]string) error {
	if f == FormatMarkdown {
		fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
		seps := make([]string, len(headers))
		for i := range seps {
			seps[i] = strings.Repeat("-", len(headers[i]))
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))
		for _, row := range rows {
			fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
		}
		return nil
	}

	table := output.Table(w, headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// writeHeading renders a top-level report heading.
func writeHeading(w io.Writer, f Format, title string) {
	if f == FormatMarkdown {
		fmt.Fprintf(w, "# %s\n", title)
		return
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

// writeSection renders a section heading.
func writeSection(w io.Writer, f Format, title string) {
	if f == FormatMarkdown {
		fmt.Fprintf(w, "## %s\n", title)
		return
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// signalLine renders one signal as a bullet item.
func signalLine(s *models.Signal) string {
	due := "no due date"
	if s.Due != nil {
		due = "due " + s.Due.Format("2006-01-02")
	}
	owner := s.Owner
	if owner == "" {
		owner = "Unassigned"
	}
	category := s.Category
	if category == "" {
		category = "Unspecified"
	}
	return fmt.Sprintf("- [%d] %s (%s, %s) - %s - %s", s.ID, s.Title, category, s.Severity, owner, due)
}

// writeSignalList renders a bullet list, "- None" when empty, honoring limit.
func writeSignalList(w io.Writer, signals []*models.Signal, limit int) {
	if len(signals) == 0 {
		fmt.Fprintln(w, "- None")
		return
	}
	for i, s := range signals {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintln(w, signalLine(s))
	}
}

// ownerLabel substitutes the display label for an empty owner.
func ownerLabel(owner string) string {
	if owner == "" {
		return "Unassigned"
	}
	return owner
}

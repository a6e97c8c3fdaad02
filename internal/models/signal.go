package models

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a signal.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusClosed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q (use: open, closed)", s)
}

// Severity classifies how urgent a signal is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// DefaultSeverity is applied when add omits --severity.
const DefaultSeverity = SeverityMedium

// ParseSeverity validates a severity string.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q (use: low, medium, high, critical)", s)
}

// Weight returns the triage scoring weight for a severity.
// Unknown or empty severities score as medium.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 2
	}
}

// Signal is a logged record describing a risk, opportunity, or note that
// needs tracking.
type Signal struct {
	ID        int64
	Title     string
	Category  string
	Severity  Severity
	Owner     string
	Source    string
	Status    Status
	Due       *time.Time // date only, no time component
	Tags      []string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

// JoinTags renders the tag list for storage and display.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags parses a comma-separated tag string, dropping empty entries
// and preserving order.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// AppendNote appends an annotated line to the signal's notes, preserving
// the existing text.
func (s *Signal) AppendNote(label, note string) {
	if note == "" {
		return
	}
	line := note
	if label != "" {
		line = fmt.Sprintf("[%s] %s", label, note)
	}
	if s.Notes == "" {
		s.Notes = line
		return
	}
	s.Notes += "\n" + line
}

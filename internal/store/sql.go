package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/groupscholar/sigcat/internal/models"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// dialect distinguishes the two SQL backends where their syntax diverges:
// placeholder style and id generation.
type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// rebind rewrites ? placeholders to $1..$n for Postgres.
func (d dialect) rebind(query string) string {
	if d == dialectSQLite {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Timestamps and due dates are stored as TEXT in both backends so the two
// drivers scan identically.
const (
	tsFormat  = time.RFC3339
	dueFormat = "2006-01-02"
)

// sqlStore holds the query logic shared by both backends.
type sqlStore struct {
	db *sql.DB
	d  dialect
}

const signalColumns = "id, title, category, severity, owner, source, status, due_date, tags, notes, created_at, updated_at, closed_at"

// migrate runs the embedded migration files for the given subdirectory in
// filename order, tracking applied files in schema_migrations.
func (s *sqlStore) migrate(ctx context.Context, dir string) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx,
			s.d.rebind("SELECT COUNT(*) FROM schema_migrations WHERE filename = ?"), name,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile(dir + "/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx,
			s.d.rebind("INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)"),
			name, time.Now().UTC().Format(tsFormat),
		); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func (s *sqlStore) CreateSignal(ctx context.Context, sig *models.Signal) error {
	now := time.Now().UTC().Truncate(time.Second)
	if sig.CreatedAt.IsZero() {
		sig.CreatedAt = now
	}
	if sig.UpdatedAt.IsZero() {
		sig.UpdatedAt = sig.CreatedAt
	}
	if sig.Status == "" {
		sig.Status = models.StatusOpen
	}
	if sig.Severity == "" {
		sig.Severity = models.DefaultSeverity
	}

	query := `INSERT INTO signals (title, category, severity, owner, source, status, due_date, tags, notes, created_at, updated_at, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		sig.Title, sig.Category, string(sig.Severity), sig.Owner, sig.Source,
		string(sig.Status), nullDue(sig.Due), models.JoinTags(sig.Tags), sig.Notes,
		sig.CreatedAt.Format(tsFormat), sig.UpdatedAt.Format(tsFormat), nullTS(sig.ClosedAt),
	}

	if s.d == dialectPostgres {
		err := s.db.QueryRowContext(ctx, s.d.rebind(query+" RETURNING id"), args...).Scan(&sig.ID)
		if err != nil {
			return fmt.Errorf("create signal: %w", err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create signal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create signal: %w", err)
	}
	sig.ID = id
	return nil
}

func (s *sqlStore) GetSignal(ctx context.Context, id int64) (*models.Signal, error) {
	row := s.db.QueryRowContext(ctx,
		s.d.rebind("SELECT "+signalColumns+" FROM signals WHERE id = ?"), id)
	sig, err := scanSignal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("signal not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get signal: %w", err)
	}
	return sig, nil
}

func (s *sqlStore) ListSignals(ctx context.Context, f Filter) ([]*models.Signal, error) {
	query := "SELECT " + signalColumns + " FROM signals"
	var conditions []string
	var args []any

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, f.Category)
	}
	if f.Owner != "" {
		conditions = append(conditions, "owner = ?")
		args = append(args, f.Owner)
	}
	if f.Severity != "" {
		conditions = append(conditions, "severity = ?")
		args = append(args, f.Severity)
	}
	if f.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR notes LIKE ? OR source LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var signals []*models.Signal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

func (s *sqlStore) UpdateSignal(ctx context.Context, sig *models.Signal) error {
	sig.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if sig.UpdatedAt.Before(sig.CreatedAt) {
		sig.UpdatedAt = sig.CreatedAt
	}

	result, err := s.db.ExecContext(ctx, s.d.rebind(
		`UPDATE signals SET title=?, category=?, severity=?, owner=?, source=?, status=?, due_date=?, tags=?, notes=?, updated_at=?, closed_at=?
		WHERE id=?`),
		sig.Title, sig.Category, string(sig.Severity), sig.Owner, sig.Source,
		string(sig.Status), nullDue(sig.Due), models.JoinTags(sig.Tags), sig.Notes,
		sig.UpdatedAt.Format(tsFormat), nullTS(sig.ClosedAt), sig.ID,
	)
	if err != nil {
		return fmt.Errorf("update signal: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("signal not found: %d", sig.ID)
	}
	return nil
}

// rollupFields whitelists the dimensions CountByField may group by.
var rollupFields = map[string]bool{
	"status":   true,
	"category": true,
	"severity": true,
	"owner":    true,
}

func (s *sqlStore) CountByField(ctx context.Context, field string) ([]FieldCount, error) {
	if !rollupFields[field] {
		return nil, fmt.Errorf("cannot group by %q (use: status, category, severity, owner)", field)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM signals GROUP BY %s ORDER BY COUNT(*) DESC, %s ASC",
		field, field, field))
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", field, err)
	}
	defer func() { _ = rows.Close() }()

	var counts []FieldCount
	for rows.Next() {
		var fc FieldCount
		if err := rows.Scan(&fc.Value, &fc.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, fc)
	}
	return counts, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSignal(row scanner) (*models.Signal, error) {
	sig := &models.Signal{}
	var severity, status, tags, createdAt, updatedAt string
	var due, closedAt sql.NullString

	err := row.Scan(&sig.ID, &sig.Title, &sig.Category, &severity, &sig.Owner,
		&sig.Source, &status, &due, &tags, &sig.Notes,
		&createdAt, &updatedAt, &closedAt)
	if err != nil {
		return nil, err
	}

	sig.Severity = models.Severity(severity)
	sig.Status = models.Status(status)
	sig.Tags = models.SplitTags(tags)

	if sig.CreatedAt, err = time.Parse(tsFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if sig.UpdatedAt, err = time.Parse(tsFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if due.Valid && due.String != "" {
		d, err := time.Parse(dueFormat, due.String)
		if err != nil {
			return nil, fmt.Errorf("parse due_date: %w", err)
		}
		sig.Due = &d
	}
	if closedAt.Valid && closedAt.String != "" {
		c, err := time.Parse(tsFormat, closedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse closed_at: %w", err)
		}
		sig.ClosedAt = &c
	}
	return sig, nil
}

func nullDue(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(dueFormat)
}

func nullTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(tsFormat)
}

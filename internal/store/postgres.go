package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements Store against a hosted Postgres database,
// using pgx through database/sql.
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore connects to Postgres using the given DSN and verifies
// the connection with a ping.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres backend requires a connection string (set database_url or SIGCAT_DATABASE_URL)")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresStore{sqlStore{db: db, d: dialectPostgres}}, nil
}

// Migrate runs the embedded Postgres migration files in order.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.migrate(ctx, "migrations/postgres")
}

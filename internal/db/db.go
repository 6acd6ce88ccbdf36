package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS outreach_history (
	id         UUID PRIMARY KEY,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL,
	sent_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outreach_history_sent_at ON outreach_history (sent_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and ensures the schema exists
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// RecordOutreach inserts a sent email
func (db *DB) RecordOutreach(ctx context.Context, record *OutreachRecord) error {
	record.prepare()

	_, err := db.pool.Exec(ctx,
		`INSERT INTO outreach_history (id, recipient, subject, role, source_url, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.Recipient, record.Subject, record.Role, record.SourceURL, record.Body, record.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record outreach: %w", err)
	}
	return nil
}

// ListOutreach returns the most recent sent emails
func (db *DB) ListOutreach(ctx context.Context, limit int) ([]OutreachRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, recipient, subject, role, source_url, body, sent_at
		 FROM outreach_history
		 ORDER BY sent_at DESC, id
		 LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list outreach: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutreachRecord, error) {
		var r OutreachRecord
		err := row.Scan(&r.ID, &r.Recipient, &r.Subject, &r.Role, &r.SourceURL, &r.Body, &r.SentAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan outreach: %w", err)
	}
	return records, nil
}

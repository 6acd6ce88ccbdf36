package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS outreach_history (
	id         TEXT PRIMARY KEY,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL,
	sent_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outreach_history_sent_at ON outreach_history (sent_at DESC);
`

// sqliteTimeLayout sorts lexically in time order for UTC values.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteDB stores history in a local SQLite file.
type SQLiteDB struct {
	pool *sql.DB
}

// sqliteDSN builds a file: URI for path, e.g. file:foo.db?_pragma=busy_timeout%285000%29.
// The path is escaped so "?" and "#" stay part of the file name.
func sqliteDSN(path string) string {
	dsn := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: url.Values{"_pragma": {"busy_timeout(5000)"}}.Encode(),
	}
	return dsn.String()
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	pool, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	pool.SetMaxOpenConns(1) // sqlite wants a single writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := pool.ExecContext(ctx, sqliteSchema); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteDB{pool: pool}, nil
}

func (d *SQLiteDB) Close() error {
	if d == nil || d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

// RecordOutreach inserts a sent email
func (d *SQLiteDB) RecordOutreach(ctx context.Context, record *OutreachRecord) error {
	record.prepare()

	_, err := d.pool.ExecContext(ctx,
		`INSERT INTO outreach_history (id, recipient, subject, role, source_url, body, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(), record.Recipient, record.Subject, record.Role, record.SourceURL, record.Body,
		record.SentAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record outreach: %w", err)
	}
	return nil
}

// ListOutreach returns the most recent sent emails
func (d *SQLiteDB) ListOutreach(ctx context.Context, limit int) ([]OutreachRecord, error) {
	rows, err := d.pool.QueryContext(ctx,
		`SELECT id, recipient, subject, role, source_url, body, sent_at
		 FROM outreach_history
		 ORDER BY sent_at DESC, id
		 LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list outreach: %w", err)
	}
	defer rows.Close()

	records := []OutreachRecord{}
	for rows.Next() {
		var (
			r      OutreachRecord
			id     string
			sentAt string
		)
		if err := rows.Scan(&id, &r.Recipient, &r.Subject, &r.Role, &r.SourceURL, &r.Body, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outreach: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid outreach id %q: %w", id, err)
		}
		if r.SentAt, err = time.Parse(sqliteTimeLayout, sentAt); err != nil {
			return nil, fmt.Errorf("invalid outreach timestamp %q: %w", sentAt, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outreach: %w", err)
	}
	return records, nil
}

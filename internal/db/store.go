// Package db stores the history of sent cold emails in PostgreSQL or SQLite.
package db

import (
	"context"
	"strings"
)

// HistoryStore records sent emails.
type HistoryStore interface {
	RecordOutreach(ctx context.Context, record *OutreachRecord) error
	// ListOutreach returns the most recent records first.
	ListOutreach(ctx context.Context, limit int) ([]OutreachRecord, error)
	Close() error
}

// Open picks the backend from databaseURL: postgres:// and postgresql:// URLs
// use PostgreSQL, anything else is a SQLite file path. The schema is created if needed.
func Open(ctx context.Context, databaseURL string) (HistoryStore, error) {
	if IsPostgresURL(databaseURL) {
		return Connect(ctx, databaseURL)
	}
	return OpenSQLite(ctx, databaseURL)
}

// IsPostgresURL reports whether databaseURL names a PostgreSQL server.
func IsPostgresURL(databaseURL string) bool {
	lower := strings.ToLower(strings.TrimSpace(databaseURL))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

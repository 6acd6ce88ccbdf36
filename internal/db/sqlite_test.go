package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLite_RecordAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := &OutreachRecord{Recipient: "a@example.com", Subject: "Cold email for Go Engineer", Role: "Go Engineer", Body: "Hello A", SentAt: base}
	newer := &OutreachRecord{Recipient: "b@example.com", Subject: "Cold email for the opportunity", Body: "Hello B", SourceURL: "https://jobs.example.com", SentAt: base.Add(time.Hour)}

	require.NoError(t, store.RecordOutreach(ctx, older))
	require.NoError(t, store.RecordOutreach(ctx, newer))
	assert.NotEqual(t, uuid.Nil, older.ID)

	records, err := store.ListOutreach(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, "b@example.com", records[0].Recipient)
	assert.Equal(t, "https://jobs.example.com", records[0].SourceURL)
	assert.True(t, records[0].SentAt.Equal(base.Add(time.Hour)))

	assert.Equal(t, older.ID, records[1].ID)
	assert.Equal(t, "Go Engineer", records[1].Role)
	assert.Equal(t, "Hello A", records[1].Body)
}

func TestSQLite_ListLimit(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordOutreach(ctx, &OutreachRecord{Recipient: "x@example.com", Subject: "s", Body: "b"}))
	}

	records, err := store.ListOutreach(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = store.ListOutreach(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSQLite_EmptyList(t *testing.T) {
	records, err := openTestSQLite(t).ListOutreach(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestOpen_DispatchesOnURL(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &SQLiteDB{}, store)
}

func TestIsPostgresURL(t *testing.T) {
	assert.True(t, IsPostgresURL("postgres://user@localhost/db"))
	assert.True(t, IsPostgresURL(" PostgreSQL://localhost/db"))
	assert.False(t, IsPostgresURL("history.db"))
	assert.False(t, IsPostgresURL("file:history.db"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit+1))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:history.db?_pragma=busy_timeout%285000%29", sqliteDSN("history.db"))
	assert.Equal(t, "file:/tmp/a%3Fb%23c.db?_pragma=busy_timeout%285000%29", sqliteDSN("/tmp/a?b#c.db"))
}

func TestOpenSQLite_PathWithURLCharacters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sent?v=1#main.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.RecordOutreach(ctx, &OutreachRecord{Recipient: "a@example.com", Subject: "Hi", Body: "Hello"}))
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "the database file keeps its literal name")

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	records, err := reopened.ListOutreach(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestUp_CreatesSchemaAndIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Up(ctx, db))
	require.NoError(t, Up(ctx, db), "second run must be a no-op")

	for _, table := range []string{"users", "predictions", "flags", "goose_db_version"} {
		assert.True(t, tableExists(t, db, table), "table %s", table)
	}
}

func TestUp_SingleAdminIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Up(ctx, db))

	_, err = db.Exec(`INSERT INTO users (username, password_hash, role) VALUES ('a', 'h', 'admin')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, password_hash, role) VALUES ('b', 'h', 'admin')`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users.role")

	_, err = db.Exec(`INSERT INTO users (username, password_hash, role) VALUES ('c', 'h', 'user')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, password_hash, role) VALUES ('d', 'h', 'user')`)
	require.NoError(t, err, "many plain users are fine")
}

func TestUp_ConfidenceRangeChecked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Up(ctx, db))

	_, err = db.Exec(`INSERT INTO predictions (text, prediction, confidence, username) VALUES ('t', 'Fake', 101, 'u')`)
	require.Error(t, err)
	_, err = db.Exec(`INSERT INTO predictions (text, prediction, confidence, username) VALUES ('t', 'Maybe', 50, 'u')`)
	require.Error(t, err)
}

package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/flags"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/predictions"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/users"
	"github.com/dmitrijs2005/jobscreen/internal/server/shared/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	conn := newMockDB(t)
	m := NewSQLiteRepositoryManager()

	assert.IsType(t, &users.SQLiteRepository{}, m.Users(conn))
	assert.IsType(t, &predictions.SQLiteRepository{}, m.Predictions(conn))
	assert.IsType(t, &flags.SQLiteRepository{}, m.Flags(conn))
}

func TestRunMigrations_UsesSeam(t *testing.T) {
	conn := newMockDB(t)

	orig := migrateUp
	defer func() { migrateUp = orig }()

	var called bool
	migrateUp = func(ctx context.Context, got *sql.DB) error {
		called = true
		assert.Same(t, conn, got)
		return nil
	}

	require.NoError(t, NewSQLiteRepositoryManager().RunMigrations(context.Background(), conn))
	assert.True(t, called)
}

func TestRunMigrations_Error(t *testing.T) {
	conn := newMockDB(t)

	orig := migrateUp
	defer func() { migrateUp = orig }()
	migrateUp = func(context.Context, *sql.DB) error { return errors.New("boom") }

	err := NewSQLiteRepositoryManager().RunMigrations(context.Background(), conn)
	assert.EqualError(t, err, "boom")
}

func TestRunMigrations_RealStore(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	m := NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, conn))

	n, err := m.Users(conn).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// Package repomanager vends the SQLite-backed repositories and runs the
// embedded schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/jobscreen/internal/dbx"
	"github.com/dmitrijs2005/jobscreen/internal/server/migrations"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/flags"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/predictions"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Predictions(db dbx.DBTX) predictions.Repository
	Flags(db dbx.DBTX) flags.Repository
}

// SQLiteRepositoryManager binds repositories to a DBTX, which may be the
// store handle itself or a transaction opened on it.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Predictions(db dbx.DBTX) predictions.Repository {
	return predictions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Flags(db dbx.DBTX) flags.Repository {
	return flags.NewSQLiteRepository(db)
}

// migrateUp is a seam for tests.
var migrateUp = migrations.Up

// RunMigrations applies the embedded goose migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db)
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}

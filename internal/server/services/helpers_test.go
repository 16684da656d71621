package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/jobscreen/internal/dbx"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/flags"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/predictions"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/users"
	"github.com/dmitrijs2005/jobscreen/internal/server/shared/db"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	m := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx, conn))
	return conn, m
}

var errDiskFull = errors.New("database or disk is full")

// brokenRepoMgr serves real repositories except where a failing one is set.
type brokenRepoMgr struct {
	repomanager.RepositoryManager
	users       users.Repository
	predictions predictions.Repository
	flags       flags.Repository
}

func (m *brokenRepoMgr) Users(db dbx.DBTX) users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.RepositoryManager.Users(db)
}

func (m *brokenRepoMgr) Predictions(db dbx.DBTX) predictions.Repository {
	if m.predictions != nil {
		return m.predictions
	}
	return m.RepositoryManager.Predictions(db)
}

func (m *brokenRepoMgr) Flags(db dbx.DBTX) flags.Repository {
	if m.flags != nil {
		return m.flags
	}
	return m.RepositoryManager.Flags(db)
}

type failingUsers struct{}

func (failingUsers) Create(context.Context, string, string) (*models.User, error) {
	return nil, errDiskFull
}
func (failingUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, errDiskFull
}
func (failingUsers) Count(context.Context) (int, error) { return 0, errDiskFull }

type failingPredictions struct{}

func (failingPredictions) Append(context.Context, *models.Prediction) (int64, error) {
	return 0, errDiskFull
}
func (failingPredictions) ListAll(context.Context) ([]models.Prediction, error) {
	return nil, errDiskFull
}
func (failingPredictions) ListForExport(context.Context) ([]models.Prediction, error) {
	return nil, errDiskFull
}
func (failingPredictions) CountByLabel(context.Context) (map[string]int, error) {
	return nil, errDiskFull
}
func (failingPredictions) CountByDay(context.Context) ([]models.DailyCount, error) {
	return nil, errDiskFull
}
func (failingPredictions) CountByConfidence(context.Context) ([]models.ConfidenceCount, error) {
	return nil, errDiskFull
}
func (failingPredictions) Count(context.Context) (int, error) { return 0, errDiskFull }

type failingFlags struct{}

func (failingFlags) Append(context.Context, *models.Flag) (int64, error) { return 0, errDiskFull }
func (failingFlags) ListAll(context.Context) ([]models.Flag, error)      { return nil, errDiskFull }

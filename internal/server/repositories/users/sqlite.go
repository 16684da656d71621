// Package users provides the SQLite-backed credential store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/dbx"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
)

// SQLiteRepository implements Repository over dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// The role is decided inside the insert itself, so two signups racing on an
// empty store cannot both observe "no users". The users_single_admin index
// backs this up; losing that race is retried once and yields 'user'.
const createQuery = `INSERT INTO users (username, password_hash, role)
		SELECT ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'user' ELSE 'admin' END
		RETURNING id, role, created_at`

func (r *SQLiteRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	for attempt := 0; attempt < 2; attempt++ {
		user, err = r.insert(ctx, username, passwordHash)
		if !isUniqueViolation(err, "users.role") {
			break
		}
	}
	return user, err
}

func (r *SQLiteRepository) insert(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{UserName: username, PasswordHash: passwordHash}
	var createdAt string

	err := r.db.QueryRowContext(ctx, createQuery, username, passwordHash).
		Scan(&user.ID, &user.Role, &createdAt)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.CreatedAt, err = models.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, password_hash, role, created_at FROM users
		 WHERE username = ?
		 `

	user := &models.User{}
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, userName).
		Scan(&user.ID, &user.UserName, &user.PasswordHash, &user.Role, &createdAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.CreatedAt, err = models.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// isUniqueViolation matches SQLite's "UNIQUE constraint failed: <target>".
// For a partial index SQLite names the indexed column, e.g. users.role.
func isUniqueViolation(err error, target string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, target)
}

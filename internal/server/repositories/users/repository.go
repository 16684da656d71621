package users

import (
	"context"

	"github.com/dmitrijs2005/jobscreen/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	// Create stores a new user. The first user of an empty store becomes
	// admin, every later one user. Returns common.ErrDuplicateUsername when
	// the name is taken.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)

	// GetUserByLogin returns common.ErrorNotFound for unknown names.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)

	Count(ctx context.Context) (int, error)
}

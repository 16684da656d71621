package flags

import (
	"context"

	"github.com/dmitrijs2005/jobscreen/internal/server/models"
)

// Repository is the append-only flag ledger.
type Repository interface {
	Append(ctx context.Context, f *models.Flag) (int64, error)
	// ListAll returns every flag, newest first.
	ListAll(ctx context.Context) ([]models.Flag, error)
}

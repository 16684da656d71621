package predictions

import (
	"context"

	"github.com/dmitrijs2005/jobscreen/internal/server/models"
)

// Repository is the append-only prediction ledger. Aggregations are
// computed at query time and return empty results, not errors, on an empty
// ledger.
type Repository interface {
	// Append stores p and fills in its ID. A zero CreatedAt is set to now.
	Append(ctx context.Context, p *models.Prediction) (int64, error)
	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]models.Prediction, error)
	// ListForExport returns every record in ascending id order.
	ListForExport(ctx context.Context) ([]models.Prediction, error)
	CountByLabel(ctx context.Context) (map[string]int, error)
	CountByDay(ctx context.Context) ([]models.DailyCount, error)
	CountByConfidence(ctx context.Context) ([]models.ConfidenceCount, error)
	Count(ctx context.Context) (int, error)
}

package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/dbx"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/repomanager"
)

// ExportHeader is the first row of every CSV export.
var ExportHeader = []string{"ID", "Username", "Prediction", "Confidence", "Date"}

// LabelStats is the label breakdown of the prediction ledger.
type LabelStats struct {
	Fake    int            `json:"fake"`
	Real    int            `json:"real"`
	Total   int            `json:"total"`
	ByLabel map[string]int `json:"by_label"`
}

// AnalyticsService answers read-only questions about the prediction ledger.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

// History returns every prediction, newest first.
func (s *AnalyticsService) History(ctx context.Context) ([]models.Prediction, error) {
	items, err := s.repomanager.Predictions(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	return items, nil
}

// LabelTotals always carries both labels, zero when absent.
func (s *AnalyticsService) LabelTotals(ctx context.Context) (map[string]int, error) {
	counts, err := s.repomanager.Predictions(s.db).CountByLabel(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	return withBothLabels(counts), nil
}

// Stats reads the label breakdown and the ledger size from one snapshot, so
// Total always equals Fake + Real.
func (s *AnalyticsService) Stats(ctx context.Context) (*LabelStats, error) {
	var stats LabelStats
	err := dbx.WithSnapshot(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Predictions(tx)
		counts, err := repo.CountByLabel(ctx)
		if err != nil {
			return err
		}
		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		stats.ByLabel = withBothLabels(counts)
		stats.Total = total
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	stats.Fake = stats.ByLabel[common.LabelFake]
	stats.Real = stats.ByLabel[common.LabelReal]
	return &stats, nil
}

// Daily returns one point per day with at least one prediction, ascending.
func (s *AnalyticsService) Daily(ctx context.Context) ([]models.DailyCount, error) {
	days, err := s.repomanager.Predictions(s.db).CountByDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	return days, nil
}

// ConfidenceHistogram groups predictions by exact confidence value, ascending.
func (s *AnalyticsService) ConfidenceHistogram(ctx context.Context) ([]models.ConfidenceCount, error) {
	buckets, err := s.repomanager.Predictions(s.db).CountByConfidence(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	return buckets, nil
}

// ExportCSV writes the header and one row per prediction, ascending by id,
// and returns the number of data rows written.
func (s *AnalyticsService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.repomanager.Predictions(s.db).ListForExport(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}
	for _, p := range items {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.UserName,
			p.Label,
			strconv.FormatFloat(p.Confidence, 'f', -1, 64),
			models.FormatTime(p.CreatedAt),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(items), nil
}

func withBothLabels(counts map[string]int) map[string]int {
	out := map[string]int{common.LabelFake: 0, common.LabelReal: 0}
	for k, v := range counts {
		out[k] = v
	}
	return out
}

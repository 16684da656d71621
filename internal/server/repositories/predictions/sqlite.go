// Package predictions provides the SQLite-backed prediction ledger.
package predictions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/dbx"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Append(ctx context.Context, p *models.Prediction) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now()
	}
	p.CreatedAt = p.CreatedAt.UTC().Truncate(time.Second)

	query := `INSERT INTO predictions (text, prediction, confidence, model, username, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		p.Text, p.Label, p.Confidence, p.Model, p.UserName, models.FormatTime(p.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	p.ID = id
	return id, nil
}

const selectColumns = `SELECT id, text, prediction, confidence, model, username, created_at FROM predictions`

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Prediction, error) {
	return r.list(ctx, selectColumns+` ORDER BY created_at DESC, id DESC`)
}

func (r *SQLiteRepository) ListForExport(ctx context.Context) ([]models.Prediction, error) {
	return r.list(ctx, selectColumns+` ORDER BY id ASC`)
}

func (r *SQLiteRepository) list(ctx context.Context, query string) ([]models.Prediction, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Prediction{}
	for rows.Next() {
		var (
			p         models.Prediction
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Text, &p.Label, &p.Confidence, &p.Model, &p.UserName, &createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if p.CreatedAt, err = models.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) CountByLabel(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT prediction, COUNT(*) FROM predictions GROUP BY prediction`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := map[string]int{}
	for rows.Next() {
		var (
			label string
			n     int
		)
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[label] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) CountByDay(ctx context.Context) ([]models.DailyCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE(created_at) AS day, COUNT(*) FROM predictions GROUP BY day ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.DailyCount{}
	for rows.Next() {
		var d models.DailyCount
		if err := rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) CountByConfidence(ctx context.Context) ([]models.ConfidenceCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT confidence, COUNT(*) FROM predictions GROUP BY confidence ORDER BY confidence ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.ConfidenceCount{}
	for rows.Next() {
		var c models.ConfidenceCount
		if err := rows.Scan(&c.Confidence, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Package flags provides the SQLite-backed flag ledger.
package flags

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

func (r *SQLiteRepository) Append(ctx context.Context, f *models.Flag) (int64, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = r.now()
	}
	f.CreatedAt = f.CreatedAt.UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO flags (job_text, reason, comments, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.JobText, f.Reason, f.Comments, f.Email, models.FormatTime(f.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	f.ID = id
	return id, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Flag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, job_text, reason, comments, email, created_at FROM flags
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Flag{}
	for rows.Next() {
		var (
			f         models.Flag
			createdAt string
		)
		if err := rows.Scan(&f.ID, &f.JobText, &f.Reason, &f.Comments, &f.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if f.CreatedAt, err = models.ParseTime(createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

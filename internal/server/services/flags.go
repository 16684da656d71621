package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/repomanager"
)

// MaxFlagFieldLength bounds reason, comments and email.
const MaxFlagFieldLength = 2000

type FlagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewFlagService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *FlagService {
	return &FlagService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "flags"),
		now:         time.Now,
	}
}

// Submit records a complaint about a posting. Job text and reason are
// required; comments and email are optional.
func (s *FlagService) Submit(ctx context.Context, f *models.Flag) (int64, error) {
	f.JobText = strings.TrimSpace(f.JobText)
	f.Reason = strings.TrimSpace(f.Reason)
	f.Comments = strings.TrimSpace(f.Comments)
	f.Email = strings.TrimSpace(f.Email)

	switch {
	case f.JobText == "":
		return 0, fmt.Errorf("%w: job_text is required", common.ErrInvalidInput)
	case f.Reason == "":
		return 0, fmt.Errorf("%w: reason is required", common.ErrInvalidInput)
	case utf8.RuneCountInString(f.JobText) > common.MaxTextLength:
		return 0, fmt.Errorf("%w: job_text too long (max %d characters)", common.ErrInvalidInput, common.MaxTextLength)
	}
	for _, v := range []string{f.Reason, f.Comments, f.Email} {
		if utf8.RuneCountInString(v) > MaxFlagFieldLength {
			return 0, fmt.Errorf("%w: field too long (max %d characters)", common.ErrInvalidInput, MaxFlagFieldLength)
		}
	}

	f.CreatedAt = s.now()
	id, err := s.repomanager.Flags(s.db).Append(ctx, f)
	if err != nil {
		s.logger.Error(ctx, "append flag failed", "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}

	s.logger.Info(ctx, "posting flagged", "id", id, "reason", f.Reason)
	return id, nil
}

// List returns every flag, newest first.
func (s *FlagService) List(ctx context.Context) ([]models.Flag, error) {
	flags, err := s.repomanager.Flags(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	return flags, nil
}

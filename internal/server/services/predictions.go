package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
	"github.com/dmitrijs2005/jobscreen/internal/server/classifier"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/repomanager"
)

// Classifier is the part of classifier.Classifier the prediction flow needs.
type Classifier interface {
	Classify(ctx context.Context, text string) (*classifier.Result, error)
}

// PredictionOutcome is a recorded classification.
type PredictionOutcome struct {
	ID             int64
	Label          string
	Confidence     float64
	Model          string
	ProcessingTime time.Duration
	Timestamp      time.Time
}

type PredictionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	classifier  Classifier
	logger      logging.Logger
	now         func() time.Time
}

func NewPredictionService(db *sql.DB, m repomanager.RepositoryManager, c Classifier, logger logging.Logger) *PredictionService {
	return &PredictionService{
		db:          db,
		repomanager: m,
		classifier:  c,
		logger:      logger.With("module", "predictions"),
		now:         time.Now,
	}
}

// ValidateText enforces the accepted posting length. The minimum applies to
// the trimmed text.
func ValidateText(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < common.MinTextLength {
		return fmt.Errorf("%w: text too short (min %d characters)", common.ErrInvalidInput, common.MinTextLength)
	}
	if utf8.RuneCountInString(text) > common.MaxTextLength {
		return fmt.Errorf("%w: text too long (max %d characters)", common.ErrInvalidInput, common.MaxTextLength)
	}
	return nil
}

// Predict classifies text on behalf of username and appends the outcome to
// the prediction ledger. Nothing is written when validation or
// classification fails.
func (s *PredictionService) Predict(ctx context.Context, username, text string) (*PredictionOutcome, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	res, err := s.classifier.Classify(ctx, text)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) || errors.Is(err, common.ErrModelUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	p := &models.Prediction{
		Text:       text,
		Label:      res.Label,
		Confidence: res.Confidence,
		Model:      res.Model,
		UserName:   username,
		CreatedAt:  s.now(),
	}
	if _, err := s.repomanager.Predictions(s.db).Append(ctx, p); err != nil {
		s.logger.Error(ctx, "append prediction failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}

	s.logger.Info(ctx, "prediction recorded",
		"id", p.ID, "username", username, "label", p.Label, "confidence", p.Confidence, "model", p.Model,
		"fake_score", res.FakeScore, "real_score", res.RealScore)

	return &PredictionOutcome{
		ID:             p.ID,
		Label:          p.Label,
		Confidence:     p.Confidence,
		Model:          p.Model,
		ProcessingTime: res.ProcessingTime,
		Timestamp:      p.CreatedAt,
	}, nil
}

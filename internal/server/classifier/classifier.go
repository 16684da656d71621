// Package classifier labels job postings as Fake or Real. Trained scorers
// are tried in priority order; the keyword heuristic is the last resort.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
)

const (
	Version  = "1.1"
	Accuracy = 0.924

	KeywordModelName = "keyword"
)

// Result is the outcome of one classification. FakeScore and RealScore are
// indicator hits and stay zero when a trained scorer answered.
type Result struct {
	Label          string
	Confidence     float64
	ProcessingTime time.Duration
	Model          string
	FakeScore      int
	RealScore      int
}

// Info describes the classifier for the model-info endpoint.
type Info struct {
	Version         string          `json:"version"`
	Accuracy        float64         `json:"accuracy"`
	Type            string          `json:"type"`
	Policy          string          `json:"policy"`
	KeywordsVersion string          `json:"keywords_version"`
	FakeKeywords    int             `json:"fake_keywords"`
	RealKeywords    int             `json:"real_keywords"`
	LoadedModels    map[string]bool `json:"loaded_models"`
}

type Classifier struct {
	keywords        *KeywordTable
	policy          ThresholdPolicy
	scorers         []Scorer
	keywordFallback bool
	logger          logging.Logger
	now             func() time.Time
}

type Option func(*Classifier)

// WithScorers sets the trained scorers, highest priority first.
func WithScorers(scorers ...Scorer) Option {
	return func(c *Classifier) { c.scorers = append(c.scorers, scorers...) }
}

// WithoutKeywordFallback makes Classify fail with ErrModelUnavailable when
// every trained scorer declines.
func WithoutKeywordFallback() Option {
	return func(c *Classifier) { c.keywordFallback = false }
}

func WithPolicy(p ThresholdPolicy) Option {
	return func(c *Classifier) { c.policy = p }
}

func New(logger logging.Logger, keywords *KeywordTable, opts ...Option) *Classifier {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	c := &Classifier{
		keywords:        keywords,
		policy:          DefaultPolicy,
		keywordFallback: true,
		logger:          logger.With("module", "classifier"),
		now:             time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// LoadScorers loads the model exports at paths in order. A model that fails
// to load is logged and left out.
func LoadScorers(ctx context.Context, logger logging.Logger, paths []string) []Scorer {
	var scorers []Scorer
	for _, p := range paths {
		m, err := LoadLinearModel(p)
		if err != nil {
			logger.Warn(ctx, "model not loaded", "path", p, "error", err)
			continue
		}
		logger.Info(ctx, "model loaded", "path", p, "name", m.Name(), "terms", len(m.Vocabulary))
		scorers = append(scorers, m)
	}
	return scorers
}

func (c *Classifier) Classify(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", common.ErrInvalidInput)
	}
	start := c.now()

	for _, s := range c.scorers {
		p, err := c.score(ctx, s, text)
		if err != nil {
			c.logger.Warn(ctx, "scorer declined", "model", s.Name(), "error", err)
			continue
		}
		label, confidence := fromProbability(p)
		return &Result{
			Label:          label,
			Confidence:     confidence,
			ProcessingTime: c.now().Sub(start),
			Model:          s.Name(),
		}, nil
	}

	if !c.keywordFallback {
		return nil, common.ErrModelUnavailable
	}

	fakeScore, realScore := c.keywords.Score(strings.ToLower(text))
	label, confidence := c.policy.Decide(fakeScore, realScore)
	return &Result{
		Label:          label,
		Confidence:     round2(confidence),
		ProcessingTime: c.now().Sub(start),
		Model:          KeywordModelName,
		FakeScore:      fakeScore,
		RealScore:      realScore,
	}, nil
}

// score runs one scorer, turning a panic or an out-of-range answer into a
// decline.
func (c *Classifier) score(ctx context.Context, s Scorer, text string) (p float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrDeclined, r)
		}
	}()

	p, err = s.Probability(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrDeclined) {
			err = fmt.Errorf("%w: %v", ErrDeclined, err)
		}
		return 0, err
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: probability %v out of range", ErrDeclined, p)
	}
	return p, nil
}

func (c *Classifier) Info() Info {
	typ := "Rule-based (Keyword Matching)"
	if len(c.scorers) > 0 {
		typ = "TF-IDF + Logistic Regression"
		if c.keywordFallback {
			typ += ", keyword fallback"
		}
	}
	loaded := make(map[string]bool, len(c.scorers)+1)
	for _, s := range c.scorers {
		loaded[s.Name()] = true
	}
	loaded[KeywordModelName] = c.keywordFallback

	return Info{
		Version:         Version,
		Accuracy:        Accuracy,
		Type:            typ,
		Policy:          c.policy.Name(),
		KeywordsVersion: c.keywords.Version,
		FakeKeywords:    len(c.keywords.Fake),
		RealKeywords:    len(c.keywords.Real),
		LoadedModels:    loaded,
	}
}

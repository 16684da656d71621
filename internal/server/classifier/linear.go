package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

// tokenPattern matches scikit-learn's default token_pattern.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// LinearModel is a TF-IDF vectorizer followed by a logistic regression,
// exported from a trained scikit-learn pipeline as JSON.
type LinearModel struct {
	ModelName  string         `json:"name"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       []float64      `json:"coef"`
	Intercept  float64        `json:"intercept"`
	NgramRange [2]int         `json:"ngram_range"`
	Sublinear  bool           `json:"sublinear_tf"`
}

// LoadLinearModel reads and validates a model export.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &m, nil
}

func (m *LinearModel) validate() error {
	if m.ModelName == "" {
		m.ModelName = "LogisticRegression"
	}
	if m.NgramRange == [2]int{} {
		m.NgramRange = [2]int{1, 1}
	}
	if m.NgramRange[0] < 1 || m.NgramRange[1] < m.NgramRange[0] {
		return fmt.Errorf("bad ngram_range %v", m.NgramRange)
	}
	if len(m.Vocabulary) == 0 {
		return errors.New("empty vocabulary")
	}
	if len(m.IDF) != len(m.Coef) {
		return fmt.Errorf("idf has %d entries, coef %d", len(m.IDF), len(m.Coef))
	}
	for term, idx := range m.Vocabulary {
		if idx < 0 || idx >= len(m.Coef) {
			return fmt.Errorf("term %q has index %d out of range", term, idx)
		}
	}
	return nil
}

func (m *LinearModel) Name() string { return m.ModelName }

func (m *LinearModel) Probability(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDeclined, err)
	}

	counts := make(map[int]float64)
	for _, term := range ngrams(tokenPattern.FindAllString(strings.ToLower(text), -1), m.NgramRange) {
		if idx, ok := m.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	var norm float64
	for idx, tf := range counts {
		if m.Sublinear {
			tf = 1 + math.Log(tf)
		}
		w := tf * m.IDF[idx]
		counts[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	z := m.Intercept
	if norm > 0 {
		for idx, w := range counts {
			z += m.Coef[idx] * w / norm
		}
	}

	p := 1 / (1 + math.Exp(-z))
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: non-numeric score", ErrDeclined)
	}
	return p, nil
}

func ngrams(tokens []string, r [2]int) []string {
	var out []string
	for n := r[0]; n <= r[1]; n++ {
		if n == 1 {
			out = append(out, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

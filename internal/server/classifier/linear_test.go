package classifier

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func writeModel(t *testing.T, m any) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLinearModel_Unigrams(t *testing.T) {
	m := &LinearModel{
		Vocabulary: map[string]int{"fee": 0, "whatsapp": 1, "salary": 2},
		IDF:        []float64{1, 1, 1},
		Coef:       []float64{3, 3, -3},
	}
	require.NoError(t, m.validate())
	assert.Equal(t, "LogisticRegression", m.Name())

	p, err := m.Probability(context.Background(), "Pay the FEE on WhatsApp")
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(6/math.Sqrt2), p, 1e-9)

	p, err = m.Probability(context.Background(), "nothing known here")
	require.NoError(t, err)
	assert.Equal(t, 0.5, p, "no known terms leaves only the intercept")
}

func TestLinearModel_TermFrequencyAndIDF(t *testing.T) {
	m := &LinearModel{
		Vocabulary: map[string]int{"fee": 0, "salary": 1},
		IDF:        []float64{2, 1},
		Coef:       []float64{1, -1},
		Intercept:  0.5,
	}
	require.NoError(t, m.validate())

	// tf-idf: fee=2*2=4, salary=1*1=1; l2 norm sqrt(17)
	p, err := m.Probability(context.Background(), "fee fee salary")
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(0.5+(4-1)/math.Sqrt(17)), p, 1e-9)

	m.Sublinear = true
	// sublinear: fee=(1+ln2)*2
	w := (1 + math.Log(2)) * 2
	p, err = m.Probability(context.Background(), "fee fee salary")
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(0.5+(w-1)/math.Sqrt(w*w+1)), p, 1e-9)
}

func TestLinearModel_Bigrams(t *testing.T) {
	m := &LinearModel{
		Vocabulary: map[string]int{"registration fee": 0},
		IDF:        []float64{2},
		Coef:       []float64{5},
		NgramRange: [2]int{1, 2},
	}
	require.NoError(t, m.validate())

	p, err := m.Probability(context.Background(), "Registration fee required")
	require.NoError(t, err)
	assert.InDelta(t, sigmoid(5), p, 1e-9)
}

func TestLinearModel_CancelledContextDeclines(t *testing.T) {
	m := &LinearModel{Vocabulary: map[string]int{"a1": 0}, IDF: []float64{1}, Coef: []float64{1}}
	require.NoError(t, m.validate())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Probability(ctx, "a1")
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestLoadLinearModel(t *testing.T) {
	path := writeModel(t, map[string]any{
		"name":       "RandomForestLite",
		"vocabulary": map[string]int{"whatsapp": 0},
		"idf":        []float64{1.5},
		"coef":       []float64{2},
		"intercept":  -1,
	})
	m, err := LoadLinearModel(path)
	require.NoError(t, err)
	assert.Equal(t, "RandomForestLite", m.Name())
	assert.Equal(t, [2]int{1, 1}, m.NgramRange)
}

func TestLoadLinearModel_Errors(t *testing.T) {
	_, err := LoadLinearModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadLinearModel(bad)
	assert.Error(t, err)

	cases := []map[string]any{
		{"vocabulary": map[string]int{}, "idf": []float64{}, "coef": []float64{}},
		{"vocabulary": map[string]int{"a": 0}, "idf": []float64{1, 2}, "coef": []float64{1}},
		{"vocabulary": map[string]int{"a": 3}, "idf": []float64{1}, "coef": []float64{1}},
		{"vocabulary": map[string]int{"a": 0}, "idf": []float64{1}, "coef": []float64{1}, "ngram_range": []int{2, 1}},
	}
	for _, c := range cases {
		_, err := LoadLinearModel(writeModel(t, c))
		assert.Error(t, err, "%v", c)
	}
}

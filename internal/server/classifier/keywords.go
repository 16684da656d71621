package classifier

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed keywords.json
var defaultKeywords []byte

// KeywordTable is a versioned pair of indicator phrase lists. Phrases are
// stored lower-cased, trimmed and without duplicates.
type KeywordTable struct {
	Version string   `json:"version"`
	Fake    []string `json:"fake"`
	Real    []string `json:"real"`
}

// DefaultKeywords returns the table compiled into the binary.
func DefaultKeywords() *KeywordTable {
	t, err := ParseKeywords(defaultKeywords)
	if err != nil {
		panic(fmt.Sprintf("embedded keyword table: %v", err))
	}
	return t
}

// LoadKeywords reads a table from path, or returns the embedded one when
// path is empty.
func LoadKeywords(path string) (*KeywordTable, error) {
	if path == "" {
		return DefaultKeywords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	return ParseKeywords(data)
}

func ParseKeywords(data []byte) (*KeywordTable, error) {
	var t KeywordTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse keyword table: %w", err)
	}
	if strings.TrimSpace(t.Version) == "" {
		return nil, errors.New("keyword table has no version")
	}
	t.Fake = normalize(t.Fake)
	t.Real = normalize(t.Real)
	if len(t.Fake) == 0 {
		return nil, errors.New("keyword table has no fake indicators")
	}
	return &t, nil
}

func normalize(phrases []string) []string {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Score counts the phrases of each list contained in text. A phrase counts
// once however often it occurs. text must already be lower-cased.
func (t *KeywordTable) Score(text string) (fakeScore, realScore int) {
	for _, p := range t.Fake {
		if strings.Contains(text, p) {
			fakeScore++
		}
	}
	for _, p := range t.Real {
		if strings.Contains(text, p) {
			realScore++
		}
	}
	return fakeScore, realScore
}

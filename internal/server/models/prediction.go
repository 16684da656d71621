package models

import "time"

// Prediction is one row of the prediction ledger. Confidence is a
// percentage in [0,100].
type Prediction struct {
	ID         int64     `json:"id"`
	Text       string    `json:"-"`
	Label      string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	Model      string    `json:"model"`
	UserName   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

// DailyCount is the number of predictions recorded on Day (YYYY-MM-DD, UTC).
type DailyCount struct {
	Day   string
	Count int
}

// ConfidenceCount is the number of predictions with exactly Confidence.
type ConfidenceCount struct {
	Confidence float64
	Count      int
}

package classifier

import (
	"context"
	"errors"
)

// ErrDeclined is returned by a Scorer that cannot score a text. The
// classifier moves on to the next scorer.
var ErrDeclined = errors.New("scorer declined")

// Scorer produces the probability, in [0,1], that a posting is fake.
type Scorer interface {
	Name() string
	Probability(ctx context.Context, text string) (float64, error)
}

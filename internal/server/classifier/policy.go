package classifier

import (
	"math"

	"github.com/dmitrijs2005/jobscreen/internal/common"
)

// ThresholdPolicy turns indicator counts into a label and a percentage
// confidence. Two or more fake hits make a posting Fake.
type ThresholdPolicy struct {
	FakeThreshold int
	FakeBase      float64
	FakeStep      float64
	FakeCap       float64
	RealBase      float64
	RealStep      float64
	RealCap       float64
}

var DefaultPolicy = ThresholdPolicy{
	FakeThreshold: 2,
	FakeBase:      90,
	FakeStep:      2,
	FakeCap:       98,
	RealBase:      85,
	RealStep:      2,
	RealCap:       97,
}

func (p ThresholdPolicy) Name() string { return "threshold" }

func (p ThresholdPolicy) Decide(fakeScore, realScore int) (string, float64) {
	if fakeScore >= p.FakeThreshold {
		return common.LabelFake, clampPercent(math.Min(p.FakeBase+float64(fakeScore)*p.FakeStep, p.FakeCap))
	}
	return common.LabelReal, clampPercent(math.Min(p.RealBase+float64(realScore)*p.RealStep, p.RealCap))
}

// fromProbability labels a fake-probability at the 0.5 threshold and reports
// the probability of the chosen label as a percentage.
func fromProbability(p float64) (string, float64) {
	if p >= 0.5 {
		return common.LabelFake, round2(clampPercent(p * 100))
	}
	return common.LabelReal, round2(clampPercent((1 - p) * 100))
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package features

import (
	"math"

	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// StandardScaler rescales a numeric column to zero mean and unit variance.
type StandardScaler struct {
	Mean  float64 `json:"mean" yaml:"mean"`
	Scale float64 `json:"scale" yaml:"scale"`
	fit   bool
}

// Fit computes the mean and population standard deviation of the non-null
// values of c. A zero deviation scales by 1. With no values the column maps
// to NaN.
func (s *StandardScaler) Fit(c *frame.Column) {
	xs := c.Floats()
	s.fit = true
	if len(xs) == 0 {
		s.Mean, s.Scale = math.NaN(), 1
		return
	}

	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	s.Mean = sum / float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		d := x - s.Mean
		ss += d * d
	}
	s.Scale = math.Sqrt(ss / float64(len(xs)))
	if s.Scale == 0 {
		s.Scale = 1
	}
}

// Fitted reports whether Fit has been called.
func (s *StandardScaler) Fitted() bool { return s.fit }

// Transform returns the scaled value of v. Null input gives NaN.
func (s *StandardScaler) Transform(v frame.Value) float64 {
	f, ok := v.Float()
	if !ok {
		return math.NaN()
	}
	return (f - s.Mean) / s.Scale
}

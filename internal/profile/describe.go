package profile

import (
	"encoding/json"
	"math"
	"sort"
)

// Describe holds descriptive statistics of a numeric column.
// Std is the sample standard deviation. Quartiles use linear interpolation
// between closest ranks. Statistics that are undefined for the count are NaN.
type Describe struct {
	Count int     `yaml:"count"`
	Mean  float64 `yaml:"mean"`
	Std   float64 `yaml:"std"`
	Min   float64 `yaml:"min"`
	P25   float64 `yaml:"p25"`
	P50   float64 `yaml:"p50"`
	P75   float64 `yaml:"p75"`
	Max   float64 `yaml:"max"`
}

// DescribeValues computes statistics over xs. xs is not modified.
func DescribeValues(xs []float64) Describe {
	n := len(xs)
	d := Describe{Count: n}
	if n == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.P25, d.P50, d.P75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	sum := 0.0
	for _, x := range sorted {
		sum += x
	}
	d.Mean = sum / float64(n)

	if n > 1 {
		ss := 0.0
		for _, x := range sorted {
			diff := x - d.Mean
			ss += diff * diff
		}
		d.Std = math.Sqrt(ss / float64(n-1))
	} else {
		d.Std = math.NaN()
	}

	d.Min = sorted[0]
	d.Max = sorted[n-1]
	d.P25 = Quantile(sorted, 0.25)
	d.P50 = Quantile(sorted, 0.50)
	d.P75 = Quantile(sorted, 0.75)
	return d
}

// Quantile returns the q-quantile (0 <= q <= 1) of an ascending slice using
// linear interpolation. It returns NaN for an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	rank := q * float64(n-1)
	lower := int(rank)
	if lower+1 >= n {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// Median returns the median of xs, or NaN when xs is empty.
func Median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return Quantile(sorted, 0.5)
}

// MarshalJSON encodes NaN statistics as null.
func (d Describe) MarshalJSON() ([]byte, error) {
	num := func(f float64) any {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	}
	return json.Marshal(map[string]any{
		"count": d.Count,
		"mean":  num(d.Mean),
		"std":   num(d.Std),
		"min":   num(d.Min),
		"p25":   num(d.P25),
		"p50":   num(d.P50),
		"p75":   num(d.P75),
		"max":   num(d.Max),
	})
}

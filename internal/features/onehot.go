package features

import (
	"sort"

	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// OneHotEncoder maps a categorical value to an indicator vector over the
// categories seen at fit time. Values not seen at fit time, and nulls,
// encode to the all-zero vector.
type OneHotEncoder struct {
	Categories []string `json:"categories" yaml:"categories"`
	index      map[string]int
	fit        bool
}

// Fit records the sorted distinct non-null values of c.
func (e *OneHotEncoder) Fit(c *frame.Column) {
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		seen[v.Format()] = struct{}{}
	}
	e.Categories = make([]string, 0, len(seen))
	for cat := range seen {
		e.Categories = append(e.Categories, cat)
	}
	sort.Strings(e.Categories)

	e.index = make(map[string]int, len(e.Categories))
	for i, cat := range e.Categories {
		e.index[cat] = i
	}
	e.fit = true
}

// Fitted reports whether Fit has been called.
func (e *OneHotEncoder) Fitted() bool { return e.fit }

// Width is the number of indicator columns produced.
func (e *OneHotEncoder) Width() int { return len(e.Categories) }

// Encode writes the indicator vector of v into dst, which must have Width
// elements and is assumed zeroed.
func (e *OneHotEncoder) Encode(v frame.Value, dst []float64) {
	if v.IsNull() {
		return
	}
	if i, ok := e.index[v.Format()]; ok {
		dst[i] = 1
	}
}

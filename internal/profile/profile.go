// Package profile computes data-quality summaries of a record table: row and
// duplicate counts, per-column missing counts, descriptive statistics of the
// driver age and the outcome label distribution.
//
// Summaries are pure; the table is never modified.
package profile

import (
	"sort"

	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// ColumnMissing is the missing-value count of one column.
type ColumnMissing struct {
	Column  string `json:"column" yaml:"column"`
	Missing int    `json:"missing" yaml:"missing"`
}

// Proportion is the share of one label value.
type Proportion struct {
	Value      string  `json:"value" yaml:"value"`
	Count      int     `json:"count" yaml:"count"`
	Proportion float64 `json:"proportion" yaml:"proportion"`
}

// Summary is the data-quality report of one table.
type Summary struct {
	Rows       int             `json:"rows" yaml:"rows"`
	Columns    int             `json:"columns" yaml:"columns"`
	Duplicates int             `json:"duplicates" yaml:"duplicates"`
	Missing    []ColumnMissing `json:"missing" yaml:"missing"`
	// Age is nil when the age column is absent or not numeric.
	Age *Describe `json:"age,omitempty" yaml:"age,omitempty"`
	// Label is nil when the label column is absent.
	Label []Proportion `json:"label,omitempty" yaml:"label,omitempty"`
}

// Options names the optional columns a Summary reports on.
type Options struct {
	AgeColumn   string
	LabelColumn string
}

// Summarize profiles t.
func Summarize(t *frame.Table, opts Options) Summary {
	rows, width := t.Shape()
	s := Summary{
		Rows:       rows,
		Columns:    width,
		Duplicates: Duplicates(t),
		Missing:    make([]ColumnMissing, 0, width),
	}
	for _, c := range t.Columns() {
		s.Missing = append(s.Missing, ColumnMissing{Column: c.Name, Missing: c.NullCount()})
	}

	if opts.AgeColumn != "" {
		if c, ok := t.Column(opts.AgeColumn); ok && c.Type.IsNumeric() {
			d := DescribeValues(c.Floats())
			s.Age = &d
		}
	}
	if opts.LabelColumn != "" {
		if c, ok := t.Column(opts.LabelColumn); ok {
			s.Label = Proportions(c)
		}
	}
	return s
}

// Duplicates counts rows that exactly repeat an earlier row.
func Duplicates(t *frame.Table) int {
	seen := make(map[string]struct{}, t.Rows())
	dups := 0
	for i := 0; i < t.Rows(); i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// Proportions returns the normalized value counts of a column, nulls
// excluded, ordered by descending count and then by value.
func Proportions(c *frame.Column) []Proportion {
	counts := make(map[string]int)
	total := 0
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		counts[v.Format()]++
		total++
	}

	out := make([]Proportion, 0, len(counts))
	for val, n := range counts {
		out = append(out, Proportion{Value: val, Count: n, Proportion: float64(n) / float64(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

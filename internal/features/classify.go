// Package features partitions feature columns into numeric and categorical
// groups and builds the transformation plan that standardizes the former and
// one-hot encodes the latter.
//
// Building a plan computes nothing; Plan.Fit is a separate, explicit call so
// statistics are only ever taken from data the caller chooses.
package features

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// Classification is the disjoint, covering split of feature column names.
type Classification struct {
	Numeric     []string `json:"numeric" yaml:"numeric"`
	Categorical []string `json:"categorical" yaml:"categorical"`
}

// Classify assigns every column of t to the numeric or categorical group, in
// column order. Int and Float columns are numeric; String and Time columns are
// categorical. A column of Unknown type, which the loader only produces for a
// table without rows, fails with core.ErrClassify.
func Classify(t *frame.Table) (Classification, error) {
	c := Classification{Numeric: []string{}, Categorical: []string{}}
	var ambiguous []string
	for _, col := range t.Columns() {
		switch col.Type {
		case frame.Int, frame.Float:
			c.Numeric = append(c.Numeric, col.Name)
		case frame.String, frame.Time:
			c.Categorical = append(c.Categorical, col.Name)
		default:
			ambiguous = append(ambiguous, col.Name)
		}
	}
	if len(ambiguous) > 0 {
		return Classification{}, fmt.Errorf("%w: no values and no declared type for %s; declare them in the schema",
			core.ErrClassify, strings.Join(ambiguous, ", "))
	}
	return c, nil
}

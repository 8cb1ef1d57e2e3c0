package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// ErrNotFitted is returned when a plan is applied before Fit.
var ErrNotFitted = errors.New("transform plan is not fitted")

// Transform kinds in a plan.
const (
	KindStandardize = "standardize"
	KindOneHot      = "onehot"
)

// Route assigns one column to one transform.
type Route struct {
	Column string          `json:"column" yaml:"column"`
	Kind   string          `json:"kind" yaml:"kind"`
	Scaler *StandardScaler `json:"scaler,omitempty" yaml:"scaler,omitempty"`
	OneHot *OneHotEncoder  `json:"onehot,omitempty" yaml:"onehot,omitempty"`
}

// Plan is the column-routing table: numeric columns to standardization,
// categorical columns to one-hot encoding with unknown categories ignored.
type Plan struct {
	Routes []Route `json:"routes" yaml:"routes"`
	fitted bool
}

// Matrix is a dense transformed feature block.
type Matrix struct {
	Names []string
	Rows  [][]float64
}

// Shape returns (rows, columns).
func (m Matrix) Shape() (int, int) { return len(m.Rows), len(m.Names) }

// BuildPlan routes the classified columns. Nothing is fitted.
func BuildPlan(c Classification) *Plan {
	p := &Plan{Routes: make([]Route, 0, len(c.Numeric)+len(c.Categorical))}
	for _, name := range c.Numeric {
		p.Routes = append(p.Routes, Route{Column: name, Kind: KindStandardize, Scaler: &StandardScaler{}})
	}
	for _, name := range c.Categorical {
		p.Routes = append(p.Routes, Route{Column: name, Kind: KindOneHot, OneHot: &OneHotEncoder{}})
	}
	return p
}

// Fitted reports whether Fit has completed.
func (p *Plan) Fitted() bool { return p.fitted }

// Fit computes every route's parameters from t, normally the training
// features. Every route column must be present; otherwise no route is
// touched and the plan keeps its previous state.
func (p *Plan) Fit(t *frame.Table) error {
	cols, err := p.columns(t, "fit")
	if err != nil {
		return err
	}
	for i, r := range p.Routes {
		c := cols[i]
		switch r.Kind {
		case KindStandardize:
			r.Scaler.Fit(c)
		case KindOneHot:
			r.OneHot.Fit(c)
		}
	}
	p.fitted = true
	return nil
}

// Transform applies the fitted plan to t. Output columns follow route order:
// "num__<column>" for standardized columns and "cat__<column>_<category>" for
// indicators.
func (p *Plan) Transform(t *frame.Table) (Matrix, error) {
	if !p.fitted {
		return Matrix{}, ErrNotFitted
	}

	cols, err := p.columns(t, "transform")
	if err != nil {
		return Matrix{}, err
	}
	var names []string
	for _, r := range p.Routes {
		switch r.Kind {
		case KindStandardize:
			names = append(names, "num__"+r.Column)
		case KindOneHot:
			for _, cat := range r.OneHot.Categories {
				names = append(names, "cat__"+r.Column+"_"+cat)
			}
		}
	}

	rows := make([][]float64, t.Rows())
	for i := range rows {
		row := make([]float64, len(names))
		off := 0
		for j, r := range p.Routes {
			v := cols[j].Values[i]
			switch r.Kind {
			case KindStandardize:
				row[off] = r.Scaler.Transform(v)
				off++
			case KindOneHot:
				w := r.OneHot.Width()
				r.OneHot.Encode(v, row[off:off+w])
				off += w
			}
		}
		rows[i] = row
	}
	return Matrix{Names: names, Rows: rows}, nil
}

// columns resolves every route column of t, in route order.
func (p *Plan) columns(t *frame.Table, op string) ([]*frame.Column, error) {
	cols := make([]*frame.Column, len(p.Routes))
	var missing []string
	for i, r := range p.Routes {
		c, ok := t.Column(r.Column)
		if !ok {
			missing = append(missing, r.Column)
			continue
		}
		cols[i] = c
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: columns not found: %s", op, strings.Join(missing, ", "))
	}
	return cols, nil
}

// FitTransform fits on t and transforms it.
func (p *Plan) FitTransform(t *frame.Table) (Matrix, error) {
	if err := p.Fit(t); err != nil {
		return Matrix{}, err
	}
	return p.Transform(t)
}

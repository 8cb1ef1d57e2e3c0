package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

func featureTable() *frame.Table {
	return frame.MustNew(
		frame.NewColumn("Vehicles", frame.Int, []frame.Value{
			frame.IntValue(1), frame.IntValue(2), frame.IntValue(3), frame.Null(),
		}),
		frame.NewColumn("Weather", frame.String, []frame.Value{
			frame.StringValue("Rain"), frame.StringValue("Clear"), frame.StringValue("Rain"), frame.Null(),
		}),
		frame.NewColumn("Age_clean", frame.Float, []frame.Value{
			frame.FloatValue(20), frame.FloatValue(20), frame.FloatValue(20), frame.FloatValue(20),
		}),
	)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		table       *frame.Table
		numeric     []string
		categorical []string
		wantErr     error
	}{
		{
			name:        "mixed in column order",
			table:       featureTable(),
			numeric:     []string{"Vehicles", "Age_clean"},
			categorical: []string{"Weather"},
		},
		{
			name: "time is categorical",
			table: frame.MustNew(frame.NewColumn("Seen", frame.Time, []frame.Value{
				frame.TimeValue(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), false),
			})),
			numeric:     []string{},
			categorical: []string{"Seen"},
		},
		{
			name:        "empty table",
			table:       frame.MustNew(),
			numeric:     []string{},
			categorical: []string{},
		},
		{
			name:    "unknown type",
			table:   frame.MustNew(frame.NewColumn("Blank", frame.Unknown, nil)),
			wantErr: core.ErrClassify,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Classify(tt.table)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "Blank")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.numeric, c.Numeric)
			assert.Equal(t, tt.categorical, c.Categorical)
		})
	}
}

func TestBuildPlan_IsUnfitted(t *testing.T) {
	p := BuildPlan(Classification{Numeric: []string{"Vehicles"}, Categorical: []string{"Weather"}})

	require.Len(t, p.Routes, 2)
	assert.Equal(t, KindStandardize, p.Routes[0].Kind)
	assert.Equal(t, KindOneHot, p.Routes[1].Kind)
	assert.False(t, p.Fitted())
	assert.False(t, p.Routes[0].Scaler.Fitted())
	assert.False(t, p.Routes[1].OneHot.Fitted())

	_, err := p.Transform(featureTable())
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestPlan_FitTransform(t *testing.T) {
	tbl := featureTable()
	c, err := Classify(tbl)
	require.NoError(t, err)
	p := BuildPlan(c)

	m, err := p.FitTransform(tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"num__Vehicles",
		"num__Age_clean",
		"cat__Weather_Clear",
		"cat__Weather_Rain",
	}, m.Names)
	rows, cols := m.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)

	// Vehicles mean 2, population std sqrt(2/3).
	sd := math.Sqrt(2.0 / 3.0)
	assert.InDelta(t, -1/sd, m.Rows[0][0], 1e-9)
	assert.InDelta(t, 0, m.Rows[1][0], 1e-9)
	assert.InDelta(t, 1/sd, m.Rows[2][0], 1e-9)
	assert.True(t, math.IsNaN(m.Rows[3][0]))

	// Constant column scales by 1.
	for i := range m.Rows {
		assert.InDelta(t, 0, m.Rows[i][1], 0)
	}

	assert.Equal(t, []float64{0, 1}, m.Rows[0][2:])
	assert.Equal(t, []float64{1, 0}, m.Rows[1][2:])
	assert.Equal(t, []float64{0, 0}, m.Rows[3][2:], "null encodes to zeros")
}

func TestPlan_IgnoresUnknownCategories(t *testing.T) {
	train := frame.MustNew(frame.NewColumn("Road", frame.String, []frame.Value{
		frame.StringValue("Urban"), frame.StringValue("Rural"),
	}))
	test := frame.MustNew(frame.NewColumn("Road", frame.String, []frame.Value{
		frame.StringValue("Highway"), frame.StringValue("Urban"),
	}))

	p := BuildPlan(Classification{Categorical: []string{"Road"}})
	require.NoError(t, p.Fit(train))

	m, err := p.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat__Road_Rural", "cat__Road_Urban"}, m.Names)
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}}, m.Rows)
}

func TestPlan_MissingColumn(t *testing.T) {
	p := BuildPlan(Classification{Numeric: []string{"Nope"}})
	require.Error(t, p.Fit(featureTable()))
	assert.False(t, p.Fitted())
}

func TestPlan_RefitLeavesParametersOnMissingColumn(t *testing.T) {
	p := BuildPlan(Classification{Numeric: []string{"Vehicles"}, Categorical: []string{"Weather"}})
	require.NoError(t, p.Fit(featureTable()))
	require.InDelta(t, 2, p.Routes[0].Scaler.Mean, 1e-12)

	partial := frame.MustNew(frame.NewColumn("Vehicles", frame.Int, []frame.Value{
		frame.IntValue(10), frame.IntValue(30),
	}))
	err := p.Fit(partial)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns not found: Weather")

	assert.True(t, p.Fitted())
	assert.InDelta(t, 2, p.Routes[0].Scaler.Mean, 1e-12, "earlier route was not refitted")
	assert.Equal(t, []string{"Clear", "Rain"}, p.Routes[1].OneHot.Categories)
}

package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(vs ...int64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = IntValue(v)
	}
	return out
}

func strs(vs ...string) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = StringValue(v)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cols      []*Column
		errSubstr string
	}{
		{
			name: "ok",
			cols: []*Column{NewColumn("a", Int, ints(1, 2)), NewColumn("b", String, strs("x", "y"))},
		},
		{
			name:      "length mismatch",
			cols:      []*Column{NewColumn("a", Int, ints(1, 2)), NewColumn("b", String, strs("x"))},
			errSubstr: "has 1 rows, table has 2",
		},
		{
			name:      "duplicate name",
			cols:      []*Column{NewColumn("a", Int, ints(1)), NewColumn("a", Int, ints(2))},
			errSubstr: "duplicate column",
		},
		{
			name:      "empty name",
			cols:      []*Column{NewColumn(" ", Int, ints(1))},
			errSubstr: "must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.cols...)
			if tt.errSubstr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			rows, width := tbl.Shape()
			assert.Equal(t, 2, rows)
			assert.Equal(t, 2, width)
		})
	}
}

func TestTable_DropSelectTake(t *testing.T) {
	tbl := MustNew(
		NewColumn("a", Int, ints(1, 2, 3)),
		NewColumn("b", String, strs("x", "y", "z")),
		NewColumn("c", Float, []Value{FloatValue(0.5), Null(), FloatValue(2)}),
	)

	dropped := tbl.DropColumns("b", "missing")
	assert.Equal(t, []string{"a", "c"}, dropped.Names())
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Names(), "receiver must be unchanged")

	sel, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Names())

	_, err = tbl.Select("nope")
	require.Error(t, err)

	sub := tbl.Take([]int{2, 0})
	assert.Equal(t, 2, sub.Rows())
	b, _ := sub.Column("b")
	assert.Equal(t, "z", b.Values[0].Format())
	assert.Equal(t, "x", b.Values[1].Format())
}

func TestTable_RowKey(t *testing.T) {
	tbl := MustNew(
		NewColumn("a", Int, ints(1, 2, 1, 1)),
		NewColumn("b", String, []Value{StringValue("x"), StringValue("y"), StringValue("x"), Null()}),
	)
	assert.Equal(t, tbl.RowKey(0), tbl.RowKey(2))
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(3), "null differs from a value")
}

func TestRowKey_NoSeparatorCollision(t *testing.T) {
	tbl := MustNew(
		NewColumn("a", String, strs("x\x1fy", "x")),
		NewColumn("b", String, strs("z", "y\x1fz")),
	)
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))
}

func TestValue_Format(t *testing.T) {
	ts := time.Date(2023, 5, 7, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"int", IntValue(-4), "-4"},
		{"whole float", FloatValue(45), "45"},
		{"fraction", FloatValue(37.5), "37.5"},
		{"nan is null", FloatValue(math.NaN()), ""},
		{"string", StringValue("Rain"), "Rain"},
		{"datetime", TimeValue(ts, true), "2023-05-07 14:30:00"},
		{"date", TimeValue(ts, false), "2023-05-07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Format())
		})
	}
}

func TestValue_Conversions(t *testing.T) {
	i, ok := FloatValue(3).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	_, ok = FloatValue(3.5).Int()
	assert.False(t, ok)

	f, ok := IntValue(7).Float()
	assert.True(t, ok)
	assert.InDelta(t, 7.0, f, 0)

	_, ok = StringValue("7").Float()
	assert.False(t, ok)

	assert.Nil(t, Null().Any())
	assert.Equal(t, Unknown, Null().Kind())
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"int", Int, false},
		{"Integer", Int, false},
		{"float64", Float, false},
		{"category", String, false},
		{"datetime", Time, false},
		{"", Unknown, false},
		{"blob", Unknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

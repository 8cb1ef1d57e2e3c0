package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/accidentprep/internal/testutil"
	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

const sampleCSV = `Date,Driver Age,Weather,Speed,Simple Injuries
2023-05-07 14:30:00,45,Rain,60.5,0
2023-05-08 09:00:00,NA,Clear,,1
2023-05-09,17,,80,2
`

func TestReadCSV_InfersTypes(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV), Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	rows, width := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 5, width)

	want := map[string]frame.Type{
		"Date":            frame.String,
		"Driver Age":      frame.Int,
		"Weather":         frame.String,
		"Speed":           frame.Float,
		"Simple Injuries": frame.Int,
	}
	for name, typ := range want {
		col, ok := tbl.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, typ, col.Type, name)
	}

	age, _ := tbl.Column("Driver Age")
	assert.Equal(t, 1, age.NullCount())
	weather, _ := tbl.Column("Weather")
	assert.Equal(t, 1, weather.NullCount())
}

func TestReadCSV_DeclaredSchema(t *testing.T) {
	opts := Options{
		Schema: frame.Schema{
			{Name: "Driver Age", Type: frame.Float},
			{Name: "Simple Injuries", Type: frame.String},
			{Name: "Date", Type: frame.Time},
		},
	}
	tbl, err := ReadCSV(strings.NewReader(sampleCSV), opts)
	require.NoError(t, err)

	age, _ := tbl.Column("Driver Age")
	assert.Equal(t, frame.Float, age.Type)
	inj, _ := tbl.Column("Simple Injuries")
	assert.Equal(t, frame.String, inj.Type)

	date, _ := tbl.Column("Date")
	assert.Equal(t, frame.Time, date.Type)
	_, clock, ok := date.Values[2].Time()
	require.True(t, ok)
	assert.False(t, clock)
}

func TestReadCSV_CoercesUnparseableDeclaredNumbers(t *testing.T) {
	in := "Driver Age\n30\nunknown\n"
	tbl, err := ReadCSV(strings.NewReader(in), Options{Schema: frame.Schema{{Name: "Driver Age", Type: frame.Int}}})
	require.NoError(t, err)
	age, _ := tbl.Column("Driver Age")
	assert.Equal(t, 1, age.NullCount())
}

func TestReadCSV_AllNullColumnType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  frame.Type
	}{
		{name: "blank cells read as float", input: "a,b\n1,\n2,NA\n", want: frame.Float},
		{name: "header only stays unknown", input: "a,b\n", want: frame.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.input), Options{})
			require.NoError(t, err)
			b, ok := tbl.Column("b")
			require.True(t, ok)
			assert.Equal(t, tt.want, b.Type)
			assert.Equal(t, b.Len(), b.NullCount())
		})
	}
}

func TestReadCSV_NamesBlankHeaders(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b,\n1,2,\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "Unnamed: 2"}, tbl.Names())
	extra, _ := tbl.Column("Unnamed: 2")
	assert.Equal(t, frame.Float, extra.Type)
	assert.Equal(t, 1, extra.NullCount())
}

func TestReadCSV_IntegralBeyondInt64(t *testing.T) {
	tests := []struct {
		name  string
		input string
		nulls int
	}{
		{name: "exponent within range", input: "n\n1e3\n", nulls: 0},
		{name: "above int64", input: "n\n1e19\n", nulls: 1},
		{name: "below int64", input: "n\n-1e19\n", nulls: 1},
		{name: "fractional", input: "n\n2.5\n", nulls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.input), Options{Schema: frame.Schema{{Name: "n", Type: frame.Int}}})
			require.NoError(t, err)
			n, _ := tbl.Column("n")
			assert.Equal(t, frame.Int, n.Type)
			assert.Equal(t, tt.nulls, n.NullCount())
		})
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		errSubstr string
	}{
		{name: "empty", input: "", errSubstr: "no header"},
		{name: "ragged", input: "a,b\n1,2\n3\n", errSubstr: "wrong number of fields"},
		{name: "duplicate header", input: "a,a\n1,2\n", errSubstr: "duplicate header"},
		{name: "bad quote", input: "a,b\n\"1,2\n", errSubstr: "load error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrLoad)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}

func TestLoad_Dispatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	csvPath := filepath.Join(dir, "accidents.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))
	tbl, err := Load(ctx, csvPath, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Rows())

	_, err = Load(ctx, filepath.Join(dir, "missing.csv"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrLoad)

	_, err = Load(ctx, filepath.Join(dir, "data.parquet"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrLoad)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accidents.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Date", "Driver Age", "Weather"},
		{"2023-05-07 14:30:00", 45, "Rain"},
		{"2023-05-08 09:00:00", 30},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())

	age, _ := tbl.Column("Driver Age")
	assert.Equal(t, frame.Int, age.Type)
	weather, _ := tbl.Column("Weather")
	assert.True(t, weather.Values[1].IsNull(), "short row is padded with nulls")
}

// Package clean turns a raw accident table into the cleaned table: exact
// duplicates removed, the date split into calendar fields, the driver age
// repaired, the outcome label derived and leakage columns dropped.
//
// Every step is a separate function so the pipeline can report and fail
// per step. Failures wrap core.ErrDerive.
package clean

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// Calendar column names added by DecomposeDate.
const (
	YearColumn      = "Year"
	MonthColumn     = "Month"
	DayOfWeekColumn = "DayOfWeek"
	HourColumn      = "Hour"
)

// Columns names the source and derived columns the cleaner works with.
type Columns struct {
	Date     string   `koanf:"date" json:"date" yaml:"date"`
	Age      string   `koanf:"age" json:"age" yaml:"age"`
	AgeClean string   `koanf:"age_clean" json:"age_clean" yaml:"age_clean"`
	Label    string   `koanf:"label" json:"label" yaml:"label"`
	Severity []string `koanf:"severity" json:"severity" yaml:"severity"`
}

// DefaultColumns returns the column names of the accident dataset.
func DefaultColumns() Columns {
	return Columns{
		Date:     "Date",
		Age:      "Driver Age",
		AgeClean: "Driver Age Clean",
		Label:    "Injury_or_Death",
		Severity: []string{"Simple Injuries", "Medium Injuries", "Severe Injuries", "Death"},
	}
}

// Leakage returns the columns removed after the label is derived: the
// severity sources, the original date and the original age.
func (c Columns) Leakage() []string {
	out := make([]string, 0, len(c.Severity)+2)
	out = append(out, c.Severity...)
	return append(out, c.Date, c.Age)
}

// SeverityPolicy decides the label of a row whose severity values are all
// missing.
type SeverityPolicy string

const (
	// SeverityStrict fails the derivation on an all-missing row.
	SeverityStrict SeverityPolicy = "error"
	// SeverityZero labels an all-missing row 0.
	SeverityZero SeverityPolicy = "zero"
)

// Options configures the cleaner.
type Options struct {
	Columns     Columns
	AgeMin      float64
	AgeMax      float64
	TimeLayouts []frame.TimeLayout
	Severity    SeverityPolicy
	Logger      *slog.Logger
}

// DefaultOptions returns the accident dataset defaults: ages 16 to 90 and the
// strict severity policy.
func DefaultOptions() Options {
	return Options{
		Columns:     DefaultColumns(),
		AgeMin:      16,
		AgeMax:      90,
		TimeLayouts: frame.DefaultTimeLayouts,
		Severity:    SeverityStrict,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// reserve fails when t already holds a column the cleaner derives, so an
// input column is never silently replaced.
func reserve(t *frame.Table, names ...string) error {
	var taken []string
	for _, name := range names {
		if t.HasColumn(name) {
			taken = append(taken, name)
		}
	}
	if len(taken) > 0 {
		return fmt.Errorf("%w: input already has derived column %s; rename or drop it in the source",
			core.ErrDerive, strings.Join(taken, ", "))
	}
	return nil
}

// Result reports what the row-level cleaning steps changed.
type Result struct {
	DuplicatesRemoved int     `json:"duplicates_removed" yaml:"duplicates_removed"`
	UnparseableDates  int     `json:"unparseable_dates" yaml:"unparseable_dates"`
	InvalidAges       int     `json:"invalid_ages" yaml:"invalid_ages"`
	AgeMedian         float64 `json:"age_median" yaml:"age_median"`
}

// Clean runs deduplication, date decomposition and age repair in that order.
// The returned table is new; t is left untouched.
func Clean(t *frame.Table, opts Options) (*frame.Table, Result, error) {
	log := opts.logger()
	var res Result

	out, removed := Deduplicate(t)
	res.DuplicatesRemoved = removed
	log.Debug("deduplicated", "removed", removed, "rows", out.Rows())

	bad, err := DecomposeDate(out, opts.Columns.Date, opts.TimeLayouts)
	if err != nil {
		return nil, res, err
	}
	res.UnparseableDates = bad
	log.Debug("decomposed date", "column", opts.Columns.Date, "unparseable", bad)

	repair, err := RepairAge(out, opts.Columns.Age, opts.Columns.AgeClean, opts.AgeMin, opts.AgeMax)
	if err != nil {
		return nil, res, err
	}
	res.InvalidAges = repair.Invalid
	res.AgeMedian = repair.Median
	log.Debug("repaired age", "column", opts.Columns.AgeClean, "invalid", repair.Invalid, "median", repair.Median)

	return out, res, nil
}

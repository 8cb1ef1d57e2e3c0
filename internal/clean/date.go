package clean

import (
	"fmt"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// DecomposeDate parses the date column and adds Year, Month, DayOfWeek
// (Monday=0 .. Sunday=6) and Hour integer columns to t in place. It fails
// when t already has any of them.
// Unparseable or missing dates yield nulls in all four columns; Hour is also
// null when the date carries no time of day. It returns the number of
// non-null dates that could not be parsed.
func DecomposeDate(t *frame.Table, column string, layouts []frame.TimeLayout) (int, error) {
	src, ok := t.Column(column)
	if !ok {
		return 0, fmt.Errorf("%w: date column %q not found", core.ErrDerive, column)
	}
	if err := reserve(t, YearColumn, MonthColumn, DayOfWeekColumn, HourColumn); err != nil {
		return 0, err
	}
	if len(layouts) == 0 {
		layouts = frame.DefaultTimeLayouts
	}

	n := t.Rows()
	year := make([]frame.Value, n)
	month := make([]frame.Value, n)
	dow := make([]frame.Value, n)
	hour := make([]frame.Value, n)
	unparseable := 0

	for i, v := range src.Values {
		if v.IsNull() {
			continue
		}
		parsed := v
		if v.Kind() != frame.Time {
			parsed = frame.ParseTime(v.Format(), layouts)
		}
		ts, clock, ok := parsed.Time()
		if !ok {
			unparseable++
			continue
		}
		year[i] = frame.IntValue(int64(ts.Year()))
		month[i] = frame.IntValue(int64(ts.Month()))
		dow[i] = frame.IntValue(int64((int(ts.Weekday()) + 6) % 7))
		if clock {
			hour[i] = frame.IntValue(int64(ts.Hour()))
		}
	}

	for _, c := range []*frame.Column{
		frame.NewColumn(YearColumn, frame.Int, year),
		frame.NewColumn(MonthColumn, frame.Int, month),
		frame.NewColumn(DayOfWeekColumn, frame.Int, dow),
		frame.NewColumn(HourColumn, frame.Int, hour),
	} {
		if err := t.AddColumn(c); err != nil {
			return 0, fmt.Errorf("%w: %w", core.ErrDerive, err)
		}
	}
	return unparseable, nil
}

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in        string
		wantNull  bool
		wantClock bool
		wantHour  int
	}{
		{in: "2023-05-07 14:30:00", wantClock: true, wantHour: 14},
		{in: "2023-05-07T08:15:00Z", wantClock: true, wantHour: 8},
		{in: "2023-05-07", wantClock: false},
		{in: "5/7/2023 9:05", wantClock: true, wantHour: 9},
		{in: "5/7/2023 9:05 PM", wantClock: true, wantHour: 21},
		{in: "not a date", wantNull: true},
		{in: "  ", wantNull: true},
		{in: "2023-13-40", wantNull: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseTime(tt.in, DefaultTimeLayouts)
			if tt.wantNull {
				assert.True(t, v.IsNull())
				return
			}
			ts, clock, ok := v.Time()
			require.True(t, ok)
			assert.Equal(t, tt.wantClock, clock)
			assert.Equal(t, tt.wantHour, ts.Hour())
		})
	}
}

func TestLayoutsFrom(t *testing.T) {
	layouts := LayoutsFrom([]string{"02.01.2006 15:04", "02.01.2006"})
	require.Len(t, layouts, 2)
	assert.True(t, layouts[0].Clock)
	assert.False(t, layouts[1].Clock)

	v := ParseTime("07.05.2023", layouts)
	ts, clock, ok := v.Time()
	require.True(t, ok)
	assert.False(t, clock)
	assert.Equal(t, 2023, ts.Year())
}

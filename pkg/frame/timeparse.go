package frame

import (
	"strings"
	"time"
)

// TimeLayout is a time.Parse layout and whether it carries a time of day.
type TimeLayout struct {
	Layout string
	Clock  bool
}

// DefaultTimeLayouts are tried in order when parsing date/time text.
var DefaultTimeLayouts = []TimeLayout{
	{Layout: time.RFC3339Nano, Clock: true},
	{Layout: "2006-01-02T15:04:05", Clock: true},
	{Layout: "2006-01-02 15:04:05", Clock: true},
	{Layout: "2006-01-02 15:04", Clock: true},
	{Layout: "2006-01-02", Clock: false},
	{Layout: "2006/01/02 15:04:05", Clock: true},
	{Layout: "2006/01/02 15:04", Clock: true},
	{Layout: "2006/01/02", Clock: false},
	{Layout: "1/2/2006 15:04:05", Clock: true},
	{Layout: "1/2/2006 15:04", Clock: true},
	{Layout: "1/2/2006 3:04 PM", Clock: true},
	{Layout: "1/2/2006", Clock: false},
}

// LayoutsFrom builds TimeLayouts from plain layout strings. A layout is
// treated as having a clock part when it contains an hour directive.
func LayoutsFrom(layouts []string) []TimeLayout {
	out := make([]TimeLayout, 0, len(layouts))
	for _, l := range layouts {
		clock := strings.Contains(l, "15") || strings.Contains(l, "03") || strings.Contains(l, "3:")
		out = append(out, TimeLayout{Layout: l, Clock: clock})
	}
	return out
}

// ParseTime parses s with the first matching layout. The returned Value is
// null when s is empty or no layout matches.
func ParseTime(s string, layouts []TimeLayout) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null()
	}
	for _, l := range layouts {
		if t, err := time.Parse(l.Layout, s); err == nil {
			return TimeValue(t, l.Clock)
		}
	}
	return Null()
}

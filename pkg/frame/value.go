package frame

import (
	"math"
	"strconv"
	"time"
)

// Layouts used when rendering Time values.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// Value is a nullable scalar cell. The zero Value is null.
type Value struct {
	kind  Type
	valid bool
	i     int64
	f     float64
	s     string
	t     time.Time
	clock bool
}

// Null returns a null value.
func Null() Value { return Value{} }

// IntValue returns a non-null integer value.
func IntValue(v int64) Value { return Value{kind: Int, valid: true, i: v} }

// FloatValue returns a float value. NaN is stored as null.
func FloatValue(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{kind: Float, valid: true, f: v}
}

// StringValue returns a non-null string value.
func StringValue(v string) Value { return Value{kind: String, valid: true, s: v} }

// TimeValue returns a non-null time value. clock records whether the source
// carried a time-of-day component.
func TimeValue(v time.Time, clock bool) Value {
	return Value{kind: Time, valid: true, t: v, clock: clock}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return !v.valid }

// Kind returns the type of a non-null value, or Unknown for null.
func (v Value) Kind() Type {
	if !v.valid {
		return Unknown
	}
	return v.kind
}

// Int returns the value as an integer. Floats are accepted only when whole.
func (v Value) Int() (int64, bool) {
	if !v.valid {
		return 0, false
	}
	switch v.kind {
	case Int:
		return v.i, true
	case Float:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < 1<<63 {
			return int64(v.f), true
		}
	}
	return 0, false
}

// Float returns the value as a float64 for numeric kinds.
func (v Value) Float() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Float:
		return v.f, true
	}
	return 0, false
}

// Str returns the raw string of a String value.
func (v Value) Str() (string, bool) {
	if !v.valid || v.kind != String {
		return "", false
	}
	return v.s, true
}

// Time returns the time of a Time value and whether it had a clock part.
func (v Value) Time() (t time.Time, clock bool, ok bool) {
	if !v.valid || v.kind != Time {
		return time.Time{}, false, false
	}
	return v.t, v.clock, true
}

// Format renders the value for tabular output. Null renders as "".
// Floats use the shortest representation that round-trips.
func (v Value) Format() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case String:
		return v.s
	case Time:
		if v.clock {
			return v.t.Format(DateTimeLayout)
		}
		return v.t.Format(DateLayout)
	}
	return ""
}

// Any returns the value as a plain Go value suitable for database/sql
// arguments and JSON encoding. Null returns nil.
func (v Value) Any() any {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Time:
		return v.t
	}
	return nil
}

// key is the identity used for exact-duplicate detection.
func (v Value) key() string {
	if !v.valid {
		return "~"
	}
	switch v.kind {
	case String:
		return "s" + strconv.Quote(v.s)
	case Time:
		return "t" + strconv.FormatInt(v.t.UnixNano(), 10)
	case Float:
		// whole floats share identity with the equal integer
		if i, ok := v.Int(); ok {
			return "n" + strconv.FormatInt(i, 10)
		}
		return "f" + strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return "n" + strconv.FormatInt(v.i, 10)
	}
}

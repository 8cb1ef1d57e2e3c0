package frame

import (
	"fmt"
	"strings"
)

// Type is the declared value type of a column.
type Type int

// Column types.
const (
	// Unknown marks a column whose type was neither declared nor inferable,
	// typically because every cell is null.
	Unknown Type = iota
	Int
	Float
	String
	Time
)

// String returns the schema name of the type.
func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this type are integers or floats.
func (t Type) IsNumeric() bool {
	return t == Int || t == Float
}

// ParseType converts a schema name to a Type. Common aliases are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "int64", "integer":
		return Int, nil
	case "float", "float64", "double", "number":
		return Float, nil
	case "string", "str", "text", "object", "category", "categorical":
		return String, nil
	case "time", "date", "datetime", "timestamp":
		return Time, nil
	case "", "unknown":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown column type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Field is one entry of a Schema.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// Schema is an ordered list of column names and types.
type Schema []Field

// Lookup returns the type declared for name.
func (s Schema) Lookup(name string) (Type, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Unknown, false
}

// Names returns the field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

package frame

import (
	"fmt"
	"strings"
)

// Column is a named, typed sequence of nullable values.
type Column struct {
	Name   string
	Type   Type
	Values []Value
}

// NewColumn creates a column.
func NewColumn(name string, typ Type, values []Value) *Column {
	return &Column{Name: name, Type: typ, Values: values}
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// Floats returns the non-null numeric cells as float64, in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Table is an ordered collection of columns with a shared row count.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a table from columns. All columns must have the same length and
// distinct, non-empty names.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Width returns the column count.
func (t *Table) Width() int { return len(t.cols) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.rows, len(t.cols) }

// Names returns column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are
// shared.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// HasColumn reports whether a column named name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddColumn appends a column in place.
func (t *Table) AddColumn(c *Column) error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column name must not be empty")
	}
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// DropColumns returns a table without the named columns. Unknown names are
// ignored. Columns are shared with the receiver.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &Table{index: make(map[string]int, len(t.cols)), rows: t.rows}
	for _, c := range t.cols {
		if drop[c.Name] {
			continue
		}
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out
}

// Select returns a table containing only the named columns, in the given
// order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{index: make(map[string]int, len(names)), rows: t.rows}
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("column %q not found", n)
		}
		if _, dup := out.index[n]; dup {
			return nil, fmt.Errorf("duplicate column %q", n)
		}
		out.index[n] = len(out.cols)
		out.cols = append(out.cols, c)
	}
	return out, nil
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{index: make(map[string]int, len(t.cols)), rows: len(rows)}
	for _, c := range t.cols {
		vals := make([]Value, len(rows))
		for j, r := range rows {
			vals[j] = c.Values[r]
		}
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, NewColumn(c.Name, c.Type, vals))
	}
	return out
}

// RowKey returns a string identifying the full content of row i. Two rows
// have equal keys exactly when every cell is equal, nulls included.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.cols {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(c.Values[i].key())
	}
	return b.String()
}

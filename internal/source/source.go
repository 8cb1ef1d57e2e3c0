// Package source loads raw record tables from CSV and XLSX files.
//
// Loading is all-or-nothing: any read or parse failure returns an error
// wrapping core.ErrLoad and no table.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// DefaultNullTokens are the cell texts read as missing values.
var DefaultNullTokens = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "NULL", "null", "None", "#N/A", "<NA>",
}

// Options controls how a source is read and typed.
type Options struct {
	// Schema declares column types. Undeclared columns are inferred.
	Schema frame.Schema
	// Sheet selects the XLSX sheet. Empty means the first sheet.
	Sheet string
	// NullTokens overrides DefaultNullTokens when non-nil.
	NullTokens []string
	// TimeLayouts parses columns declared as time. Defaults to
	// frame.DefaultTimeLayouts.
	TimeLayouts []frame.TimeLayout
	Logger      *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Load reads the file at path, choosing the reader by extension.
func Load(ctx context.Context, path string, opts Options) (*frame.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	opts.logger().Debug("loading source", "path", path, "format", ext)

	switch ext {
	case ".csv", ".txt", "":
		f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrLoad, err)
		}
		defer func() { _ = f.Close() }()
		t, err := ReadCSV(f, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return t, nil
	case ".xlsx", ".xlsm":
		t, err := ReadXLSX(path, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file extension %q (want .csv or .xlsx)", core.ErrLoad, ext)
	}
}

// Build types raw string records into a table. header names the columns and
// every record must have len(header) fields.
func Build(header []string, records [][]string, opts Options) (*frame.Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: missing header row", core.ErrLoad)
	}

	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			// spreadsheet exports often end the header with a separator
			h = fmt.Sprintf("Unnamed: %d", i)
			opts.logger().Warn("named blank header column", "index", i, "name", h)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate header %q", core.ErrLoad, h)
		}
		seen[h] = true
		header[i] = h
	}

	for i, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: record %d has %d fields, header has %d",
				core.ErrLoad, i+1, len(rec), len(header))
		}
	}

	nulls := opts.NullTokens
	if nulls == nil {
		nulls = DefaultNullTokens
	}
	isNull := make(map[string]bool, len(nulls))
	for _, n := range nulls {
		isNull[n] = true
	}

	layouts := opts.TimeLayouts
	if len(layouts) == 0 {
		layouts = frame.DefaultTimeLayouts
	}

	cols := make([]*frame.Column, len(header))
	for j, name := range header {
		raw := make([]string, len(records))
		present := make([]bool, len(records))
		for i, rec := range records {
			cell := strings.TrimSpace(rec[j])
			raw[i] = cell
			present[i] = !isNull[cell]
		}

		typ, declared := opts.Schema.Lookup(name)
		if !declared || typ == frame.Unknown {
			typ = infer(raw, present)
		}
		if typ == frame.Unknown && len(records) > 0 {
			// a blank column in a non-empty table reads as missing numbers
			typ = frame.Float
			opts.logger().Debug("typed blank column as float", "column", name)
		}

		values, coerced := convert(raw, present, typ, layouts)
		if coerced > 0 {
			opts.logger().Warn("coerced unparseable cells to null",
				"column", name, "type", typ.String(), "cells", coerced)
		}
		cols[j] = frame.NewColumn(name, typ, values)
	}

	t, err := frame.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrLoad, err)
	}
	return t, nil
}

// infer picks the narrowest type that accepts every present cell. A column
// without any present cell is Unknown.
func infer(raw []string, present []bool) frame.Type {
	seen, allInt, allFloat := false, true, true
	for i, s := range raw {
		if !present[i] {
			continue
		}
		seen = true
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if !allInt && allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			return frame.String
		}
	}
	switch {
	case !seen:
		return frame.Unknown
	case allInt:
		return frame.Int
	default:
		return frame.Float
	}
}

// convert turns present cells into values of typ. It returns the number of
// present cells that could not be parsed and were nulled.
func convert(raw []string, present []bool, typ frame.Type, layouts []frame.TimeLayout) ([]frame.Value, int) {
	values := make([]frame.Value, len(raw))
	coerced := 0
	for i, s := range raw {
		if !present[i] {
			continue
		}
		switch typ {
		case frame.Int:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				values[i] = frame.IntValue(n)
			} else if f, err := strconv.ParseFloat(s, 64); err == nil && math.Abs(f) < 1<<63 && f == math.Trunc(f) {
				values[i] = frame.IntValue(int64(f))
			} else {
				coerced++
			}
		case frame.Float:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				values[i] = frame.FloatValue(f)
			} else {
				coerced++
			}
		case frame.Time:
			v := frame.ParseTime(s, layouts)
			if v.IsNull() {
				coerced++
			}
			values[i] = v
		default:
			values[i] = frame.StringValue(s)
		}
	}
	return values, coerced
}

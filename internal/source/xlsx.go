package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// ReadXLSX reads one worksheet of an Excel workbook. The first row is the
// header. Trailing empty cells, which excelize omits, are padded.
func ReadXLSX(path string, opts Options) (*frame.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", core.ErrLoad, err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrLoad)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", core.ErrLoad, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty, no header row", core.ErrLoad, sheet)
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: sheet %q row %d has %d cells, header has %d",
				core.ErrLoad, sheet, i+2, len(row), len(header))
		}
		rec := make([]string, len(header))
		copy(rec, row)
		records = append(records, rec)
	}

	opts.logger().Debug("read xlsx", "sheet", sheet, "columns", len(header), "records", len(records))
	return Build(header, records, opts)
}

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// ReadCSV reads a comma-separated table with a header row.
func ReadCSV(r io.Reader, opts Options) (*frame.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input, no header row", core.ErrLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", core.ErrLoad, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	// ReuseRecord is off, so the header slice stays ours.
	header = append([]string(nil), header...)

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrLoad, err)
		}
		records = append(records, rec)
	}

	opts.logger().Debug("read csv", "columns", len(header), "records", len(records))
	return Build(header, records, opts)
}

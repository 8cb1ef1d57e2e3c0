package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

func init() {
	Register("csv", func(cfg Config, logger *slog.Logger) (Sink, error) {
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w: csv sink needs a path", core.ErrWrite)
		}
		return NewCSV(cfg.Path, logger), nil
	})
}

// CSVSink writes a header row followed by one line per row, without an
// index column. Nulls are empty cells.
type CSVSink struct {
	Path   string
	Logger *slog.Logger
}

// NewCSV returns a sink writing to path. A nil logger uses a discard logger.
func NewCSV(path string, logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CSVSink{Path: path, Logger: logger}
}

// Location returns the destination path.
func (s *CSVSink) Location() string { return s.Path }

// Close is a no-op.
func (s *CSVSink) Close() error { return nil }

// Write encodes t into a temporary file next to the destination and renames
// it into place.
func (s *CSVSink) Write(ctx context.Context, t *frame.Table) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := encodeCSV(tmp, t); err != nil {
		return fmt.Errorf("%w: encode %s: %w", core.ErrWrite, s.Path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}
	if err := tmp.Chmod(outputMode(s.Path)); err != nil {
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("%w: %w", core.ErrWrite, err)
	}

	s.Logger.Debug("wrote csv", slog.String("path", s.Path), slog.Int("rows", t.Rows()))
	return nil
}

// outputMode keeps the permissions of an existing destination. New files get
// 0644; CreateTemp would otherwise leave them readable by the owner only.
func outputMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0o644
}

func encodeCSV(f *os.File, t *frame.Table) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.Names()); err != nil {
		return err
	}
	cols := t.Columns()
	record := make([]string, len(cols))
	for i := range t.Rows() {
		for j, c := range cols {
			record[j] = c.Values[i].Format()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

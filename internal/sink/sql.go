package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// Dialect captures the per-database differences of the SQL sinks.
type Dialect struct {
	Name string
	// Placeholder returns the bind marker for the 1-based parameter n.
	Placeholder func(n int) string
	// ColumnType maps a frame type to a column type.
	ColumnType func(t frame.Type) string
	// Bind converts a cell to a driver argument. Nil uses Value.Any.
	Bind func(v frame.Value) any
}

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SQLSink replaces a database table with the contents of a frame. The drop,
// create and inserts run in one transaction.
type SQLSink struct {
	DB      *sql.DB
	Table   string
	Dialect Dialect
	Logger  *slog.Logger
	// Target is reported by Location; DSNs are never reported.
	Target string
}

// NewSQL wraps an open database. A nil logger uses a discard logger.
func NewSQL(db *sql.DB, table string, d Dialect, target string, logger *slog.Logger) *SQLSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if table == "" {
		table = DefaultTable
	}
	return &SQLSink{DB: db, Table: table, Dialect: d, Logger: logger, Target: target}
}

// Location returns "<target>#<table>".
func (s *SQLSink) Location() string { return s.Target + "#" + s.Table }

// Close closes the database connection.
func (s *SQLSink) Close() error {
	if s.DB == nil {
		return nil
	}
	s.Logger.Debug("closing database connection", slog.String("dialect", s.Dialect.Name))
	return s.DB.Close()
}

// CreateStatement returns the CREATE TABLE statement for t.
func (s *SQLSink) CreateStatement(t *frame.Table) string {
	defs := make([]string, 0, t.Width())
	for _, c := range t.Columns() {
		defs = append(defs, quoteIdent(c.Name)+" "+s.Dialect.ColumnType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(s.Table), strings.Join(defs, ", "))
}

// InsertStatement returns the parameterized INSERT statement for t.
func (s *SQLSink) InsertStatement(t *frame.Table) string {
	names := make([]string, 0, t.Width())
	marks := make([]string, 0, t.Width())
	for i, c := range t.Columns() {
		names = append(names, quoteIdent(c.Name))
		marks = append(marks, s.Dialect.Placeholder(i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.Table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// Write replaces the table with t.
func (s *SQLSink) Write(ctx context.Context, t *frame.Table) (err error) {
	if s.DB == nil {
		return fmt.Errorf("%w: database connection not established", core.ErrWrite)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", core.ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	//nolint:gosec // identifiers are quoted
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(s.Table)); err != nil {
		return fmt.Errorf("%w: drop %s: %w", core.ErrWrite, s.Table, err)
	}
	if _, err := tx.ExecContext(ctx, s.CreateStatement(t)); err != nil {
		return fmt.Errorf("%w: create %s: %w", core.ErrWrite, s.Table, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.InsertStatement(t))
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", core.ErrWrite, err)
	}
	defer func() { _ = stmt.Close() }()

	bind := s.Dialect.Bind
	if bind == nil {
		bind = frame.Value.Any
	}
	cols := t.Columns()
	args := make([]any, len(cols))
	for i := range t.Rows() {
		for j, c := range cols {
			args[j] = bind(c.Values[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert row %d: %w", core.ErrWrite, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", core.ErrWrite, err)
	}
	s.Logger.Debug("replaced table",
		slog.String("dialect", s.Dialect.Name),
		slog.String("table", s.Table),
		slog.Int("rows", t.Rows()))
	return nil
}

package sink

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DuckDB dialect.
var DuckDB = Dialect{
	Name:        "duckdb",
	Placeholder: questionMark,
	ColumnType:  standardColumnType("DOUBLE", "VARCHAR"),
}

func init() {
	Register("duckdb", func(cfg Config, logger *slog.Logger) (Sink, error) {
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		db, err := sql.Open("duckdb", path)
		if err != nil {
			return nil, fmt.Errorf("%w: open duckdb: %w", core.ErrWrite, err)
		}
		return NewSQL(db, cfg.Table, DuckDB, path, logger), nil
	})
}

func standardColumnType(float, text string) func(frame.Type) string {
	return func(t frame.Type) string {
		switch t {
		case frame.Int:
			return "BIGINT"
		case frame.Float:
			return float
		case frame.Time:
			return "TIMESTAMP"
		default:
			return text
		}
	}
}

package sink

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/accidentprep/pkg/core"
	"github.com/leapstack-labs/accidentprep/pkg/frame"

	_ "modernc.org/sqlite" // sqlite driver
)

// SQLite stores times as text in the same layout the csv sink uses.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: questionMark,
	ColumnType: func(t frame.Type) string {
		switch t {
		case frame.Int:
			return "INTEGER"
		case frame.Float:
			return "REAL"
		default:
			return "TEXT"
		}
	},
	Bind: func(v frame.Value) any {
		if v.Kind() == frame.Time && !v.IsNull() {
			return v.Format()
		}
		return v.Any()
	},
}

func init() {
	Register("sqlite", func(cfg Config, logger *slog.Logger) (Sink, error) {
		path := cfg.Path
		if path == "" {
			return nil, fmt.Errorf("%w: sqlite sink needs a path", core.ErrWrite)
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("%w: open sqlite: %w", core.ErrWrite, err)
		}
		return NewSQL(db, cfg.Table, SQLite, path, logger), nil
	})
}

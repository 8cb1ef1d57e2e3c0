package sink

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/accidentprep/pkg/core"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Postgres dialect.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: dollar,
	ColumnType:  standardColumnType("DOUBLE PRECISION", "TEXT"),
}

func init() {
	Register("postgres", func(cfg Config, logger *slog.Logger) (Sink, error) {
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%w: postgres sink needs a dsn", core.ErrWrite)
		}
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: open postgres: %w", core.ErrWrite, err)
		}
		return NewSQL(db, cfg.Table, Postgres, "postgres", logger), nil
	})
}

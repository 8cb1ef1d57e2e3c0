// Package sink persists the cleaned table. The csv sink writes a flat file;
// the sqlite, duckdb and postgres sinks replace a database table inside a
// single transaction.
//
// Sinks register themselves by type name; New looks the type up:
//
//	s, err := sink.New(sink.Config{Type: "csv", Path: "Accident_cleaned.csv"}, logger)
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// DefaultType is the sink used when none is configured.
const DefaultType = "csv"

// DefaultTable is the database table name used when none is configured.
const DefaultTable = "accidents_cleaned"

// Sink writes a table to an external destination.
type Sink interface {
	// Write persists t, replacing any previous content. On failure the
	// destination is left as it was.
	Write(ctx context.Context, t *frame.Table) error
	// Location describes where the data went, for reports.
	Location() string
	Close() error
}

// Config selects and configures a sink.
type Config struct {
	Type  string `koanf:"type" json:"type" yaml:"type"`
	Path  string `koanf:"path" json:"path" yaml:"path"`
	Table string `koanf:"table" json:"table,omitempty" yaml:"table,omitempty"`
	DSN   string `koanf:"dsn" json:"-" yaml:"-"`
}

// Factory builds a sink from its configuration.
type Factory func(cfg Config, logger *slog.Logger) (Sink, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a sink factory under name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Get retrieves a sink factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// List returns all registered sink names, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the sink named by cfg.Type, defaulting to csv.
// A nil logger uses a discard logger.
func New(cfg Config, logger *slog.Logger) (Sink, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Type == "" {
		cfg.Type = DefaultType
	}
	f, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownSinkError{Type: cfg.Type, Available: List()}
	}
	return f(cfg, logger)
}

// UnknownSinkError is returned when an unregistered sink type is requested.
type UnknownSinkError struct {
	Type      string
	Available []string
}

func (e *UnknownSinkError) Error() string {
	return fmt.Sprintf("unknown sink type %q\nAvailable sinks: %v\nHint: check sink.type in accidentprep.yaml", e.Type, e.Available)
}

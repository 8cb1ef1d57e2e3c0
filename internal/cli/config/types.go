// Package config loads and validates accidentprep configuration.
//
// Values are layered lowest to highest: built-in defaults, the YAML config
// file, ACCIDENTPREP_ environment variables and explicitly set flags.
package config

import (
	"sort"

	"github.com/leapstack-labs/accidentprep/internal/clean"
	"github.com/leapstack-labs/accidentprep/internal/pipeline"
	"github.com/leapstack-labs/accidentprep/internal/sink"
	"github.com/leapstack-labs/accidentprep/internal/split"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// Config holds all CLI configuration options.
type Config struct {
	Input        InputConfig           `koanf:"input"`
	Schema       map[string]frame.Type `koanf:"schema"`
	Columns      clean.Columns         `koanf:"columns"`
	Clean        CleanConfig           `koanf:"clean"`
	Sink         sink.Config           `koanf:"sink"`
	Split        SplitConfig           `koanf:"split"`
	Plan         PlanConfig            `koanf:"plan"`
	OutputFormat string                `koanf:"output" validate:"oneof=auto text markdown json yaml"`
	Verbose      bool                  `koanf:"verbose"`
	LogLevel     string                `koanf:"log_level" validate:"oneof=debug info warn error"`
}

// InputConfig locates the raw table.
type InputConfig struct {
	Path  string `koanf:"path" validate:"required"`
	Sheet string `koanf:"sheet"`
}

// CleanConfig holds the cleaning rules.
type CleanConfig struct {
	AgeMin             float64  `koanf:"age_min" validate:"gte=0"`
	AgeMax             float64  `koanf:"age_max" validate:"gtefield=AgeMin"`
	DateLayouts        []string `koanf:"date_layouts"`
	AllMissingSeverity string   `koanf:"all_missing_severity" validate:"oneof=error zero"`
}

// SplitConfig holds the partition settings.
type SplitConfig struct {
	TestFraction float64 `koanf:"test_fraction" validate:"gt=0,lt=1"`
	Seed         uint64  `koanf:"seed"`
}

// PlanConfig holds the transform plan settings.
type PlanConfig struct {
	Fit bool `koanf:"fit"`
}

// Default configuration values.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "warn"
	DefaultFileName = "accidentprep.yaml"
	EnvPrefix       = "ACCIDENTPREP_"
)

// SchemaFields returns the declared schema ordered by column name.
func (c *Config) SchemaFields() frame.Schema {
	names := make([]string, 0, len(c.Schema))
	for name := range c.Schema {
		names = append(names, name)
	}
	sort.Strings(names)
	s := make(frame.Schema, 0, len(names))
	for _, name := range names {
		s = append(s, frame.Field{Name: name, Type: c.Schema[name]})
	}
	return s
}

// Pipeline converts the configuration into a pipeline configuration.
func (c *Config) Pipeline() pipeline.Config {
	opts := clean.Options{
		Columns:     c.Columns,
		AgeMin:      c.Clean.AgeMin,
		AgeMax:      c.Clean.AgeMax,
		TimeLayouts: frame.DefaultTimeLayouts,
		Severity:    clean.SeverityPolicy(c.Clean.AllMissingSeverity),
	}
	if len(c.Clean.DateLayouts) > 0 {
		opts.TimeLayouts = frame.LayoutsFrom(c.Clean.DateLayouts)
	}
	return pipeline.Config{
		Input:   c.Input.Path,
		Sheet:   c.Input.Sheet,
		Schema:  c.SchemaFields(),
		Clean:   opts,
		Sink:    c.Sink,
		Split:   split.Options{TestFraction: c.Split.TestFraction, Seed: c.Split.Seed},
		FitPlan: c.Plan.Fit,
	}
}

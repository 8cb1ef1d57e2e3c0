package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/accidentprep/internal/clean"
	"github.com/leapstack-labs/accidentprep/internal/pipeline"
	"github.com/leapstack-labs/accidentprep/internal/sink"
	"github.com/leapstack-labs/accidentprep/internal/split"
	"github.com/leapstack-labs/accidentprep/pkg/frame"
)

// Package-level config file tracking
var configFileUsed string

// flagKeys maps flag names to config keys where they differ from the
// kebab-to-snake rule.
var flagKeys = map[string]string{
	"output":        "sink.path",
	"sink":          "sink.type",
	"table":         "sink.table",
	"dsn":           "sink.dsn",
	"sheet":         "input.sheet",
	"test-fraction": "split.test_fraction",
	"seed":          "split.seed",
	"fit-plan":      "plan.fit",
	"format":        "output",
}

// ignoredFlags never reach the config.
var ignoredFlags = map[string]bool{"config": true, "help": true, "version": true}

// defaults returns the built-in configuration.
func defaults() map[string]any {
	cols := clean.DefaultColumns()
	opts := clean.DefaultOptions()
	return map[string]any{
		"input.path":                 pipeline.DefaultInput,
		"columns.date":               cols.Date,
		"columns.age":                cols.Age,
		"columns.age_clean":          cols.AgeClean,
		"columns.label":              cols.Label,
		"columns.severity":           cols.Severity,
		"clean.age_min":              opts.AgeMin,
		"clean.age_max":              opts.AgeMax,
		"clean.all_missing_severity": string(opts.Severity),
		"sink.type":                  sink.DefaultType,
		"sink.path":                  pipeline.DefaultOutput,
		"sink.table":                 sink.DefaultTable,
		"split.test_fraction":        split.DefaultTestFraction,
		"split.seed":                 split.DefaultSeed,
		"plan.fit":                   false,
		"output":                     DefaultOutput,
		"verbose":                    false,
		"log_level":                  DefaultLogLevel,
	}
}

// findConfigFile finds the config file to use.
// Priority: explicit path > accidentprep.yaml > accidentprep.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultFileName, "accidentprep.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey maps ACCIDENTPREP_SPLIT__TEST_FRACTION to split.test_fraction.
// A double underscore separates nesting levels.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// frameTypeHook decodes schema type names such as "float" into frame.Type.
func frameTypeHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(frame.Unknown) || from.Kind() != reflect.String {
		return data, nil
	}
	return frame.ParseType(data.(string))
}

// Load loads configuration from defaults, the config file, environment
// variables and explicitly set flags, then validates it.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (ACCIDENTPREP_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed || ignoredFlags[f.Name] {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				frameTypeHook,
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/accidentprep/internal/sink"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use koanf key names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration: struct rules first, then the rules
// that depend on registered sinks and column choices.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, ok := sink.Get(c.Sink.Type); !ok {
		return &sink.UnknownSinkError{Type: c.Sink.Type, Available: sink.List()}
	}
	if c.Sink.Type == "postgres" && c.Sink.DSN == "" {
		return fmt.Errorf("invalid configuration: sink.dsn is required for the postgres sink")
	}
	if c.Sink.Type != "postgres" && c.Sink.Path == "" {
		return fmt.Errorf("invalid configuration: sink.path is required for the %s sink", c.Sink.Type)
	}

	cols := c.Columns
	for name, v := range map[string]string{
		"columns.date": cols.Date, "columns.age": cols.Age,
		"columns.age_clean": cols.AgeClean, "columns.label": cols.Label,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("invalid configuration: %s must not be empty", name)
		}
	}
	if len(cols.Severity) == 0 {
		return fmt.Errorf("invalid configuration: columns.severity needs at least one column")
	}
	if cols.AgeClean == cols.Age {
		return fmt.Errorf("invalid configuration: columns.age_clean must differ from columns.age, which is dropped")
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fmt.Sprint(fe.Value()))
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s must be %s %s, got %v", key, fe.Tag(), fe.Param(), fe.Value())
	case "gtefield":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// configValidator is a shared validator instance; it is thread-safe and
// caches struct metadata.
//
//nolint:gochecknoglobals // Singleton pattern for validator efficiency
var configValidator = newConfigValidator()

// newConfigValidator builds the validator used for struct-tag validation.
// Field names in error messages come from mapstructure tags, so messages
// match what users actually write in the config file.
func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name != "-" && name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks struct tags plus the duration fields tags cannot express
// readably. When any struct tag fails, the error describes every failing
// tag and the duration checks are not run; otherwise it describes every
// negative duration.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	var problems []string
	if c.TickInterval < 0 {
		problems = append(problems, "tick_interval must not be negative")
	}
	if c.Handshake.Interval < 0 {
		problems = append(problems, "handshake.interval must not be negative")
	}
	if c.Handshake.Timeout < 0 {
		problems = append(problems, "handshake.timeout must not be negative")
	}
	if c.Diagnostics.Interval < 0 {
		problems = append(problems, "diagnostics.interval must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// validateStruct runs go-playground/validator over cfg's validate tags.
func validateStruct(cfg any) error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("config: invalid validation input: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
	}

	return fmt.Errorf("config: validation error: %w", err)
}

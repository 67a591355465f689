package config

import (
	"fmt"
	"strings"

	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	// Field is the dotted path to the field, e.g. "cache.kind".
	Field string

	// Message describes the problem.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
// It matches errs.ErrInvalidParameter with errors.Is.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}

	return sb.String()
}

// Unwrap returns errs.ErrInvalidParameter.
func (e ValidationError) Unwrap() error {
	return errs.ErrInvalidParameter
}

// Validate checks cfg and returns a ValidationError listing every invalid field.
func Validate(cfg *Config) error {
	var fields []FieldError

	if cfg.Engine.Binary == "" {
		fields = append(fields, FieldError{"engine.binary", "must not be empty"})
	}
	if _, ok := format.ParseVerbosity(cfg.Engine.Verbose); !ok {
		fields = append(fields, FieldError{"engine.verbose", fmt.Sprintf("unknown verbosity %q", cfg.Engine.Verbose)})
	}
	if cfg.Engine.Timeout < 0 {
		fields = append(fields, FieldError{"engine.timeout", "must not be negative"})
	}

	switch cfg.Cache.Kind {
	case CacheKindNone, CacheKindMemory:
	case CacheKindDir:
		if cfg.Cache.Dir == "" {
			fields = append(fields, FieldError{"cache.dir", "required when cache.kind is dir"})
		}
	default:
		fields = append(fields, FieldError{"cache.kind", fmt.Sprintf("unknown cache kind %q", cfg.Cache.Kind)})
	}
	if cfg.Cache.MaxEntries < 0 {
		fields = append(fields, FieldError{"cache.max_entries", "must not be negative"})
	}
	if _, ok := format.ParseCompression(cfg.Cache.Compression); !ok {
		fields = append(fields, FieldError{"cache.compression", fmt.Sprintf("unknown compression %q", cfg.Cache.Compression)})
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		fields = append(fields, FieldError{"logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		fields = append(fields, FieldError{"logging.format", fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}

	if len(fields) > 0 {
		return ValidationError{Errors: fields}
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDMASK_"

// LoadConfig loads configuration from the YAML file at path, applies defaults and
// validates the result. Environment variables are not consulted.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration like LoadConfig and then applies
// GRIDMASK_SECTION_FIELD environment overrides, which take precedence over the file.
// An empty path starts from Default().
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg = Default()
	} else if cfg, err = LoadConfig(path); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	setString(&cfg.Engine.Binary, "ENGINE_BINARY")
	setString(&cfg.Engine.WorkDir, "ENGINE_WORK_DIR")
	setString(&cfg.Engine.Verbose, "ENGINE_VERBOSE")
	if val, ok := lookup("ENGINE_TIMEOUT"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return envError("ENGINE_TIMEOUT", err)
		}
		cfg.Engine.Timeout = d
	}

	setString(&cfg.Cache.Kind, "CACHE_KIND")
	setString(&cfg.Cache.Dir, "CACHE_DIR")
	setString(&cfg.Cache.Compression, "CACHE_COMPRESSION")
	if val, ok := lookup("CACHE_MAX_ENTRIES"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("CACHE_MAX_ENTRIES", err)
		}
		cfg.Cache.MaxEntries = n
	}

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")

	return nil
}

func lookup(name string) (string, bool) {
	val := os.Getenv(EnvPrefix + name)
	return val, val != ""
}

func setString(dst *string, name string) {
	if val, ok := lookup(name); ok {
		*dst = val
	}
}

func envError(name string, err error) error {
	return ValidationError{Errors: []FieldError{{Field: EnvPrefix + name, Message: err.Error()}}}
}

package config

import "time"

// Config is the root configuration of the grdmask command.
type Config struct {
	// Engine configures how the geoprocessing engine is run.
	Engine EngineConfig `yaml:"engine"`

	// Cache configures the result cache.
	Cache CacheConfig `yaml:"cache"`

	// Logging configures the command logger.
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the engine runner and session.
type EngineConfig struct {
	// Binary is the engine executable, looked up in PATH when not absolute.
	Binary string `yaml:"binary"`

	// WorkDir is the parent of the per-session scratch directories.
	// Empty means the system temp directory.
	WorkDir string `yaml:"work_dir"`

	// Verbose is the engine verbosity: off, quiet, error, warning, timing, info, compat or debug.
	Verbose string `yaml:"verbose"`

	// Timeout bounds a single module call. Zero disables the limit.
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	// Kind selects the cache: none, memory or dir.
	Kind string `yaml:"kind"`

	// Dir is the cache directory when Kind is dir.
	Dir string `yaml:"dir"`

	// MaxEntries bounds the memory cache.
	MaxEntries int `yaml:"max_entries"`

	// Compression is the grid payload codec: none, zstd, s2 or lz4.
	Compression string `yaml:"compression"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

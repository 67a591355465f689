package config

import (
	"time"

	"github.com/arloliu/gridmask/cache"
	"github.com/arloliu/gridmask/engine"
)

// Default values for configuration fields.
const (
	DefaultEngineBinary  = engine.DefaultBinary
	DefaultEngineVerbose = "off"
	DefaultEngineTimeout = 5 * time.Minute

	DefaultCacheKind        = CacheKindNone
	DefaultCacheMaxEntries  = cache.DefaultMemoryEntries
	DefaultCacheCompression = "zstd"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Cache kinds.
const (
	CacheKindNone   = "none"
	CacheKindMemory = "memory"
	CacheKindDir    = "dir"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)

	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Engine.Binary == "" {
		cfg.Engine.Binary = DefaultEngineBinary
	}
	if cfg.Engine.Verbose == "" {
		cfg.Engine.Verbose = DefaultEngineVerbose
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = DefaultEngineTimeout
	}

	if cfg.Cache.Kind == "" {
		cfg.Cache.Kind = DefaultCacheKind
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Cache.Compression == "" {
		cfg.Cache.Compression = DefaultCacheCompression
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/arloliu/gridmask/cache"
	"github.com/arloliu/gridmask/engine"
	"github.com/arloliu/gridmask/format"
)

// Verbosity returns the parsed engine verbosity. Invalid names map to VerboseOff.
func (c *Config) Verbosity() format.Verbosity {
	v, _ := format.ParseVerbosity(c.Engine.Verbose)
	return v
}

// Compression returns the parsed cache compression. Invalid names map to CompressionNone.
func (c *Config) Compression() format.CompressionType {
	ct, ok := format.ParseCompression(c.Cache.Compression)
	if !ok {
		return format.CompressionNone
	}

	return ct
}

// NewCache builds the configured result cache. It returns nil for kind none.
func (c *Config) NewCache() (cache.Cache, error) {
	switch c.Cache.Kind {
	case CacheKindMemory:
		return cache.NewMemoryCache(c.Cache.MaxEntries, c.Compression()), nil
	case CacheKindDir:
		dc, err := cache.NewDirCache(c.Cache.Dir, c.Compression())
		if err != nil {
			return nil, err
		}

		return dc, nil
	default:
		return nil, nil
	}
}

// NewRunner builds an engine runner for the configured binary.
func (c *Config) NewRunner(logger *slog.Logger) *engine.ExecRunner {
	return &engine.ExecRunner{
		Binary: c.Engine.Binary,
		Logger: logger,
	}
}

// NewLogger builds a slog logger writing to w in the configured format and level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Logging.Level)}

	var handler slog.Handler
	if c.Logging.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

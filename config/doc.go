// Package config loads the gridmask command configuration.
//
// Configuration is read from a YAML file, completed with defaults, overridden by
// GRIDMASK_* environment variables and validated:
//
//	engine:
//	  binary: gmt
//	  work_dir: /var/tmp
//	  verbose: warning
//	  timeout: 2m
//	cache:
//	  kind: dir            # none, memory or dir
//	  dir: ~/.cache/gridmask
//	  compression: zstd    # none, zstd, s2 or lz4
//	logging:
//	  level: info
//	  format: text         # text or json
package config

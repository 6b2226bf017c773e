// Package config provides configuration management for shellgate.
//
// # Overview
//
// The config package uses Viper to load configuration from a YAML file and
// environment variables. It provides a type-safe configuration structure
// with validation, default values, and automatic file creation.
//
// # Configuration File
//
// The configuration is stored at ~/.shellgate/config.yaml and is
// automatically created with sensible defaults on first use.
//
// # Environment Variables
//
// All configuration values can be overridden using environment variables
// with the SHELLGATE_ prefix. Nested fields are separated by underscores.
//
// Examples:
//   - SHELLGATE_LOGGING_LEVEL=debug
//   - SHELLGATE_LOGGING_JSON=true
//   - SHELLGATE_AUDIT_ENABLED=false
//   - SHELLGATE_CACHE_SIZE=512
//
// # What Isn't Here
//
// The allow/deny policy tables are not part of this package, or configurable
// at all: they're compiled-in constants in internal/policy. Only the ambient
// concerns — how loudly shellgate logs, whether it keeps an audit trail, how
// big its decision cache is — are runtime-configurable.
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Path Expansion
//
// The package automatically expands ~ to the user's home directory in all
// path configurations, making config files portable across systems.
//
// # Thread Safety
//
// Config instances are not thread-safe. If you need concurrent access, wrap
// the config in a sync.RWMutex or create separate instances.
package config

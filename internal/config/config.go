// Package config loads shellgate's ambient settings — logging, the audit
// trail, and the decision cache — from ~/.shellgate/config.yaml, layered
// with SHELLGATE_-prefixed environment variable overrides via Viper.
//
// The allow/deny policy tables are deliberately not configurable here, or
// anywhere else: they live as compiled-in Go constants in internal/policy.
// A config file an agent's own tool calls could ever influence is an attack
// surface; a value only someone with write access to shellgate's own source
// can change is not.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all of shellgate's ambient configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Audit   AuditConfig   `mapstructure:"audit" yaml:"audit"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// LoggingConfig controls the diagnostic logger in internal/logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
	// File is an optional path to also write logs to; logs always go to
	// stderr regardless of this setting.
	File string `mapstructure:"file" yaml:"file"`
	// JSON turns off ANSI colors in the logger's output (cmd/shellgate
	// passes !JSON as the logger's Colored setting). No separate structured
	// log sink is written.
	JSON bool `mapstructure:"json" yaml:"json"`
}

// AuditConfig controls the SQLite-backed decision audit trail.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// CacheConfig controls the in-memory decision LRU.
type CacheConfig struct {
	Size int `mapstructure:"size" yaml:"size"`
}

// Default returns shellgate's out-of-the-box configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/.shellgate/logs/shellgate.log",
			JSON:  false,
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    "~/.shellgate/audit.db",
		},
		Cache: CacheConfig{
			Size: 256,
		},
	}
}

// Load reads configuration from the default location
// (~/.shellgate/config.yaml), creating it with defaults if absent.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".shellgate", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path, merged with
// SHELLGATE_-prefixed environment variable overrides (e.g.
// SHELLGATE_LOGGING_LEVEL=debug overrides logging.level).
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SHELLGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.Audit.Path = expandPath(cfg.Audit.Path)

	return cfg, nil
}

// Save writes c to the default config file location.
func (c *Config) Save() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return c.SaveToPath(filepath.Join(homeDir, ".shellgate", "config.yaml"))
}

// SaveToPath writes c to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".shellgate", "config.yaml")
}

// Validate checks c for inconsistencies LoadFromPath's defaults can't rule
// out on their own (an operator's own edits to the YAML file).
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size cannot be negative")
	}
	return nil
}

// writeConfigFile marshals cfg with yaml.v3 directly, rather than through
// Viper, so the struct's own yaml tags control field names and ordering.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

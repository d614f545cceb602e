// File: config.go
// Title: Configuration Management
// Description: Implements loading, parsing, and validating hostcmd
//              configuration from TOML and YAML files with environment
//              variable overrides. Covers the host endpoint, engine
//              defaults, journal, and logging settings.
// Author: msto63
// Version: v0.1.0
// Created: 2026-08-18
// Modified: 2026-08-18
//
// Change History:
// - 2026-08-18 v0.1.0: Initial implementation with TOML/YAML support

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	hcerror "github.com/msto63/hostcmd/core/error"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "HOSTCMD_"

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML

	// FormatAuto auto-detects format from file extension
	FormatAuto
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Duration wraps time.Duration for TOML/YAML text parsing
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the complete hostcmd configuration
type Config struct {
	Host    HostConfig    `toml:"host" yaml:"host"`
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Journal JournalConfig `toml:"journal" yaml:"journal"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// HostConfig configures the connection to the host automation endpoint
type HostConfig struct {
	// Address of the host automation endpoint (ws://host:port/path)
	Address string `toml:"address" yaml:"address"`

	// DialTimeout bounds the initial connection attempt
	DialTimeout Duration `toml:"dial_timeout" yaml:"dial_timeout"`

	// WriteTimeout bounds each outgoing frame write
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`

	// PingInterval is the keepalive ping period (0 disables pings)
	PingInterval Duration `toml:"ping_interval" yaml:"ping_interval"`
}

// EngineConfig configures engine dispatch defaults
type EngineConfig struct {
	// Interaction is the default interaction mode applied at dispatch
	// time when a call does not set one ("silent", "display",
	// "dontDisplay")
	Interaction string `toml:"interaction" yaml:"interaction"`
}

// JournalConfig configures the optional dispatch journal
type JournalConfig struct {
	// Enabled turns dispatch journaling on
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// Path is the SQLite database file for the journal
	Path string `toml:"path" yaml:"path"`
}

// LogConfig configures logging output
type LogConfig struct {
	// Level is the minimum log level ("trace".."fatal")
	Level string `toml:"level" yaml:"level"`

	// Format selects the output format ("json" or "text")
	Format string `toml:"format" yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Host: HostConfig{
			Address:      "ws://127.0.0.1:9780/automation",
			DialTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
			PingInterval: Duration(30 * time.Second),
		},
		Engine: EngineConfig{
			Interaction: "silent",
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    "hostcmd-journal.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a file with auto-detected format
func Load(filePath string) (*Config, error) {
	return LoadWithFormat(filePath, FormatAuto)
}

// LoadWithFormat loads configuration from a file in the given format
func LoadWithFormat(filePath string, format Format) (*Config, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, hcerror.New("config file path cannot be empty").
			WithCode(hcerror.CodeValidation).
			WithOperation("config.Load")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, hcerror.Wrap(err, fmt.Sprintf("config file not readable: %s", filePath)).
			WithCode(hcerror.CodeConfig).
			WithOperation("config.Load").
			WithDetail("filePath", filePath)
	}

	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	cfg := Default()

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, hcerror.Wrap(err, "invalid YAML configuration").
				WithCode(hcerror.CodeConfig).
				WithDetail("filePath", filePath)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, hcerror.Wrap(err, "invalid TOML configuration").
				WithCode(hcerror.CodeConfig).
				WithDetail("filePath", filePath)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// detectFormat determines the file format from the extension
func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// applyEnv applies HOSTCMD_* environment variable overrides
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPrefix + "HOST_ADDRESS"); v != "" {
		c.Host.Address = v
	}
	if v := os.Getenv(EnvPrefix + "ENGINE_INTERACTION"); v != "" {
		c.Engine.Interaction = v
	}
	if v := os.Getenv(EnvPrefix + "JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
		c.Journal.Enabled = true
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host.Address) == "" {
		return hcerror.New("host address is required").
			WithCode(hcerror.CodeValidation).
			WithOperation("config.Validate")
	}

	if !strings.HasPrefix(c.Host.Address, "ws://") && !strings.HasPrefix(c.Host.Address, "wss://") {
		return hcerror.Newf("host address must be a ws:// or wss:// URL: %s", c.Host.Address).
			WithCode(hcerror.CodeValidation).
			WithOperation("config.Validate").
			WithDetail("address", c.Host.Address)
	}

	switch c.Engine.Interaction {
	case "", "silent", "display", "dontDisplay":
	default:
		return hcerror.Newf("unknown interaction mode: %s", c.Engine.Interaction).
			WithCode(hcerror.CodeValidation).
			WithDetail("interaction", c.Engine.Interaction)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return hcerror.Newf("unknown log level: %s", c.Log.Level).
			WithCode(hcerror.CodeValidation).
			WithDetail("level", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return hcerror.Newf("unknown log format: %s", c.Log.Format).
			WithCode(hcerror.CodeValidation).
			WithDetail("format", c.Log.Format)
	}

	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return hcerror.New("journal path is required when the journal is enabled").
			WithCode(hcerror.CodeValidation)
	}

	return nil
}

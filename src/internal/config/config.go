// FILE: logfan/src/internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"logfan/src/internal/core"
)

// EnvProduction selects machine-readable console output and the
// stricter router floor.
const EnvProduction = "production"

// Config is the single resolved configuration the whole pipeline is
// built from. Environment-dependent choices are made once at
// construction, never re-checked at call time.
type Config struct {
	// Environment: "production" or anything else (treated as development)
	Environment string `toml:"environment"`

	// Service name attached as a constant field to every event
	Service string `toml:"service"`

	// Directory holding all log artifacts
	Directory string `toml:"directory"`

	Console    ConsoleConfig    `toml:"console"`
	Files      []FileConfig     `toml:"files"`
	Fault      FaultConfig      `toml:"fault"`
	FloodGuard FloodGuardConfig `toml:"flood_guard"`
	Server     ServerConfig     `toml:"server"`
	Logging    LogConfig        `toml:"logging"`
}

// ServerConfig configures the embedded HTTP server whose requests feed
// the pipeline.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`

	// Per-client request rate limit
	RequestsPerSec float64 `toml:"requests_per_sec"`
	Burst          int     `toml:"burst"`
}

// ConsoleConfig configures the console sink.
type ConsoleConfig struct {
	// Silent selects the discarding console variant
	Silent bool `toml:"silent"`

	// Color: "auto" (TTY detection), "always", "never"
	Color string `toml:"color"`

	BufferSize int `toml:"buffer_size"`
}

// FileConfig configures one rotating artifact family.
type FileConfig struct {
	// Family is the artifact name prefix, e.g. "error"
	Family string `toml:"family"`

	// Level is the family's minimum severity
	Level string `toml:"level"`

	// Exclusive restricts the family to exactly Level
	Exclusive bool `toml:"exclusive"`

	MaxSizeMB  int64 `toml:"max_size_mb"`
	MaxAgeDays int   `toml:"max_age_days"`
	Compress   bool  `toml:"compress"`
	BufferSize int   `toml:"buffer_size"`
}

// FaultConfig configures the always-on fault capture destinations.
type FaultConfig struct {
	Enabled bool `toml:"enabled"`

	// Directory for the fault artifacts; defaults to Config.Directory
	Directory string `toml:"directory"`
}

// FloodGuardConfig bounds the sustained debug event rate accepted by
// the router. Disabled by default.
type FloodGuardConfig struct {
	Enabled         bool    `toml:"enabled"`
	EventsPerSecond float64 `toml:"events_per_second"`
	Burst           int     `toml:"burst"`
}

// LogConfig configures the pipeline's own diagnostic logger.
type LogConfig struct {
	// Output mode: "stderr", "stdout", "file", "none"
	Output string `toml:"output"`

	// Level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// Directory for diagnostic log files (when Output is "file")
	Directory string `toml:"directory"`
}

// Production reports whether the production variant of the pipeline
// is selected.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction
}

func Defaults() *Config {
	return &Config{
		Environment: "development",
		Service:     "logfan",
		Directory:   "./logs",
		Console: ConsoleConfig{
			Silent:     false,
			Color:      "auto",
			BufferSize: 1000,
		},
		Files: []FileConfig{
			{Family: "error", Level: "error", Exclusive: true, MaxSizeMB: 10, MaxAgeDays: 30, Compress: true},
			{Family: "warn", Level: "warn", Exclusive: true, MaxSizeMB: 10, MaxAgeDays: 21, Compress: true},
			{Family: "debug", Level: "debug", MaxSizeMB: 10, MaxAgeDays: 21, Compress: true},
			{Family: "combined", Level: "info", MaxSizeMB: 10, MaxAgeDays: 14, Compress: true},
			{Family: "http", Level: "http", Exclusive: true, MaxSizeMB: 10, MaxAgeDays: 14, Compress: true},
		},
		Fault: FaultConfig{
			Enabled: true,
		},
		FloodGuard: FloodGuardConfig{
			Enabled:         false,
			EventsPerSecond: 1000,
			Burst:           2000,
		},
		Server: ServerConfig{
			Enabled:        true,
			Address:        ":8080",
			RequestsPerSec: 50,
			Burst:          100,
		},
		Logging: LogConfig{
			Output: "stderr",
			Level:  "info",
		},
	}
}

func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment must not be empty")
	}
	if c.Service == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if c.Directory == "" {
		return fmt.Errorf("log directory must not be empty")
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Console.Color] {
		return fmt.Errorf("invalid console color mode: %s", c.Console.Color)
	}

	if len(c.Files) == 0 {
		return fmt.Errorf("no file sink families configured")
	}
	seen := map[string]bool{}
	for i, f := range c.Files {
		if f.Family == "" {
			return fmt.Errorf("file sink %d: empty family", i)
		}
		if strings.ContainsAny(f.Family, "/\\.") {
			return fmt.Errorf("file sink %d: invalid family name %q", i, f.Family)
		}
		if seen[f.Family] {
			return fmt.Errorf("file sink %d: duplicate family %q", i, f.Family)
		}
		seen[f.Family] = true
		if _, err := core.ParseSeverity(f.Level); err != nil {
			return fmt.Errorf("file sink %q: %w", f.Family, err)
		}
		if f.MaxSizeMB < 1 {
			return fmt.Errorf("file sink %q: max size must be positive: %d", f.Family, f.MaxSizeMB)
		}
		if f.MaxAgeDays < 1 {
			return fmt.Errorf("file sink %q: max age must be positive: %d", f.Family, f.MaxAgeDays)
		}
	}

	if c.FloodGuard.Enabled {
		if c.FloodGuard.EventsPerSecond <= 0 {
			return fmt.Errorf("flood guard rate must be positive: %f", c.FloodGuard.EventsPerSecond)
		}
		if c.FloodGuard.Burst < 1 {
			return fmt.Errorf("flood guard burst must be positive: %d", c.FloodGuard.Burst)
		}
	}

	if c.Server.Enabled {
		if c.Server.Address == "" {
			return fmt.Errorf("server address must not be empty")
		}
		if c.Server.RequestsPerSec <= 0 {
			return fmt.Errorf("server rate limit must be positive: %f", c.Server.RequestsPerSec)
		}
		if c.Server.Burst < 1 {
			return fmt.Errorf("server burst must be positive: %d", c.Server.Burst)
		}
	}

	validOutputs := map[string]bool{"stderr": true, "stdout": true, "file": true, "none": true}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("invalid diagnostic log output: %s", c.Logging.Output)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid diagnostic log level: %s", c.Logging.Level)
	}

	return nil
}

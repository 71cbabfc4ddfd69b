// Package config provides configuration management for the dxu CLI.
//
// Values are layered, lowest precedence first: built-in defaults, the .dxu.yaml
// config file, DXU_ environment variables and explicitly set flags.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Default values.
const (
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "console"
	DefaultOutput          = "text"
	DefaultMaxIncludeDepth = 32
)

// Output formats accepted by the output key.
var OutputFormats = []string{"text", "json", "yaml", "markdown"}

// Config holds all CLI configuration options.
type Config struct {
	// Schema overrides the bundled meta-schema with a file path.
	Schema           string `koanf:"schema"`
	LogLevel         string `koanf:"log_level"`
	LogFormat        string `koanf:"log_format"`
	OutputFormat     string `koanf:"output"`
	MaxIncludeDepth  int    `koanf:"max_include_depth"`
	LegacyUint32Bias bool   `koanf:"legacy_uint32_bias"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		OutputFormat:    DefaultOutput,
		MaxIncludeDepth: DefaultMaxIncludeDepth,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q (want console or json)", c.LogFormat)
	}
	if !validOutput(c.OutputFormat) {
		return fmt.Errorf("invalid output %q (want %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.MaxIncludeDepth < 1 {
		return fmt.Errorf("max_include_depth must be positive, got %d", c.MaxIncludeDepth)
	}
	return nil
}

func validOutput(format string) bool {
	for _, candidate := range OutputFormats {
		if candidate == format {
			return true
		}
	}
	return false
}

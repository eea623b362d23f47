// Package config loads the server configuration from an optional YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
	"github.com/ironsheep/room-analyzer-mcp/internal/palette"
)

// Environment variables that override file settings.
const (
	EnvLogLevel    = "ROOM_MCP_LOG_LEVEL"
	EnvDetectorURL = "ROOM_MCP_DETECTOR_URL"
	EnvDetector    = "ROOM_MCP_DETECTOR"
)

// Detector kinds.
const (
	DetectorHTTP    = "http"
	DetectorSidecar = "sidecar"
	DetectorNone    = "none"
)

// Config is the complete server configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Detector DetectorConfig `yaml:"detector"`
	Palette  PaletteConfig  `yaml:"palette"`
}

// DetectorConfig selects and tunes the object detector.
type DetectorConfig struct {
	Kind          string        `yaml:"kind"`
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	MinScore      float64       `yaml:"min_score"`
	SidecarSuffix string        `yaml:"sidecar_suffix"`
}

// PaletteConfig holds palette tool defaults.
type PaletteConfig struct {
	Extract     int `yaml:"extract"`
	Suggestions int `yaml:"suggestions"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Detector: DetectorConfig{
			Kind:          DetectorSidecar,
			Timeout:       detection.DefaultTimeout,
			MaxRetries:    detection.DefaultMaxRetries,
			SidecarSuffix: detection.DefaultSidecarSuffix,
		},
		Palette: PaletteConfig{
			Extract:     palette.DefaultExtractCount,
			Suggestions: palette.DefaultSuggestCount,
		},
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides from getenv and validates the result. A nil getenv means
// os.Getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	// Unmarshal onto the defaults so omitted keys keep their default values.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	return nil
}

// applyEnv overlays environment settings. Setting a detector URL without an
// explicit kind selects the HTTP detector.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvDetectorURL); v != "" {
		c.Detector.URL = v
		c.Detector.Kind = DetectorHTTP
	}
	if v := getenv(EnvDetector); v != "" {
		c.Detector.Kind = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info":
	default:
		return fmt.Errorf("log_level must be debug or info, got %q", c.LogLevel)
	}

	d := &c.Detector
	d.Kind = strings.ToLower(strings.TrimSpace(d.Kind))
	switch d.Kind {
	case DetectorHTTP:
		if d.URL == "" {
			return fmt.Errorf("detector.url is required for the http detector")
		}
		if !strings.HasPrefix(d.URL, "http://") && !strings.HasPrefix(d.URL, "https://") {
			return fmt.Errorf("detector.url must be an http(s) URL, got %q", d.URL)
		}
	case DetectorSidecar, DetectorNone:
	default:
		return fmt.Errorf("detector.kind must be http, sidecar or none, got %q", d.Kind)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("detector.timeout must be positive")
	}
	if d.MaxRetries < 1 {
		return fmt.Errorf("detector.max_retries must be at least 1")
	}
	if d.MinScore < 0 || d.MinScore > 1 {
		return fmt.Errorf("detector.min_score must be within [0, 1]")
	}

	if c.Palette.Extract < 1 {
		return fmt.Errorf("palette.extract must be at least 1")
	}
	if c.Palette.Suggestions < 1 {
		return fmt.Errorf("palette.suggestions must be at least 1")
	}
	return nil
}

// NewDetector builds the detector selected by d. The "none" kind yields a
// nil detector, which makes every analysis fail as unavailable.
func NewDetector(d DetectorConfig) (detection.Detector, error) {
	switch d.Kind {
	case DetectorHTTP:
		return detection.NewHTTPDetector(d.URL,
			detection.WithTimeout(d.Timeout),
			detection.WithMaxRetries(d.MaxRetries),
			detection.WithMinScore(d.MinScore),
		), nil
	case DetectorSidecar:
		return detection.SidecarDetector{Suffix: d.SidecarSuffix, MinScore: d.MinScore}, nil
	case DetectorNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown detector kind %q", d.Kind)
}

// Package config handles configuration loading and validation for redpen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/redpen/internal/core/overlay"
)

// Languages lists the feedback languages the grader can be asked for.
var Languages = []string{
	"english",
	"malayalam",
	"hindi",
	"spanish",
	"french",
	"german",
	"japanese",
	"chinese",
}

// Config holds the application configuration.
type Config struct {
	Theme   string        `yaml:"theme"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Overlay OverlayConfig `yaml:"overlay"`
	Watch   WatchConfig   `yaml:"watch"`
	Report  ReportConfig  `yaml:"report"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// GeminiConfig configures the Gemini mistake producer.
type GeminiConfig struct {
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	Timeout  time.Duration `yaml:"timeout"`
}

// OverlayConfig holds the overlay placement constants in terminal cells.
type OverlayConfig struct {
	Breakpoint    int     `yaml:"breakpoint"`     // widths below this use the bottom panel
	Width         int     `yaml:"width"`          // floating card width
	Height        int     `yaml:"height"`         // floating card height
	Offset        int     `yaml:"offset"`         // rows between span and card
	Margin        int     `yaml:"margin"`         // columns kept clear of the viewport edge
	PanelFraction float64 `yaml:"panel_fraction"` // panel share of the viewport height
}

// WatchConfig configures the input file watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// ReportConfig configures the Markdown report.
type ReportConfig struct {
	WordWrap int `yaml:"word_wrap"` // 0 means terminal width
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	g := overlay.DefaultGeometry()
	return Config{
		Theme: "tokyo-night",
		Gemini: GeminiConfig{
			Model:    "gemini-2.5-flash",
			Language: "english",
			Timeout:  2 * time.Minute,
		},
		Overlay: OverlayConfig{
			Breakpoint:    g.Breakpoint,
			Width:         g.OverlayWidth,
			Height:        g.OverlayHeight,
			Offset:        g.Offset,
			Margin:        g.Margin,
			PanelFraction: g.PanelFraction,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaults.Gemini.Model
	}
	if c.Gemini.Language == "" {
		c.Gemini.Language = defaults.Gemini.Language
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = defaults.Gemini.Timeout
	}
	if c.Overlay.Breakpoint == 0 {
		c.Overlay.Breakpoint = defaults.Overlay.Breakpoint
	}
	if c.Overlay.Width == 0 {
		c.Overlay.Width = defaults.Overlay.Width
	}
	if c.Overlay.Height == 0 {
		c.Overlay.Height = defaults.Overlay.Height
	}
	if c.Overlay.PanelFraction == 0 {
		c.Overlay.PanelFraction = defaults.Overlay.PanelFraction
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaults.Watch.Debounce
	}
}

// Geometry converts the overlay settings to placement constants.
func (c *Config) Geometry() overlay.Geometry {
	return overlay.Geometry{
		Breakpoint:    c.Overlay.Breakpoint,
		OverlayWidth:  c.Overlay.Width,
		OverlayHeight: c.Overlay.Height,
		Offset:        c.Overlay.Offset,
		Margin:        c.Overlay.Margin,
		PanelFraction: c.Overlay.PanelFraction,
	}
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "redpen.log")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/redpen/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is valid. All field problems are
// reported together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, knownTheme),
		criterio.Run("gemini.model", c.Gemini.Model, notEmpty),
		criterio.Run("gemini.language", c.Gemini.Language, knownLanguage),
		c.validateDurations(),
		c.validateOverlay(),
	)
}

// ValidateDeep performs Validate plus checks that touch the filesystem. The
// configPath argument is the config file location to check (empty skips it).
func (c *Config) ValidateDeep(configPath string) error {
	return criterio.ValidateStruct(
		c.Validate(),
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Overlay.Width > c.Overlay.Breakpoint {
		warnings = append(warnings, ValidationWarning{
			Category: "Overlay",
			Item:     "overlay.width",
			Message:  fmt.Sprintf("card width %d is wider than the breakpoint %d and will always be clamped", c.Overlay.Width, c.Overlay.Breakpoint),
		})
	}
	if c.Overlay.Margin == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Overlay",
			Item:     "overlay.margin",
			Message:  "a zero margin lets the card touch the terminal edge",
		})
	}

	return warnings
}

func (c *Config) validateDurations() error {
	var errs criterio.FieldErrorsBuilder
	if c.Gemini.Timeout <= 0 {
		errs = errs.Append("gemini.timeout", errors.New("must be positive"))
	}
	if c.Watch.Debounce <= 0 {
		errs = errs.Append("watch.debounce", errors.New("must be positive"))
	}
	if c.Report.WordWrap < 0 {
		errs = errs.Append("report.word_wrap", errors.New("must not be negative"))
	}
	return errs.ToError()
}

func (c *Config) validateOverlay() error {
	o := c.Overlay
	var errs criterio.FieldErrorsBuilder

	if o.Breakpoint < 1 {
		errs = errs.Append("overlay.breakpoint", errors.New("must be at least 1"))
	}
	if o.Width < 4 {
		errs = errs.Append("overlay.width", errors.New("must be at least 4"))
	}
	if o.Height < 3 {
		errs = errs.Append("overlay.height", errors.New("must be at least 3"))
	}
	if o.Offset < 0 {
		errs = errs.Append("overlay.offset", errors.New("must not be negative"))
	}
	if o.Margin < 0 {
		errs = errs.Append("overlay.margin", errors.New("must not be negative"))
	}
	if o.PanelFraction <= 0 || o.PanelFraction > 1 {
		errs = errs.Append("overlay.panel_fraction", fmt.Errorf("must be in (0, 1], got %v", o.PanelFraction))
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

// ValidateLanguage reports whether lang is one of Languages.
func ValidateLanguage(lang string) error {
	return knownLanguage(lang)
}

func knownLanguage(lang string) error {
	if !slices.Contains(Languages, lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}
	return nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redpen/internal/core/overlay"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "english", cfg.Gemini.Language)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, overlay.DefaultGeometry(), cfg.Geometry())
	assert.Equal(t, filepath.Join(dataDir, "redpen.log"), cfg.LogFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "/tmp/data")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Gemini, cfg.Gemini)
	assert.Equal(t, "/tmp/data", cfg.DataDir)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
theme: gruvbox
gemini:
  model: gemini-2.5-pro
  language: malayalam
  timeout: 30s
overlay:
  breakpoint: 120
  width: 50
  panel_fraction: 0.5
watch:
  debounce: 1s
report:
  word_wrap: 72
`)

	cfg, err := Load(path, "/tmp/data")
	require.NoError(t, err)

	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "malayalam", cfg.Gemini.Language)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 72, cfg.Report.WordWrap)
	assert.Equal(t, "/tmp/data", cfg.DataDir)

	g := cfg.Geometry()
	assert.Equal(t, 120, g.Breakpoint)
	assert.Equal(t, 50, g.OverlayWidth)
	assert.Equal(t, 12, g.OverlayHeight, "unset keys keep defaults")
	assert.InDelta(t, 0.5, g.PanelFraction, 1e-9)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "theme: [unclosed")
	_, err := Load(path, "/tmp/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
theme: neon
gemini:
  language: klingon
`)
	_, err := Load(path, "/tmp/data")
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"theme", "gemini.language"}, fields)
}

func TestValidate_Overlay(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OverlayConfig)
		field  string
	}{
		{"zero breakpoint", func(o *OverlayConfig) { o.Breakpoint = 0 }, "overlay.breakpoint"},
		{"narrow card", func(o *OverlayConfig) { o.Width = 2 }, "overlay.width"},
		{"short card", func(o *OverlayConfig) { o.Height = 1 }, "overlay.height"},
		{"negative offset", func(o *OverlayConfig) { o.Offset = -1 }, "overlay.offset"},
		{"negative margin", func(o *OverlayConfig) { o.Margin = -2 }, "overlay.margin"},
		{"fraction above one", func(o *OverlayConfig) { o.PanelFraction = 1.5 }, "overlay.panel_fraction"},
		{"negative fraction", func(o *OverlayConfig) { o.PanelFraction = -0.1 }, "overlay.panel_fraction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg.Overlay)

			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}

func TestValidate_Durations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gemini.Timeout = -time.Second
	cfg.Watch.Debounce = -time.Second
	cfg.Report.WordWrap = -1

	err := cfg.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 3)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Warnings())
}

func TestValidateDeep(t *testing.T) {
	t.Run("config path is a directory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()

		err := cfg.ValidateDeep(t.TempDir())

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "config_file", fieldErrs[0].Field)
	})

	t.Run("data dir is a file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = writeConfig(t, "theme: paper")

		err := cfg.ValidateDeep("")

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, "data_dir", fieldErrs[0].Field)
	})

	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = filepath.Join(t.TempDir(), "not-yet-created")
		assert.NoError(t, cfg.ValidateDeep(writeConfig(t, "theme: paper")))
	})
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overlay.Width = cfg.Overlay.Breakpoint + 10
	cfg.Overlay.Margin = 0

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "overlay.width", warnings[0].Item)
	assert.Equal(t, "overlay.margin", warnings[1].Item)
}

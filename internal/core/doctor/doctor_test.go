package doctor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redpen/internal/core/config"
)

func TestCredentialsCheck(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		status Status
		detail string
	}{
		{"missing", "", StatusWarn, "GEMINI_API_KEY is not set, only --mistakes grading is available"},
		{"short", "abc", StatusPass, "****"},
		{"masked", "AIzaSecret1234", StatusPass, "****1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewCredentialsCheck(tt.key).Run(context.Background())
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.status, result.Items[0].Status)
			assert.Equal(t, tt.detail, result.Items[0].Detail)
		})
	}
}

func TestConfigCheck_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	path := filepath.Join(t.TempDir(), "config.yaml")

	result := NewConfigCheck(&cfg, path).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "not found, using defaults", result.Items[0].Detail)
}

func TestConfigCheck_Invalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gemini.Language = "klingon"
	cfg.Overlay.Margin = 0

	result := NewConfigCheck(&cfg, "").Run(context.Background())

	var failed, warned []string
	for _, item := range result.Items {
		switch item.Status {
		case StatusFail:
			failed = append(failed, item.Label)
		case StatusWarn:
			warned = append(warned, item.Label)
		}
	}
	assert.Equal(t, []string{"gemini.language"}, failed)
	assert.Contains(t, warned, "overlay.margin")
}

func TestRunAllAndSummary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme = "missing"

	results := RunAll(context.Background(), []Check{
		NewCredentialsCheck(""),
		NewCredentialsCheck("key-1234"),
		NewConfigCheck(&cfg, ""),
	})
	require.Len(t, results, 3)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

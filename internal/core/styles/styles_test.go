package styles

import (
	"testing"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redpen/internal/core/mistake"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Contains(t, names, DefaultTheme)
	assert.Contains(t, names, "paper")
	assert.IsIncreasing(t, names)
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, ok := GetPalette("paper")
	require.True(t, ok)
	SetTheme(p)

	assert.Equal(t, p.Ink, ColorInk)
	assert.Equal(t, p.Background, ColorBackground)

	_, ok = GetPalette("missing")
	assert.False(t, ok)
}

func TestCategoryColor(t *testing.T) {
	seen := map[string]mistake.Category{}
	for _, c := range mistake.Categories {
		got, ok := colorful.MakeColor(CategoryColor(c))
		require.True(t, ok)
		if prev, dup := seen[got.Hex()]; dup {
			t.Errorf("%s and %s share colour %s", prev, c, got.Hex())
		}
		seen[got.Hex()] = c
	}

	assert.Equal(t, ColorMuted, CategoryColor(mistake.Category("Tone")))
}

func TestBlend(t *testing.T) {
	black := lipgloss.Color("#000000")
	white := lipgloss.Color("#ffffff")

	start, _ := colorful.MakeColor(Blend(black, white, 0))
	end, _ := colorful.MakeColor(Blend(black, white, 1))
	assert.Equal(t, "#000000", start.Hex())
	assert.Equal(t, "#ffffff", end.Hex())

	mid, _ := colorful.MakeColor(Blend(black, white, 0.5))
	l, _, _ := mid.Lab()
	assert.InDelta(t, 0.5, l, 0.01)
}

func TestGlamourStyle_LightTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	SetTheme(themes["paper"])
	cfg := GlamourStyle()
	require.NotNil(t, cfg.H1.Color)
	assert.Equal(t, "#d32f2f", *cfg.H1.Color)
	assert.True(t, isLight(ColorBackground))

	SetTheme(themes[DefaultTheme])
	assert.False(t, isLight(ColorBackground))
}

// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/redpen/internal/core/mistake"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorInk        color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	MutedStyle         lipgloss.Style

	// Graded view.
	TitleStyle       lipgloss.Style
	SummaryStyle     lipgloss.Style
	StampStyle       lipgloss.Style
	StampGradeStyle  lipgloss.Style
	StatusBarStyle   lipgloss.Style
	HelpKeyStyle     lipgloss.Style
	HelpDescStyle    lipgloss.Style
	FocusedSpanStyle lipgloss.Style

	// Overlay card and panel.
	CardStyle        lipgloss.Style
	PanelStyle       lipgloss.Style
	CardLabelStyle   lipgloss.Style
	OriginalStyle    lipgloss.Style
	CorrectionStyle  lipgloss.Style
	ExplanationStyle lipgloss.Style

	// Modals.
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
	SectionStyle    lipgloss.Style
	LabelStyle      lipgloss.Style
	SuccessStyle    lipgloss.Style
	WarningStyle    lipgloss.Style

	// Toasts.
	ToastInfoStyle  lipgloss.Style
	ToastErrorStyle lipgloss.Style
)

// spanBlend is how much of the category colour shows through the span
// highlight; the rest is the theme background.
const spanBlend = 0.35

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorInk = p.Ink

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	SummaryStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	StampStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorInk).
		Foreground(ColorInk).
		Padding(0, 1).
		Align(lipgloss.Center)
	StampGradeStyle = lipgloss.NewStyle().
		Foreground(ColorInk).
		Bold(true)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Background(ColorSurface).
		Padding(0, 1)
	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	HelpDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FocusedSpanStyle = lipgloss.NewStyle().
		Underline(true).
		Bold(true)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorInk).
		Padding(0, 1)
	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(ColorInk).
		Padding(0, 1)
	CardLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Bold(true)
	OriginalStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Strikethrough(true)
	CorrectionStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	ExplanationStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	SectionStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	LabelStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	ToastInfoStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Foreground(ColorForeground).
		Padding(0, 1)
	ToastErrorStyle = ToastInfoStyle.
		BorderForeground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

// CategoryColor returns the accent colour for a mistake category. Unknown
// categories use the muted colour.
func CategoryColor(c mistake.Category) color.Color {
	switch c {
	case mistake.CategorySpelling:
		return ColorError
	case mistake.CategoryGrammar:
		return ColorWarning
	case mistake.CategoryCliche:
		return ColorSecondary
	case mistake.CategoryFormatting:
		return ColorPrimary
	case mistake.CategoryContent:
		return ColorInk
	case mistake.CategoryWeakVerb:
		return ColorSuccess
	default:
		return ColorMuted
	}
}

// SpanStyle returns the highlight style for an annotated span. The
// background is the category colour blended into the theme background so
// the text stays readable.
func SpanStyle(c mistake.Category) lipgloss.Style {
	accent := CategoryColor(c)
	return lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(Blend(ColorBackground, accent, spanBlend))
}

// CategoryBadge renders a category name in its accent colour.
func CategoryBadge(c mistake.Category) string {
	return lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(CategoryColor(c)).
		Bold(true).
		Padding(0, 1).
		Render(c.String())
}

// Blend mixes a toward b by t in Lab space. Colours that cannot be
// converted return b.
func Blend(a, b color.Color, t float64) color.Color {
	ca, okA := colorful.MakeColor(a)
	cb, okB := colorful.MakeColor(b)
	if !okA || !okB {
		return b
	}
	return ca.BlendLab(cb, t).Clamped()
}

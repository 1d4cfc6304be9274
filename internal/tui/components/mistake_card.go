package components

import (
	"fmt"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/mistake"
	"github.com/colonyops/redpen/internal/core/styles"
)

// cardChrome is the border plus horizontal padding of the card and panel.
const cardChrome = 4

// MistakeCard renders the details of one annotation.
type MistakeCard struct {
	Record *mistake.Record
	Index  int // 1-based position in document order
	Total  int
}

// Card renders the floating card at a fixed size.
func (c MistakeCard) Card(width, height int) string {
	return styles.CardStyle.
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(c.body(width-cardChrome, "esc close"))
}

// Panel renders the bottom sheet variant.
func (c MistakeCard) Panel(width, height int) string {
	return styles.PanelStyle.
		Width(width).
		Height(height).
		MaxHeight(height).
		Render(c.body(width-cardChrome, "tab next • esc close"))
}

func (c MistakeCard) body(width int, help string) string {
	if c.Record == nil {
		return ""
	}
	width = max(width, 1)
	wrap := func(s lipgloss.Style, text string) string {
		return s.Width(width).Render(text)
	}

	header := styles.CategoryBadge(c.Record.Category)
	if c.Total > 0 {
		header += "  " + styles.MutedStyle.Render(fmt.Sprintf("%d/%d", c.Index, c.Total))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		styles.CardLabelStyle.Render("Original"),
		wrap(styles.OriginalStyle, c.Record.Original),
		styles.CardLabelStyle.Render("Correction"),
		wrap(styles.CorrectionStyle, c.Record.Correction),
		"",
		wrap(styles.ExplanationStyle, c.Record.Explanation),
		styles.ModalHelpStyle.Render(help),
	)
}

package graded

import (
	"strconv"
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/overlay"
	"github.com/colonyops/redpen/internal/core/styles"
	"github.com/colonyops/redpen/internal/tui/components"
)

// View renders the document with any open overlay or dialog on top.
func (v *View) View() string {
	base := lipgloss.JoinVertical(
		lipgloss.Left,
		v.header,
		v.viewport.View(),
		v.renderFooter(),
	)

	layers := []*lipgloss.Layer{lipgloss.NewLayer(base)}
	if card := v.renderOverlay(); card != nil {
		layers = append(layers, card)
	}
	content := lipgloss.NewCompositor(layers...).Render()

	switch {
	case v.info != nil:
		content = v.info.Overlay(content, v.width, v.height)
	case v.helpDlg != nil:
		content = v.helpDlg.Overlay(content, v.width, v.height)
	}
	return content
}

func (v *View) renderOverlay() *lipgloss.Layer {
	st := v.ctrl.State()
	if !st.Open() {
		return nil
	}

	card := components.MistakeCard{
		Record: st.Active,
		Index:  v.focus + 1,
		Total:  len(v.layout.Order()),
	}
	if v.Focused() != st.Ordinal {
		card.Index = 0
		card.Total = 0
	}

	r := v.ctrl.OverlayRect()
	if r == nil {
		return nil
	}

	var out string
	switch st.Mode {
	case overlay.ModePanel:
		out = card.Panel(r.Width, r.Height())
	default:
		out = card.Card(r.Width, r.Height())
	}

	// A card flipped above a span near the top can have a negative anchor.
	return lipgloss.NewLayer(out).X(max(r.Left, 0)).Y(max(r.Top, 0)).Z(1)
}

// refreshBody re-renders the wrapped document into the viewport.
func (v *View) refreshBody() {
	if v.layout == nil {
		return
	}

	focused := v.Focused()
	active := -1
	if st := v.ctrl.State(); st.Open() {
		active = st.Ordinal
	}

	pad := strings.Repeat(" ", bodyPadding)
	lines := make([]string, len(v.layout.Lines))
	for i, line := range v.layout.Lines {
		var sb strings.Builder
		sb.WriteString(pad)
		for _, run := range line.Runs {
			rec := v.records[run.Ordinal]
			if run.Ordinal < 0 || rec == nil {
				sb.WriteString(run.Text)
				continue
			}
			style := styles.SpanStyle(rec.Category)
			if run.Ordinal == focused || run.Ordinal == active {
				style = style.Inherit(styles.FocusedSpanStyle)
			}
			sb.WriteString(style.Render(run.Text))
		}
		lines[i] = sb.String()
	}
	v.viewport.SetContentLines(lines)
}

func (v *View) renderHeader() string {
	a := v.data.Analysis
	grade, score, summary := "", 0, ""
	if a != nil {
		grade, score, summary = a.Grade, a.Score, a.Summary
	}

	stamp := components.ScoreStamp(grade, score)
	leftWidth := max(v.width-lipgloss.Width(stamp)-2*bodyPadding, 10)

	title := styles.TitleStyle.Render(styles.IconPen + " " + v.data.Title)
	rows := []string{title}
	if summary != "" {
		rows = append(rows, styles.SummaryStyle.Width(leftWidth).MaxHeight(2).Render(summary))
	}
	if legend := v.renderLegend(); legend != "" {
		rows = append(rows, legend)
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	top := lipgloss.JoinHorizontal(lipgloss.Top, left, stamp)
	top = lipgloss.NewStyle().Padding(0, bodyPadding).Render(top)

	divider := styles.DividerStyle.Render(strings.Repeat("─", v.width))
	return lipgloss.JoinVertical(lipgloss.Left, top, divider)
}

// renderLegend lists each category present with its count in its colour.
func (v *View) renderLegend() string {
	counts := v.categoryCounts()
	if len(counts) == 0 {
		return styles.SuccessStyle.Render(styles.IconCheck + " no corrections")
	}

	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		dot := lipgloss.NewStyle().Foreground(styles.CategoryColor(c.category)).Render("●")
		parts = append(parts, dot+" "+styles.MutedStyle.Render(c.category.String()+" "+strconv.Itoa(c.count)))
	}
	return strings.Join(parts, "  ")
}

func (v *View) renderFooter() string {
	left := v.help.ShortHelpView(v.keys.ShortHelp())
	right := v.statusLine()

	gap := max(v.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.StatusBarStyle.
		Width(v.width).
		MaxWidth(v.width).
		Render(left + strings.Repeat(" ", gap) + right)
}

package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/styles"
)

const (
	infoModalMaxHeight = 30
	infoModalMargin    = 4
	infoModalChrome    = 8 // border, padding, title, divider and help
	infoModalMinWidth  = 40
)

// InfoStatus marks an info item.
type InfoStatus int

const (
	InfoStatusNone InfoStatus = iota
	InfoStatusPass
	InfoStatusWarn
)

// InfoItem is a single labeled row in an info section.
type InfoItem struct {
	Label  string
	Value  string
	Status InfoStatus
}

// InfoSection groups rows under a title. Text, when set, is rendered as a
// wrapped paragraph before the items.
type InfoSection struct {
	Title string
	Text  string
	Items []InfoItem
}

// InfoDialog is a scrollable modal of titled sections.
type InfoDialog struct {
	title    string
	sections []InfoSection
	helpText string
	width    int
	height   int
	viewport viewport.Model
}

// NewInfoDialog sizes the dialog for a screen of width x height.
func NewInfoDialog(title string, sections []InfoSection, helpText string, width, height int) *InfoDialog {
	modalWidth := infoModalWidth(width)
	modalHeight := max(min(height-infoModalMargin, infoModalMaxHeight), infoModalChrome+1)

	d := &InfoDialog{
		title:    title,
		sections: sections,
		helpText: helpText,
		width:    modalWidth,
		height:   modalHeight,
		viewport: viewport.New(
			viewport.WithWidth(modalWidth-6),
			viewport.WithHeight(modalHeight-infoModalChrome),
		),
	}
	d.viewport.SetContent(d.renderContent(modalWidth - 6))
	return d
}

func infoModalWidth(width int) int {
	w := max(int(float64(width)*0.6), infoModalMinWidth)
	return max(min(w, width-infoModalMargin), 10)
}

func (d *InfoDialog) renderContent(width int) string {
	width = max(width, 1)
	var lines []string

	for i, section := range d.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if section.Title != "" {
			lines = append(lines, styles.SectionStyle.Render(section.Title))
		}
		if section.Text != "" {
			lines = append(lines, styles.SummaryStyle.Width(width).Render(section.Text))
		}
		for _, item := range section.Items {
			lines = append(lines, formatInfoItem(item, width))
		}
	}

	return strings.Join(lines, "\n")
}

func formatInfoItem(item InfoItem, width int) string {
	label := styles.LabelStyle.Render(item.Label)
	row := label
	if item.Value != "" {
		row += "  " + styles.MutedStyle.Render(item.Value)
	}
	if icon := statusIcon(item.Status); icon != "" {
		row = icon + " " + row
	}
	return lipgloss.NewStyle().Width(width).Render(row)
}

func statusIcon(s InfoStatus) string {
	switch s {
	case InfoStatusPass:
		return styles.SuccessStyle.Render("✔")
	case InfoStatusWarn:
		return styles.WarningStyle.Render("●")
	default:
		return ""
	}
}

// ScrollUp scrolls the content up one line.
func (d *InfoDialog) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the content down one line.
func (d *InfoDialog) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// View renders the dialog box.
func (d *InfoDialog) View() string {
	title := d.title
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		title += styles.MutedStyle.Render(fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.DividerStyle.Render(strings.Repeat("─", max(d.width-6, 1))),
		d.viewport.View(),
		styles.ModalHelpStyle.Render(d.helpText),
	)

	return styles.ModalStyle.
		Width(d.width).
		MaxHeight(d.height).
		Render(content)
}

// Overlay renders the dialog centred over background.
func (d *InfoDialog) Overlay(background string, width, height int) string {
	return center(background, d.View(), width, height)
}

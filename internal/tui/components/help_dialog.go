// Package components provides reusable TUI components.
package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/styles"
)

const helpKeyWidth = 14

// HelpEntry is a single keyboard shortcut.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups related help entries under a title.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpDialog lists the available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a help dialog with the given sections.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{
		title:    title,
		sections: sections,
	}
}

// View renders the dialog box.
func (h *HelpDialog) View() string {
	var lines []string
	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.SectionStyle.Render(section.Title))
		}
		for _, e := range section.Entries {
			lines = append(lines, formatKeyDesc(e.Key, e.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(h.title),
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the dialog centred over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return center(background, h.View(), width, height)
}

func formatKeyDesc(key, desc string) string {
	pad := max(helpKeyWidth-lipgloss.Width(key), 1)
	return styles.HelpKeyStyle.Render(key+strings.Repeat(" ", pad)) + styles.HelpDescStyle.Render(desc)
}

// center composites modal over background in the middle of the screen.
func center(background, modal string, width, height int) string {
	bg := lipgloss.NewLayer(background)
	fg := lipgloss.NewLayer(modal)

	x := max((width-lipgloss.Width(modal))/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)
	fg.X(x).Y(y).Z(1)

	return lipgloss.NewCompositor(bg, fg).Render()
}

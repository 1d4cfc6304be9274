package tui

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/extract"
	"github.com/colonyops/redpen/internal/core/styles"
	"github.com/colonyops/redpen/internal/grader"
)

// View renders the current screen.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) render() string {
	var out string
	switch m.state {
	case stateGraded:
		out = m.view.View()
	case stateFailed:
		out = m.renderFailed()
	default:
		out = m.renderLoading()
	}
	return m.toasts.Overlay(out, m.width)
}

func (m Model) renderLoading() string {
	msg := lipgloss.JoinHorizontal(lipgloss.Left,
		m.spinner.View(),
		" ",
		styles.MutedStyle.Render("Marking "+title(m.opts.Path)+"..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) renderFailed() string {
	width := min(max(m.width-8, 20), 72)

	lines := []string{
		styles.ErrorStyle.Render(styles.IconWarning + " Could not grade " + title(m.opts.Path)),
		"",
		lipgloss.NewStyle().Width(width).Render(m.err.Error()),
	}
	if hint := failureHint(m.err); hint != "" {
		lines = append(lines, "", styles.MutedStyle.Width(width).Render(hint))
	}
	lines = append(lines, styles.ModalHelpStyle.Render("r retry • q quit"))

	box := styles.ModalStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		return "Supported files: .txt, .md, .docx, .pdf and plain-text .doc."
	case errors.Is(err, extract.ErrLegacyDoc):
		return "Save the document as DOCX or PDF and try again."
	case errors.Is(err, extract.ErrEmptyContent):
		return "Scanned PDFs have no text layer. Export a text PDF or DOCX."
	case errors.Is(err, grader.ErrMissingAPIKey):
		return "Pass --mistakes to grade from a JSON file instead."
	default:
		return ""
	}
}

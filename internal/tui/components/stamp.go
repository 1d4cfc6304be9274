package components

import (
	"fmt"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redpen/internal/core/styles"
)

// ScoreStamp renders the grade and score in a boxed stamp. It returns an
// empty string when the producer gave neither.
func ScoreStamp(grade string, score int) string {
	if grade == "" && score == 0 {
		return ""
	}

	lines := make([]string, 0, 2)
	if grade != "" {
		lines = append(lines, styles.StampGradeStyle.Render(grade))
	}
	lines = append(lines, fmt.Sprintf("%d/100", score))

	return styles.StampStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

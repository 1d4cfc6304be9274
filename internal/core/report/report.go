// Package report renders a graded document as a Markdown feedback report.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/mistake"
)

// Generate builds the Markdown report for a graded document. title names the
// document in the header. Corrections are listed in document order with the
// line they occur on; records that never matched are counted at the end.
func Generate(title string, a *mistake.Analysis, segs []annotate.Segment) string {
	if a == nil {
		a = &mistake.Analysis{}
	}

	var b strings.Builder
	doc := annotate.Join(segs)
	annotated := annotate.AnnotatedSegments(segs)

	if a.Grade != "" {
		fmt.Fprintf(&b, "# Grade: %s (%d/100)\n\n", a.Grade, a.Score)
	} else {
		b.WriteString("# Feedback\n\n")
	}
	if title != "" {
		fmt.Fprintf(&b, "_%s_\n\n", escape(title))
	}

	if s := strings.TrimSpace(a.Summary); s != "" {
		for _, line := range strings.Split(s, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString("\n")
	}

	if len(a.Strengths) > 0 {
		b.WriteString("## Strengths\n\n")
		for _, s := range a.Strengths {
			fmt.Fprintf(&b, "- %s\n", oneLine(s))
		}
		b.WriteString("\n")
	}

	if len(annotated) > 0 {
		b.WriteString("## Summary by category\n\n")
		b.WriteString("| Category | Count |\n|---|---:|\n")
		for _, row := range categoryRows(annotated) {
			fmt.Fprintf(&b, "| %s | %d |\n", row.category, row.count)
		}
		b.WriteString("\n")

		fmt.Fprintf(&b, "## Corrections (%d)\n\n", len(annotated))
		for i, seg := range annotated {
			m := seg.Mistake
			fmt.Fprintf(&b, "### %d. %s, line %d\n\n", i+1, m.Category, lineOf(doc, seg.Start))
			fmt.Fprintf(&b, "~~%s~~ → **%s**\n\n", oneLine(m.Original), oneLine(m.Correction))
			fmt.Fprintf(&b, "%s\n\n", oneLine(m.Explanation))
		}
	} else {
		b.WriteString("No corrections.\n\n")
	}

	if missed := len(a.Mistakes) - len(annotated); missed > 0 {
		fmt.Fprintf(&b, "---\n\n%d suggestion(s) could not be located in the document text.\n", missed)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

type categoryRow struct {
	category mistake.Category
	count    int
}

// categoryRows lists known categories in display order, then unknown ones
// alphabetically. Categories with no corrections are omitted.
func categoryRows(segs []annotate.Segment) []categoryRow {
	records := make([]mistake.Record, 0, len(segs))
	for _, s := range segs {
		records = append(records, *s.Mistake)
	}
	counts := mistake.CountByCategory(records)

	rows := make([]categoryRow, 0, len(counts))
	for _, c := range mistake.Categories {
		if n := counts[c]; n > 0 {
			rows = append(rows, categoryRow{c, n})
			delete(counts, c)
		}
	}

	rest := make([]categoryRow, 0, len(counts))
	for c, n := range counts {
		rest = append(rest, categoryRow{c, n})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].category < rest[j].category })

	return append(rows, rest...)
}

// lineOf returns the 1-based line number of byte offset off in doc.
func lineOf(doc string, off int) int {
	off = min(max(off, 0), len(doc))
	return strings.Count(doc[:off], "\n") + 1
}

func oneLine(s string) string {
	return escape(strings.Join(strings.Fields(s), " "))
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

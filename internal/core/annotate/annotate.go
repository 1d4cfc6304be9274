// Package annotate partitions a document into plain and annotated segments
// from an ordered list of mistake records.
//
// Records are matched in input order. Each record binds to the first
// occurrence of its Original text found in the segments that are still
// unannotated, scanning left to right. Once a segment is annotated it is
// never searched again, so later records can only match residual text and
// annotated ranges never overlap.
package annotate

import (
	"strings"

	"github.com/colonyops/redpen/internal/core/mistake"
)

// Segment is a contiguous slice of the document. Mistake is nil for plain
// text; otherwise Text equals Mistake.Original.
type Segment struct {
	Text    string
	Mistake *mistake.Record
	Ordinal int // 0-based over annotated segments, -1 for plain text
	Start   int // byte offset of Text in the document
	End     int // byte offset one past the end of Text
}

// Annotated reports whether the segment is bound to a mistake.
func (s Segment) Annotated() bool {
	return s.Mistake != nil
}

// Stats summarises how the input records were consumed.
type Stats struct {
	Matched   int
	Dropped   int // valid records whose Original was not found in residual text
	Malformed int // records missing a required field
}

// Annotate returns the segments for document given mistakes in priority order.
func Annotate(document string, mistakes []mistake.Record) []Segment {
	segs, _ := AnnotateWithStats(document, mistakes)
	return segs
}

// AnnotateWithStats is Annotate plus a tally of matched, dropped and
// malformed records.
func AnnotateWithStats(document string, mistakes []mistake.Record) ([]Segment, Stats) {
	var stats Stats
	if document == "" {
		for i := range mistakes {
			if mistakes[i].Valid() {
				stats.Dropped++
			} else {
				stats.Malformed++
			}
		}
		return []Segment{}, stats
	}

	segs := []Segment{{Text: document, Ordinal: -1, Start: 0, End: len(document)}}
	ordinal := 0

	for _, m := range mistakes {
		rec := &m
		if !rec.Valid() {
			stats.Malformed++
			continue
		}

		idx, at := findUnannotated(segs, rec.Original)
		if idx < 0 {
			stats.Dropped++
			continue
		}

		segs = splice(segs, idx, at, rec, ordinal)
		ordinal++
		stats.Matched++
	}

	return segs, stats
}

// findUnannotated returns the index of the first plain segment containing
// needle and the byte offset of the match within it, or -1.
func findUnannotated(segs []Segment, needle string) (int, int) {
	if needle == "" {
		return -1, 0
	}
	for i, seg := range segs {
		if seg.Annotated() {
			continue
		}
		if at := strings.Index(seg.Text, needle); at >= 0 {
			return i, at
		}
	}
	return -1, 0
}

// splice replaces segs[idx] with up to three parts: prefix, match, suffix.
func splice(segs []Segment, idx, at int, rec *mistake.Record, ordinal int) []Segment {
	seg := segs[idx]
	end := at + len(rec.Original)

	parts := make([]Segment, 0, 3)
	if at > 0 {
		parts = append(parts, Segment{
			Text:    seg.Text[:at],
			Ordinal: -1,
			Start:   seg.Start,
			End:     seg.Start + at,
		})
	}
	parts = append(parts, Segment{
		Text:    seg.Text[at:end],
		Mistake: rec,
		Ordinal: ordinal,
		Start:   seg.Start + at,
		End:     seg.Start + end,
	})
	if end < len(seg.Text) {
		parts = append(parts, Segment{
			Text:    seg.Text[end:],
			Ordinal: -1,
			Start:   seg.Start + end,
			End:     seg.End,
		})
	}

	out := make([]Segment, 0, len(segs)+len(parts)-1)
	out = append(out, segs[:idx]...)
	out = append(out, parts...)
	out = append(out, segs[idx+1:]...)
	return out
}

// Join concatenates segment text. For any Annotate output it reproduces the
// original document.
func Join(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// AnnotatedSegments returns the annotated segments in document order.
func AnnotatedSegments(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Annotated() {
			out = append(out, s)
		}
	}
	return out
}

// ByOrdinal returns the annotated segment with the given ordinal.
func ByOrdinal(segs []Segment, ordinal int) (Segment, bool) {
	for _, s := range segs {
		if s.Annotated() && s.Ordinal == ordinal {
			return s, true
		}
	}
	return Segment{}, false
}

package graded

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/overlay"
)

const tabWidth = 4

// Run is a stretch of one line that belongs to a single segment.
type Run struct {
	Text    string
	Ordinal int // -1 for plain text
	Col     int
	Width   int
}

// Line is one wrapped row of the document.
type Line struct {
	Runs  []Run
	Width int
}

// Layout is the word-wrapped document with the cell rects of every
// annotated span. Rects are in document coordinates: X is the column, Y the
// wrapped line index.
type Layout struct {
	Width int
	Lines []Line

	spans map[int][]overlay.Rect
	order []int
}

// NewLayout wraps segs to width columns. Words move to the next line when
// they do not fit; a word wider than the whole line is broken between
// graphemes. Spaces swallowed by a soft wrap are not drawn.
func NewLayout(segs []annotate.Segment, width int) *Layout {
	b := &layoutBuilder{width: max(width, 1)}

	var order []int
	for _, seg := range segs {
		ord := -1
		if seg.Annotated() {
			ord = seg.Ordinal
			order = append(order, ord)
		}
		b.addText(seg.Text, ord)
	}
	b.finish()

	l := &Layout{
		Width: b.width,
		Lines: b.lines,
		spans: make(map[int][]overlay.Rect),
		order: order,
	}
	for y, line := range l.Lines {
		for _, r := range line.Runs {
			if r.Ordinal < 0 {
				continue
			}
			l.spans[r.Ordinal] = append(l.spans[r.Ordinal], overlay.NewRect(r.Col, y, r.Width, 1))
		}
	}
	return l
}

// Order returns the annotated ordinals in document order.
func (l *Layout) Order() []int {
	return l.order
}

// Rects returns the per-line rects of a span. A span whose text was entirely
// swallowed by wrapping has none.
func (l *Layout) Rects(ordinal int) []overlay.Rect {
	return l.spans[ordinal]
}

// Bounds returns the bounding box of a span, or nil when it has no geometry.
func (l *Layout) Bounds(ordinal int) *overlay.Rect {
	rects := l.spans[ordinal]
	if len(rects) == 0 {
		return nil
	}
	var u overlay.Rect
	for _, r := range rects {
		u = u.Union(r)
	}
	return &u
}

// HitTest returns the ordinal of the span under p.
func (l *Layout) HitTest(p overlay.Point) (int, bool) {
	for ord, rects := range l.spans {
		for _, r := range rects {
			if r.Contains(p) {
				return ord, true
			}
		}
	}
	return -1, false
}

// Text returns the plain wrapped text, one row per line.
func (l *Layout) Text() string {
	rows := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		var sb strings.Builder
		for _, r := range line.Runs {
			sb.WriteString(r.Text)
		}
		rows[i] = sb.String()
	}
	return strings.Join(rows, "\n")
}

type piece struct {
	text    string
	ordinal int
	width   int
}

type layoutBuilder struct {
	width int
	lines []Line
	cur   Line
	soft  bool // current line was opened by a wrap

	word      []piece
	wordWidth int
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenSpace
	tokenNewline
)

func classify(r rune) tokenKind {
	switch r {
	case '\n':
		return tokenNewline
	case ' ', '\t':
		return tokenSpace
	default:
		return tokenWord
	}
}

// addText splits s into word, space and newline tokens. Words may continue
// across segment boundaries so punctuation after a span wraps with it.
func (b *layoutBuilder) addText(s string, ordinal int) {
	s = strings.ReplaceAll(s, "\r", "")
	for s != "" {
		r, _ := utf8.DecodeRuneInString(s)
		kind := classify(r)

		end := 0
		for end < len(s) {
			rr, size := utf8.DecodeRuneInString(s[end:])
			if classify(rr) != kind || (kind == tokenNewline && end > 0) {
				break
			}
			end += size
		}
		tok := s[:end]
		s = s[end:]

		switch kind {
		case tokenNewline:
			b.flushWord()
			b.newLine(false)
		case tokenSpace:
			b.flushWord()
			b.addSpace(strings.ReplaceAll(tok, "\t", strings.Repeat(" ", tabWidth)), ordinal)
		default:
			w := uniseg.StringWidth(tok)
			b.word = append(b.word, piece{text: tok, ordinal: ordinal, width: w})
			b.wordWidth += w
		}
	}
}

func (b *layoutBuilder) addSpace(s string, ordinal int) {
	if b.cur.Width == 0 && b.soft {
		return
	}
	w := len(s)
	if b.cur.Width+w > b.width {
		b.newLine(true)
		return
	}
	b.place(s, ordinal, w)
}

func (b *layoutBuilder) flushWord() {
	if len(b.word) == 0 {
		return
	}
	word, width := b.word, b.wordWidth
	b.word, b.wordWidth = nil, 0

	if b.cur.Width > 0 && b.cur.Width+width > b.width {
		b.newLine(true)
	}

	if width <= b.width-b.cur.Width {
		for _, p := range word {
			b.place(p.text, p.ordinal, p.width)
		}
		return
	}

	// Wider than a full line: break between graphemes.
	for _, p := range word {
		rest := p.text
		state := -1
		for rest != "" {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			if b.cur.Width > 0 && b.cur.Width+w > b.width {
				b.newLine(true)
			}
			b.place(cluster, p.ordinal, w)
		}
	}
}

func (b *layoutBuilder) place(text string, ordinal, width int) {
	if n := len(b.cur.Runs); n > 0 {
		last := &b.cur.Runs[n-1]
		if last.Ordinal == ordinal && last.Col+last.Width == b.cur.Width {
			last.Text += text
			last.Width += width
			b.cur.Width += width
			return
		}
	}
	b.cur.Runs = append(b.cur.Runs, Run{
		Text:    text,
		Ordinal: ordinal,
		Col:     b.cur.Width,
		Width:   width,
	})
	b.cur.Width += width
}

func (b *layoutBuilder) newLine(soft bool) {
	if soft {
		b.trimTrailingSpace()
	}
	b.lines = append(b.lines, b.cur)
	b.cur = Line{}
	b.soft = soft
}

// trimTrailingSpace drops the spaces a soft wrap leaves at the end of the
// current line.
func (b *layoutBuilder) trimTrailingSpace() {
	for n := len(b.cur.Runs); n > 0; n = len(b.cur.Runs) {
		last := &b.cur.Runs[n-1]
		trimmed := strings.TrimRight(last.Text, " ")
		cut := len(last.Text) - len(trimmed)
		if cut == 0 {
			return
		}
		last.Text = trimmed
		last.Width -= cut
		b.cur.Width -= cut
		if last.Text != "" {
			return
		}
		b.cur.Runs = b.cur.Runs[:n-1]
	}
}

func (b *layoutBuilder) finish() {
	b.flushWord()
	if b.cur.Width > 0 || len(b.cur.Runs) > 0 || len(b.lines) == 0 {
		b.lines = append(b.lines, b.cur)
	}
}

package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/mistake"
)

// pixelGeometry mirrors the browser design values.
func pixelGeometry() Geometry {
	return Geometry{
		Breakpoint:    768,
		OverlayWidth:  288,
		OverlayHeight: 200,
		Offset:        8,
		Margin:        16,
		PanelFraction: 0.7,
	}
}

func segment(ordinal int, text string) annotate.Segment {
	return annotate.Segment{
		Text:    text,
		Ordinal: ordinal,
		Mistake: &mistake.Record{
			Original:    text,
			Correction:  "fixed",
			Explanation: "explained",
			Category:    mistake.CategorySpelling,
		},
	}
}

func rectPtr(r Rect) *Rect {
	return &r
}

func TestPlace(t *testing.T) {
	g := pixelGeometry()

	tests := []struct {
		name string
		span Rect
		vp   Viewport
		want Point
	}{
		{
			name: "default below span",
			span: NewRect(400, 100, 100, 20),
			vp:   Viewport{Width: 1200, Height: 800},
			want: Point{X: 450, Y: 128},
		},
		{
			name: "clamped right edge",
			span: NewRect(1150, 100, 40, 20),
			vp:   Viewport{Width: 1200, Height: 800},
			want: Point{X: 1200 - 144 - 16, Y: 128},
		},
		{
			name: "clamped left edge",
			span: NewRect(0, 100, 20, 20),
			vp:   Viewport{Width: 1200, Height: 800},
			want: Point{X: 144 + 16, Y: 128},
		},
		{
			name: "flipped above",
			span: NewRect(400, 700, 100, 20),
			vp:   Viewport{Width: 1200, Height: 800},
			want: Point{X: 450, Y: 700 - 200 - 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Place(tt.span, tt.vp, g))
		})
	}
}

func TestPlace_ClampKeepsCardOnScreen(t *testing.T) {
	g := pixelGeometry()
	// Naive anchor lands at {10, 500}.
	span := NewRect(5, 490, 10, 10)
	vp := Viewport{Width: 320, Height: 600}

	got := Place(span, vp, g)
	assert.GreaterOrEqual(t, got.X-144, 0)
	assert.Greater(t, got.X, 10)
}

func TestPlace_OddWidthStaysInsideViewport(t *testing.T) {
	g := DefaultGeometry()
	g.OverlayWidth = 41
	vp := Viewport{Width: 100, Height: 40}

	for _, left := range []int{0, 1, 20, 60, 78, 95, 99} {
		anchor := Place(NewRect(left, 3, 4, 1), vp, g)
		card := CardRect(anchor, g)
		assert.GreaterOrEqual(t, card.Left, 0, "span at %d", left)
		assert.LessOrEqual(t, card.Right, vp.Width, "span at %d", left)
	}

	anchor := Place(NewRect(78, 3, 4, 1), vp, g)
	assert.Equal(t, Point{X: 100 - 21 - 1, Y: 5}, anchor)
}

func TestPlace_CardRectMatchesAnchor(t *testing.T) {
	g := DefaultGeometry()
	anchor := Place(NewRect(50, 3, 8, 1), Viewport{Width: 120, Height: 40}, g)
	card := CardRect(anchor, g)

	assert.Equal(t, anchor.X-g.OverlayWidth/2, card.Left)
	assert.Equal(t, anchor.Y, card.Top)
	assert.Equal(t, g.OverlayWidth, card.Width)
	assert.Equal(t, g.OverlayHeight, card.Height())
}

func TestPanelRect(t *testing.T) {
	g := DefaultGeometry()
	r := PanelRect(Viewport{Width: 80, Height: 30}, g)
	assert.Equal(t, 21, r.Height())
	assert.Equal(t, 30, r.Bottom)
	assert.Equal(t, 80, r.Width)

	tiny := PanelRect(Viewport{Width: 10, Height: 1}, g)
	assert.Equal(t, 1, tiny.Height())
}

func TestController_FloatingOnWideViewport(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})
	seg := segment(0, "teh")

	st := c.Activate(seg, rectPtr(NewRect(400, 100, 100, 20)))
	require.True(t, st.Open())
	assert.Equal(t, ModeFloating, st.Mode)
	require.NotNil(t, st.Anchor)
	assert.Equal(t, Point{X: 450, Y: 128}, *st.Anchor)
	assert.Same(t, seg.Mistake, st.Active)
	assert.Equal(t, 0, st.Ordinal)

	r := c.OverlayRect()
	require.NotNil(t, r)
	assert.Equal(t, 450-144, r.Left)
}

func TestController_PanelOnNarrowViewport(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 375, Height: 800})

	st := c.Activate(segment(0, "teh"), rectPtr(NewRect(10, 10, 30, 20)))
	require.True(t, st.Open())
	assert.Equal(t, ModePanel, st.Mode)
	assert.Nil(t, st.Anchor)

	r := c.OverlayRect()
	require.NotNil(t, r)
	assert.Equal(t, 560, r.Height())
}

func TestController_ModeExclusivity(t *testing.T) {
	for _, width := range []int{320, 767, 768, 1024} {
		c := NewController(pixelGeometry(), Viewport{Width: width, Height: 800})
		st := c.Activate(segment(0, "x"), rectPtr(NewRect(10, 10, 30, 20)))

		require.True(t, st.Open())
		if st.Mode == ModeFloating {
			assert.NotNil(t, st.Anchor, "width %d", width)
			assert.GreaterOrEqual(t, width, 768)
		} else {
			assert.Nil(t, st.Anchor, "width %d", width)
			assert.Less(t, width, 768)
		}
	}
}

func TestController_ActivationReplacesOpenOverlay(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})
	first := segment(0, "one")
	second := segment(1, "two")

	c.Activate(first, rectPtr(NewRect(100, 100, 30, 20)))
	st := c.Activate(second, rectPtr(NewRect(600, 300, 30, 20)))

	assert.Same(t, second.Mistake, st.Active)
	assert.Equal(t, 1, st.Ordinal)
	require.NotNil(t, st.Anchor)
	assert.Equal(t, 615, st.Anchor.X)
}

func TestController_PlainSegmentIgnored(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})
	st := c.Activate(annotate.Segment{Text: "plain", Ordinal: -1}, rectPtr(NewRect(0, 0, 5, 1)))
	assert.False(t, st.Open())
}

func TestController_DetachedAnchorFailsClosed(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})

	st := c.Activate(segment(0, "x"), nil)
	assert.False(t, st.Open())
	assert.Nil(t, c.OverlayRect())

	// An open overlay is closed as well.
	c.Activate(segment(0, "x"), rectPtr(NewRect(10, 10, 30, 20)))
	st = c.Activate(segment(1, "y"), &Rect{})
	assert.False(t, st.Open())
	assert.Equal(t, -1, st.Ordinal)
}

func TestController_Close(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})
	c.Activate(segment(0, "x"), rectPtr(NewRect(10, 10, 30, 20)))

	st := c.Close()
	assert.False(t, st.Open())
	assert.Nil(t, c.OverlayRect())

	// Closing when idle is harmless.
	assert.False(t, c.Close().Open())
}

func TestController_ResizeCrossingBreakpointForcesClose(t *testing.T) {
	tests := []struct {
		name string
		from Viewport
		to   Viewport
	}{
		{"wide to narrow", Viewport{Width: 1200, Height: 800}, Viewport{Width: 500, Height: 800}},
		{"narrow to wide", Viewport{Width: 500, Height: 800}, Viewport{Width: 1200, Height: 800}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(pixelGeometry(), tt.from)
			require.True(t, c.Activate(segment(0, "x"), rectPtr(NewRect(10, 10, 30, 20))).Open())

			st := c.Resize(tt.to)
			assert.False(t, st.Open())
			assert.Equal(t, tt.to, c.Viewport())
		})
	}
}

func TestController_ResizeWithinClassKeepsOverlay(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 500, Height: 800})
	c.Activate(segment(0, "x"), rectPtr(NewRect(10, 10, 30, 20)))

	st := c.Resize(Viewport{Width: 400, Height: 600})
	require.True(t, st.Open())
	assert.Equal(t, ModePanel, st.Mode)

	r := c.OverlayRect()
	require.NotNil(t, r)
	assert.Equal(t, 420, r.Height())
}

func TestController_ResizeWhileIdleIsNoop(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})
	st := c.Resize(Viewport{Width: 300, Height: 800})
	assert.False(t, st.Open())
	assert.Equal(t, ClassNarrow, c.Class())
}

func TestController_OutsideClick(t *testing.T) {
	c := NewController(pixelGeometry(), Viewport{Width: 1200, Height: 800})
	span := NewRect(400, 100, 100, 20)
	other := NewRect(50, 400, 60, 20)
	c.Regions().SetSpans([]Rect{span, other})
	c.Activate(segment(0, "x"), &span)

	// Inside the card.
	assert.False(t, c.Click(Point{X: 450, Y: 200}))
	// Inside another span.
	assert.False(t, c.Click(Point{X: 60, Y: 405}))
	require.True(t, c.State().Open())

	// Outside every region.
	assert.True(t, c.Click(Point{X: 1100, Y: 700}))
	assert.False(t, c.State().Open())

	// Idle clicks do nothing.
	assert.False(t, c.Click(Point{X: 1100, Y: 700}))
}

func TestController_InjectedClassifier(t *testing.T) {
	always := func(int) Class { return ClassNarrow }
	c := NewController(pixelGeometry(), Viewport{Width: 2000, Height: 800}, WithClassifier(always))

	st := c.Activate(segment(0, "x"), rectPtr(NewRect(10, 10, 30, 20)))
	assert.Equal(t, ModePanel, st.Mode)
}

func TestRegions_Contains(t *testing.T) {
	var r Regions
	assert.False(t, r.Contains(Point{X: 0, Y: 0}))

	r.SetSpans([]Rect{NewRect(0, 0, 2, 1)})
	assert.True(t, r.Contains(Point{X: 1, Y: 0}))
	assert.False(t, r.Contains(Point{X: 2, Y: 0}))

	r.SetOverlay(rectPtr(NewRect(10, 10, 5, 5)))
	assert.True(t, r.Contains(Point{X: 12, Y: 12}))

	r.SetOverlay(nil)
	assert.False(t, r.Contains(Point{X: 12, Y: 12}))
}

func TestRect_Union(t *testing.T) {
	a := NewRect(0, 0, 5, 1)
	b := NewRect(3, 1, 10, 1)
	u := a.Union(b)
	assert.Equal(t, NewRect(0, 0, 13, 2), u)
	assert.Equal(t, b, Rect{}.Union(b))
}

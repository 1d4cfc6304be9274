package overlay

import "math"

// Point is a position in viewport cells. X grows right, Y grows down.
type Point struct {
	X int
	Y int
}

// Rect is the on-screen bounding box of an element. Right and Bottom are
// exclusive edges, so Width == Right-Left.
type Rect struct {
	Left   int
	Right  int
	Top    int
	Bottom int
	Width  int
}

// NewRect builds a Rect from an origin and a size.
func NewRect(left, top, width, height int) Rect {
	return Rect{
		Left:   left,
		Right:  left + width,
		Top:    top,
		Bottom: top + height,
		Width:  width,
	}
}

// Height returns Bottom-Top.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Union returns the smallest rect covering both r and o. An empty operand is
// ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	u := Rect{
		Left:   min(r.Left, o.Left),
		Right:  max(r.Right, o.Right),
		Top:    min(r.Top, o.Top),
		Bottom: max(r.Bottom, o.Bottom),
	}
	u.Width = u.Right - u.Left
	return u
}

// Translate shifts r by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{
		Left:   r.Left + dx,
		Right:  r.Right + dx,
		Top:    r.Top + dy,
		Bottom: r.Bottom + dy,
		Width:  r.Width,
	}
}

// Viewport is the visible drawing area.
type Viewport struct {
	Width  int
	Height int
}

// Geometry holds the fixed design constants used for placement.
type Geometry struct {
	Breakpoint    int     // widths below this use panel mode
	OverlayWidth  int     // floating card width
	OverlayHeight int     // floating card height
	Offset        int     // gap between span and card
	Margin        int     // gap kept from viewport edges when clamping
	PanelFraction float64 // share of viewport height used by the panel
}

// DefaultGeometry returns the terminal-cell defaults.
func DefaultGeometry() Geometry {
	return Geometry{
		Breakpoint:    100,
		OverlayWidth:  40,
		OverlayHeight: 12,
		Offset:        1,
		Margin:        1,
		PanelFraction: 0.7,
	}
}

// Place computes the floating anchor for a span. The anchor is the
// horizontal centre and top edge of the card.
//
// The card defaults to sitting Offset below the span, centred on it. It is
// then clamped horizontally so no part leaves the viewport, and flipped above
// the span when it would overflow the bottom edge.
func Place(span Rect, vp Viewport, g Geometry) Point {
	half := g.OverlayWidth / 2
	anchor := Point{
		X: span.Left + span.Width/2,
		Y: span.Bottom + g.Offset,
	}

	// The card spans [X-half, X-half+OverlayWidth), which is one column
	// wider on the right when the width is odd.
	if anchor.X-half+g.OverlayWidth > vp.Width {
		anchor.X = vp.Width - (g.OverlayWidth - half) - g.Margin
	}
	if anchor.X-half < 0 {
		anchor.X = half + g.Margin
	}
	if anchor.Y+g.OverlayHeight > vp.Height {
		anchor.Y = span.Top - g.OverlayHeight - g.Offset
	}

	return anchor
}

// CardRect returns the floating card bounds for an anchor.
func CardRect(anchor Point, g Geometry) Rect {
	return NewRect(anchor.X-g.OverlayWidth/2, anchor.Y, g.OverlayWidth, g.OverlayHeight)
}

// PanelHeight returns the panel height for a viewport, at least one row.
func PanelHeight(vp Viewport, g Geometry) int {
	h := int(math.Round(float64(vp.Height) * g.PanelFraction))
	return max(1, min(h, vp.Height))
}

// PanelRect returns the bottom-sheet bounds for a viewport.
func PanelRect(vp Viewport, g Geometry) Rect {
	h := PanelHeight(vp, g)
	return NewRect(0, vp.Height-h, vp.Width, h)
}

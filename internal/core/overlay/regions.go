package overlay

// Regions is the set of live areas for outside-click detection: the open
// overlay and every annotated span. A click inside any of them is not an
// outside click.
type Regions struct {
	overlay *Rect
	spans   []Rect
}

// SetOverlay replaces the overlay region. Pass nil when no overlay is open.
func (r *Regions) SetOverlay(rect *Rect) {
	if rect == nil {
		r.overlay = nil
		return
	}
	cp := *rect
	r.overlay = &cp
}

// SetSpans replaces the span regions.
func (r *Regions) SetSpans(rects []Rect) {
	r.spans = append(r.spans[:0], rects...)
}

// Spans returns the registered span regions.
func (r *Regions) Spans() []Rect {
	return r.spans
}

// Contains reports whether p is inside the overlay or any span.
func (r *Regions) Contains(p Point) bool {
	if r.overlay != nil && r.overlay.Contains(p) {
		return true
	}
	for _, s := range r.spans {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

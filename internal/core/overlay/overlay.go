// Package overlay decides how the details of an activated annotation are
// shown: as a floating card anchored to the span on wide viewports, or as a
// bottom panel on narrow ones.
//
// The Controller is a small state machine with three states: idle, floating
// and panel. Events are handled one at a time and each transition replaces
// the State value wholesale, so readers never observe a partial update.
package overlay

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/mistake"
)

// Mode is the presentation used for an open overlay.
type Mode int

const (
	ModeFloating Mode = iota
	ModePanel
)

func (m Mode) String() string {
	switch m {
	case ModeFloating:
		return "floating"
	case ModePanel:
		return "panel"
	default:
		return "unknown"
	}
}

// Class is the viewport class used to pick a mode.
type Class int

const (
	ClassWide Class = iota
	ClassNarrow
)

// Classifier maps a viewport width to a class.
type Classifier func(width int) Class

// BreakpointClassifier classifies widths below breakpoint as narrow.
func BreakpointClassifier(breakpoint int) Classifier {
	return func(width int) Class {
		if width < breakpoint {
			return ClassNarrow
		}
		return ClassWide
	}
}

// State is the overlay state. A nil Active means idle.
type State struct {
	Active  *mistake.Record
	Ordinal int
	Mode    Mode
	Anchor  *Point // floating mode only
}

// Open reports whether an overlay is showing.
func (s State) Open() bool {
	return s.Active != nil
}

// Controller owns the overlay state for one mounted view.
type Controller struct {
	geom     Geometry
	classify Classifier
	viewport Viewport
	state    State
	regions  Regions
	log      zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClassifier overrides the breakpoint classifier.
func WithClassifier(fn Classifier) Option {
	return func(c *Controller) {
		c.classify = fn
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController creates an idle controller for the given viewport.
func NewController(g Geometry, vp Viewport, opts ...Option) *Controller {
	c := &Controller{
		geom:     g,
		classify: BreakpointClassifier(g.Breakpoint),
		viewport: vp,
		state:    State{Ordinal: -1},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Geometry returns the design constants in use.
func (c *Controller) Geometry() Geometry {
	return c.geom
}

// Viewport returns the last viewport seen by the controller.
func (c *Controller) Viewport() Viewport {
	return c.viewport
}

// Class returns the class of the current viewport.
func (c *Controller) Class() Class {
	return c.classify(c.viewport.Width)
}

// Regions exposes the live-region set so the renderer can register span
// bounds after layout.
func (c *Controller) Regions() *Regions {
	return &c.regions
}

// Activate opens the overlay for an annotated segment. bounds is the span's
// on-screen box; nil means the span has no measurable geometry, in which case
// the controller fails closed and ends idle. Plain segments are ignored.
//
// Activating while another overlay is open replaces it directly.
func (c *Controller) Activate(seg annotate.Segment, bounds *Rect) State {
	if !seg.Annotated() {
		return c.state
	}

	if bounds == nil || bounds.Empty() {
		c.log.Debug().Int("ordinal", seg.Ordinal).Msg("activation without geometry, staying closed")
		c.setState(State{Ordinal: -1})
		return c.state
	}

	next := State{
		Active:  seg.Mistake,
		Ordinal: seg.Ordinal,
	}

	switch c.classify(c.viewport.Width) {
	case ClassNarrow:
		next.Mode = ModePanel
	default:
		anchor := Place(*bounds, c.viewport, c.geom)
		next.Mode = ModeFloating
		next.Anchor = &anchor
	}

	c.log.Debug().
		Int("ordinal", seg.Ordinal).
		Stringer("mode", next.Mode).
		Msg("overlay opened")

	c.setState(next)
	return c.state
}

// Close dismisses any open overlay.
func (c *Controller) Close() State {
	if c.state.Open() {
		c.log.Debug().Int("ordinal", c.state.Ordinal).Msg("overlay closed")
	}
	c.setState(State{Ordinal: -1})
	return c.state
}

// Click handles a pointer press that did not activate a span. The overlay is
// dismissed when p lies outside every live region. It returns true when the
// click dismissed the overlay.
func (c *Controller) Click(p Point) bool {
	if !c.state.Open() {
		return false
	}
	if c.regions.Contains(p) {
		return false
	}
	c.Close()
	return true
}

// Resize records a new viewport. If the viewport class changes while an
// overlay is open, the overlay is force-closed rather than converted.
func (c *Controller) Resize(vp Viewport) State {
	prev := c.classify(c.viewport.Width)
	c.viewport = vp
	next := c.classify(vp.Width)

	if c.state.Open() && prev != next {
		c.log.Debug().
			Int("width", vp.Width).
			Msg("viewport class changed, closing overlay")
		c.Close()
		return c.state
	}

	// Keep the overlay region in step with the panel height.
	c.regions.SetOverlay(c.overlayRect(c.state))
	return c.state
}

// OverlayRect returns the bounds of the open overlay, or nil when idle.
func (c *Controller) OverlayRect() *Rect {
	return c.overlayRect(c.state)
}

func (c *Controller) overlayRect(s State) *Rect {
	if !s.Open() {
		return nil
	}
	var r Rect
	switch s.Mode {
	case ModePanel:
		r = PanelRect(c.viewport, c.geom)
	default:
		if s.Anchor == nil {
			return nil
		}
		r = CardRect(*s.Anchor, c.geom)
	}
	return &r
}

func (c *Controller) setState(s State) {
	c.state = s
	c.regions.SetOverlay(c.overlayRect(s))
}

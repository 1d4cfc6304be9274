// Package graded renders an annotated document and the details overlay for
// the span the user activates.
//
// # Coordinates
//
// The Layout works in document coordinates: columns from the left of the
// wrapped text and rows from its first line. The overlay Controller works in
// screen coordinates. A span rect is moved to the screen by adding the body
// padding on X and subtracting the scroll offset from the header height on Y.
// Only rows inside the visible body count as geometry; a span scrolled out of
// view has none and activating it fails closed.
package graded

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/redpen/internal/core/annotate"
	"github.com/colonyops/redpen/internal/core/logging"
	"github.com/colonyops/redpen/internal/core/mistake"
	"github.com/colonyops/redpen/internal/core/overlay"
	"github.com/colonyops/redpen/internal/core/styles"
	"github.com/colonyops/redpen/internal/tui/components"
)

const (
	bodyPadding  = 2
	footerHeight = 1
	wheelStep    = 3
)

// Data is the graded document shown by the view.
type Data struct {
	Title    string
	Analysis *mistake.Analysis
	Segments []annotate.Segment
	Dropped  int // records that matched nothing in the document
}

// View is the Bubble Tea sub-model for a graded document.
type View struct {
	data    Data
	records map[int]*mistake.Record

	keys KeyMap
	help help.Model
	geom overlay.Geometry
	ctrl *overlay.Controller

	layout   *Layout
	viewport viewport.Model
	header   string
	focus    int // index into layout.Order(), -1 when nothing is focused

	info    *components.InfoDialog
	helpDlg *components.HelpDialog

	width  int
	height int
	log    zerolog.Logger
}

// New creates a graded view. The overlay controller is built here, once per
// mounted document.
func New(data Data, g overlay.Geometry, opts ...overlay.Option) *View {
	log := logging.Component("graded")
	opts = append([]overlay.Option{overlay.WithLogger(log)}, opts...)

	records := make(map[int]*mistake.Record)
	for _, seg := range data.Segments {
		if seg.Annotated() {
			records[seg.Ordinal] = seg.Mistake
		}
	}

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.ShortSeparator = styles.HelpDescStyle

	v := &View{
		data:     data,
		records:  records,
		keys:     DefaultKeyMap(),
		help:     h,
		geom:     g,
		ctrl:     overlay.NewController(g, overlay.Viewport{Width: 80, Height: 24}, opts...),
		viewport: viewport.New(),
		focus:    -1,
		log:      log,
	}
	v.SetSize(80, 24)
	return v
}

// State returns the overlay state.
func (v *View) State() overlay.State {
	return v.ctrl.State()
}

// Focused returns the ordinal of the focused span, or -1.
func (v *View) Focused() int {
	if v.layout == nil {
		return -1
	}
	order := v.layout.Order()
	if v.focus < 0 || v.focus >= len(order) {
		return -1
	}
	return order[v.focus]
}

// ModalOpen reports whether a dialog is capturing input.
func (v *View) ModalOpen() bool {
	return v.info != nil || v.helpDlg != nil
}

// SetSize lays the document out for a new terminal size. The controller sees
// the resize first so a class change closes the overlay before anything is
// re-anchored.
func (v *View) SetSize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)

	v.ctrl.Resize(overlay.Viewport{Width: v.width, Height: v.height})

	v.header = v.renderHeader()
	v.layout = NewLayout(v.data.Segments, v.width-2*bodyPadding)
	v.help.SetWidth(v.width)

	v.viewport.SetWidth(v.width)
	v.viewport.SetHeight(v.bodyHeight())
	v.refreshBody()

	if v.info != nil {
		v.openInfo()
	}
	v.afterScroll()
}

// Update handles key and mouse input. It reports whether the message was
// consumed.
func (v *View) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return nil, v.handleKey(msg)
	case tea.MouseClickMsg:
		m := msg.Mouse()
		if m.Button != tea.MouseLeft {
			return nil, false
		}
		v.handleClick(overlay.Point{X: m.X, Y: m.Y})
		return nil, true
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			v.scroll(-wheelStep)
		case tea.MouseWheelDown:
			v.scroll(wheelStep)
		}
		return nil, true
	}
	return nil, false
}

func (v *View) handleKey(msg tea.KeyPressMsg) bool {
	switch {
	case v.info != nil:
		switch {
		case key.Matches(msg, v.keys.Close, v.keys.Info):
			v.info = nil
		case key.Matches(msg, v.keys.Up):
			v.info.ScrollUp()
		case key.Matches(msg, v.keys.Down):
			v.info.ScrollDown()
		default:
			return false
		}
		return true
	case v.helpDlg != nil:
		if key.Matches(msg, v.keys.Close, v.keys.Help) {
			v.helpDlg = nil
			return true
		}
		return false
	}

	switch {
	case key.Matches(msg, v.keys.Next):
		v.moveFocus(1)
	case key.Matches(msg, v.keys.Prev):
		v.moveFocus(-1)
	case key.Matches(msg, v.keys.Activate):
		v.activateFocused()
	case key.Matches(msg, v.keys.Close):
		if !v.ctrl.State().Open() {
			return false
		}
		v.ctrl.Close()
		v.refreshBody()
	case key.Matches(msg, v.keys.Info):
		v.openInfo()
	case key.Matches(msg, v.keys.Help):
		v.openHelp()
	case key.Matches(msg, v.keys.Up):
		v.scroll(-1)
	case key.Matches(msg, v.keys.Down):
		v.scroll(1)
	case key.Matches(msg, v.keys.PageUp):
		v.scroll(-v.bodyHeight())
	case key.Matches(msg, v.keys.PageDown):
		v.scroll(v.bodyHeight())
	default:
		return false
	}
	return true
}

// handleClick routes a left click: clicks on the overlay are swallowed,
// clicks on a span activate it, anything else goes through the controller's
// outside-click check.
func (v *View) handleClick(p overlay.Point) {
	if v.ModalOpen() {
		return
	}
	if r := v.ctrl.OverlayRect(); r != nil && r.Contains(p) {
		return
	}

	if doc, ok := v.toDocument(p); ok {
		if ord, hit := v.layout.HitTest(doc); hit {
			v.setFocusOrdinal(ord)
			v.activate(ord)
			return
		}
	}

	if v.ctrl.Click(p) {
		v.refreshBody()
	}
}

func (v *View) moveFocus(delta int) {
	order := v.layout.Order()
	if len(order) == 0 {
		return
	}

	switch {
	case v.focus < 0 && delta > 0:
		v.focus = 0
	case v.focus < 0:
		v.focus = len(order) - 1
	default:
		v.focus = (v.focus + delta + len(order)) % len(order)
	}

	ord := order[v.focus]
	v.ensureVisible(ord)

	// With an overlay open, focus drags it along.
	if v.ctrl.State().Open() {
		v.activate(ord)
		return
	}
	v.refreshBody()
}

func (v *View) activateFocused() {
	ord := v.Focused()
	if ord < 0 {
		v.moveFocus(1)
		ord = v.Focused()
		if ord < 0 {
			return
		}
	}
	v.ensureVisible(ord)
	v.activate(ord)
}

func (v *View) activate(ord int) {
	seg, ok := annotate.ByOrdinal(v.data.Segments, ord)
	if !ok {
		return
	}
	v.ctrl.Activate(seg, v.screenBounds(ord))
	v.refreshBody()
}

func (v *View) setFocusOrdinal(ord int) {
	for i, o := range v.layout.Order() {
		if o == ord {
			v.focus = i
			return
		}
	}
}

func (v *View) scroll(delta int) {
	switch {
	case delta > 0:
		v.viewport.ScrollDown(delta)
	case delta < 0:
		v.viewport.ScrollUp(-delta)
	}
	v.afterScroll()
}

func (v *View) ensureVisible(ord int) {
	b := v.layout.Bounds(ord)
	if b == nil {
		return
	}
	v.viewport.EnsureVisible(b.Top, 0, 0)
	v.afterScroll()
}

// afterScroll re-registers the visible span regions and moves an open
// floating card to the span's new position.
func (v *View) afterScroll() {
	var rects []overlay.Rect
	for _, ord := range v.layout.Order() {
		rects = append(rects, v.visibleRects(ord)...)
	}
	v.ctrl.Regions().SetSpans(rects)

	st := v.ctrl.State()
	if st.Open() && st.Mode == overlay.ModeFloating {
		v.activate(st.Ordinal)
	}
}

// visibleRects returns the screen rects of a span's rows that are inside the
// body area.
func (v *View) visibleRects(ord int) []overlay.Rect {
	top := v.viewport.YOffset()
	bottom := top + v.bodyHeight()
	dy := v.headerHeight() - top

	var out []overlay.Rect
	for _, r := range v.layout.Rects(ord) {
		if r.Top < top || r.Top >= bottom {
			continue
		}
		out = append(out, r.Translate(bodyPadding, dy))
	}
	return out
}

// screenBounds returns the on-screen bounding box of a span, or nil when no
// part of it is visible.
func (v *View) screenBounds(ord int) *overlay.Rect {
	rects := v.visibleRects(ord)
	if len(rects) == 0 {
		return nil
	}
	var u overlay.Rect
	for _, r := range rects {
		u = u.Union(r)
	}
	return &u
}

// toDocument maps a screen point into layout coordinates.
func (v *View) toDocument(p overlay.Point) (overlay.Point, bool) {
	row := p.Y - v.headerHeight()
	if row < 0 || row >= v.bodyHeight() {
		return overlay.Point{}, false
	}
	return overlay.Point{X: p.X - bodyPadding, Y: row + v.viewport.YOffset()}, true
}

func (v *View) headerHeight() int {
	return lipgloss.Height(v.header)
}

func (v *View) bodyHeight() int {
	return max(v.height-v.headerHeight()-footerHeight, 1)
}

func (v *View) openInfo() {
	v.info = components.NewInfoDialog(
		styles.IconInfo+" Report card",
		v.infoSections(),
		"j/k scroll • esc close",
		v.width,
		v.height,
	)
}

func (v *View) infoSections() []components.InfoSection {
	a := v.data.Analysis
	if a == nil {
		a = &mistake.Analysis{}
	}

	var sections []components.InfoSection
	if a.Summary != "" {
		sections = append(sections, components.InfoSection{Title: "Summary", Text: a.Summary})
	}

	if len(a.Strengths) > 0 {
		items := make([]components.InfoItem, 0, len(a.Strengths))
		for _, s := range a.Strengths {
			items = append(items, components.InfoItem{Label: s, Status: components.InfoStatusPass})
		}
		sections = append(sections, components.InfoSection{Title: "Strengths", Items: items})
	}

	counts := v.categoryCounts()
	items := make([]components.InfoItem, 0, len(counts))
	for _, c := range counts {
		items = append(items, components.InfoItem{
			Label:  c.category.String(),
			Value:  fmt.Sprintf("%d", c.count),
			Status: components.InfoStatusWarn,
		})
	}
	if v.data.Dropped > 0 {
		items = append(items, components.InfoItem{
			Label: "Not found in document",
			Value: fmt.Sprintf("%d", v.data.Dropped),
		})
	}
	if len(items) == 0 {
		items = append(items, components.InfoItem{Label: "No corrections", Status: components.InfoStatusPass})
	}
	sections = append(sections, components.InfoSection{Title: "Corrections", Items: items})

	return sections
}

func (v *View) openHelp() {
	titles := []string{"Mistakes", "Scrolling", "General"}
	groups := v.keys.FullHelp()

	sections := make([]components.HelpDialogSection, 0, len(groups)+1)
	for i, group := range groups {
		entries := make([]components.HelpEntry, 0, len(group))
		for _, b := range group {
			entries = append(entries, components.HelpEntry{Key: b.Help().Key, Desc: b.Help().Desc})
		}
		sections = append(sections, components.HelpDialogSection{Title: titles[i], Entries: entries})
	}
	sections = append(sections, components.HelpDialogSection{
		Entries: []components.HelpEntry{
			{Key: "click", Desc: "open a mistake"},
			{Key: "r", Desc: "grade again"},
			{Key: "q", Desc: "quit"},
		},
	})

	v.helpDlg = components.NewHelpDialog("Keyboard shortcuts", sections)
}

type categoryCount struct {
	category mistake.Category
	count    int
}

// categoryCounts tallies the annotated spans, known categories first.
func (v *View) categoryCounts() []categoryCount {
	var recs []mistake.Record
	for _, seg := range annotate.AnnotatedSegments(v.data.Segments) {
		recs = append(recs, *seg.Mistake)
	}
	counts := mistake.CountByCategory(recs)

	out := make([]categoryCount, 0, len(counts))
	for _, c := range mistake.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, categoryCount{c, n})
			delete(counts, c)
		}
	}
	var unknown []mistake.Category
	for c := range counts {
		unknown = append(unknown, c)
	}
	slices.Sort(unknown)
	for _, c := range unknown {
		out = append(out, categoryCount{c, counts[c]})
	}
	return out
}

// statusLine is the right side of the footer.
func (v *View) statusLine() string {
	n := len(v.layout.Order())
	parts := []string{fmt.Sprintf("%d mistakes", n)}
	if ord := v.Focused(); ord >= 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", v.focus+1, n))
	}
	if v.data.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d unmatched", v.data.Dropped))
	}
	return strings.Join(parts, " • ")
}

package vellum

import (
	"math"

	"github.com/ayn2op/vellum/datasource"
	"github.com/ayn2op/vellum/gesture"
)

// ItemBuilder returns the component displaying one list item.
type ItemBuilder func(item any) Component

// Sequence is a scrolling list of rows bound to a dynamic data source. Each
// loaded item materializes one child built by the item builder; scrolling
// reports the visible window back to the list so it can fetch ahead and trim
// what has moved far away.
//
// Rows have a uniform extent along the scroll axis. The scroll position is
// measured in units from the first loaded item and stays put when items are
// inserted above the viewport, whether by a backward lazy load or a
// directive edit.
type Sequence struct {
	*Base

	horizontal bool
	rowExtent  float64
	snapToRows bool
	retainRows int
	trackEnd   bool
	atEnd      bool

	builder ItemBuilder
	list    *datasource.List

	scroll sequenceScroll
}

type sequenceScroll struct {
	// Row index of the item at the viewport top.
	top int
	// Offset into the top row, in units.
	offset float64
	// Scroll delta in rows to fold in once the viewport has a size.
	pending float64
	// Row to bring into view once the viewport has a size, -1 for none.
	wantsRow int
}

func NewSequence() *Sequence {
	s := &Sequence{
		rowExtent: 1,
		scroll:    sequenceScroll{wantsRow: -1},
	}
	s.Base = newBase(s, "Sequence")
	return s
}

// SetHorizontal sets the scroll axis. The default is vertical.
func (s *Sequence) SetHorizontal(horizontal bool) *Sequence {
	s.horizontal = horizontal
	s.refresh()
	return s
}

// Horizontal reports whether the sequence scrolls along the x axis.
func (s *Sequence) Horizontal() bool {
	return s.horizontal
}

// SetRowExtent sets the size of one row along the scroll axis, in units.
func (s *Sequence) SetRowExtent(extent float64) *Sequence {
	if extent > 0 {
		s.rowExtent = extent
		s.refresh()
	}
	return s
}

// SetSnapToRows toggles snapping the resting scroll position to row
// boundaries after a drag or fling.
func (s *Sequence) SetSnapToRows(snap bool) *Sequence {
	s.snapToRows = snap
	return s
}

// SetRetainRows sets how many rows beyond the viewport are kept loaded on
// each side before the list is asked to trim. Zero disables trimming.
func (s *Sequence) SetRetainRows(rows int) *Sequence {
	if rows < 0 {
		rows = 0
	}
	s.retainRows = rows
	return s
}

// SetTrackEnd toggles following appended items when the view is already at
// the end.
func (s *Sequence) SetTrackEnd(track bool) *Sequence {
	s.trackEnd = track
	return s
}

// SetItemBuilder sets the builder used to materialize one child per loaded
// item.
func (s *Sequence) SetItemBuilder(builder ItemBuilder) *Sequence {
	s.builder = builder
	return s
}

// List returns the bound list, or nil.
func (s *Sequence) List() *datasource.List {
	return s.list
}

// BindList attaches the sequence to a list, materializing children for the
// items already loaded and subscribing to changes. A previous binding is
// released first.
func (s *Sequence) BindList(list *datasource.List) *Sequence {
	s.UnbindList()
	if list == nil {
		return s
	}
	s.list = list
	min, max := list.Range()
	for logical := min; logical <= max; logical++ {
		item, _ := list.ItemAt(logical)
		s.InsertChild(logical-min, s.buildItem(item))
	}
	list.Attach(s)
	s.refresh()
	return s
}

// UnbindList detaches from the bound list and removes all children.
func (s *Sequence) UnbindList() *Sequence {
	if s.list == nil {
		return s
	}
	s.list.Detach(s)
	s.list = nil
	for s.ChildCount() > 0 {
		s.RemoveChild(s.ChildCount() - 1)
	}
	s.scroll = sequenceScroll{wantsRow: -1}
	s.atEnd = false
	return s
}

func (s *Sequence) buildItem(item any) Component {
	if s.builder != nil {
		if c := s.builder(item); c != nil {
			return c
		}
	}
	return NewContainer()
}

// ItemsInserted materializes children for newly arrived items. Insertions at
// or above the top row shift the scroll position so the viewport content
// stays put.
func (s *Sequence) ItemsInserted(index, count int) {
	had := s.ChildCount() > 0
	min, _ := s.list.Range()
	for i := 0; i < count; i++ {
		item, _ := s.list.ItemAt(min + index + i)
		s.InsertChild(index+i, s.buildItem(item))
	}
	switch {
	case had && index <= s.scroll.top:
		s.scroll.top += count
		s.markDirty(PropertyScrollPosition)
	case s.trackEnd && s.atEnd:
		s.scroll.wantsRow = s.ChildCount() - 1
	}
	s.refresh()
}

// ItemsRemoved drops the children for removed items, keeping the viewport
// stable when the removal happened entirely above it.
func (s *Sequence) ItemsRemoved(index, count int) {
	for i := 0; i < count; i++ {
		s.RemoveChild(index)
	}
	switch {
	case index+count <= s.scroll.top:
		s.scroll.top -= count
		s.markDirty(PropertyScrollPosition)
	case index < s.scroll.top:
		// The removal swallowed the top row; land on the removal point.
		s.scroll.top = index
		s.scroll.offset = 0
		s.markDirty(PropertyScrollPosition)
	}
	s.refresh()
}

// ItemsReplaced rebuilds the children for overwritten items.
func (s *Sequence) ItemsReplaced(index, count int) {
	min, _ := s.list.Range()
	for i := 0; i < count; i++ {
		s.RemoveChild(index + i)
		item, _ := s.list.ItemAt(min + index + i)
		s.InsertChild(index+i, s.buildItem(item))
	}
	s.refresh()
}

// ScrollPosition returns the scroll offset from the first loaded item, in
// units.
func (s *Sequence) ScrollPosition() float64 {
	return float64(s.scroll.top)*s.rowExtent + s.scroll.offset
}

// SetScrollPosition scrolls to an absolute position, clamped to the content.
func (s *Sequence) SetScrollPosition(pos float64) {
	s.setPosition(pos)
	s.layout()
	s.ensureVisible()
}

// MaxScrollPosition returns the largest valid scroll position.
func (s *Sequence) MaxScrollPosition() float64 {
	max := float64(s.ChildCount())*s.rowExtent - s.viewportExtent()
	if max < 0 {
		return 0
	}
	return max
}

func (s *Sequence) setPosition(pos float64) {
	pos = math.Min(math.Max(pos, 0), s.MaxScrollPosition())
	if pos != s.ScrollPosition() {
		top := int(pos / s.rowExtent)
		s.scroll.top = top
		s.scroll.offset = pos - float64(top)*s.rowExtent
		s.markDirty(PropertyScrollPosition)
	}
	s.atEnd = pos >= s.MaxScrollPosition()
}

// ScrollBy scrolls by a number of rows; fractions are honored. Positive rows
// scroll toward the end.
func (s *Sequence) ScrollBy(rows float64) *Sequence {
	s.scroll.pending += rows
	s.refresh()
	return s
}

// ScrollUp scrolls one row toward the start.
func (s *Sequence) ScrollUp() *Sequence {
	return s.ScrollBy(-1)
}

// ScrollDown scrolls one row toward the end.
func (s *Sequence) ScrollDown() *Sequence {
	return s.ScrollBy(1)
}

// ScrollToStart scrolls to the first loaded item.
func (s *Sequence) ScrollToStart() *Sequence {
	s.scroll.pending = 0
	s.scroll.wantsRow = -1
	s.setPosition(0)
	s.atEnd = false
	s.refresh()
	return s
}

// ScrollToEnd scrolls so the last loaded items are visible and keeps
// following appends while end tracking is on.
func (s *Sequence) ScrollToEnd() *Sequence {
	if n := s.ChildCount(); n > 0 {
		s.scroll.wantsRow = n - 1
	}
	s.atEnd = true
	s.refresh()
	return s
}

// EnsureRowVisible scrolls the least amount that brings the row fully into
// view. With no viewport size yet the request is held until one arrives.
func (s *Sequence) EnsureRowVisible(row int) *Sequence {
	s.scroll.wantsRow = row
	s.refresh()
	return s
}

// VisibleRows returns the inclusive row window currently in the viewport.
// With no viewport size the window is empty, last below first.
func (s *Sequence) VisibleRows() (first, last int) {
	view := s.viewportExtent()
	if view <= 0 {
		return 0, -1
	}
	return s.visibleRows(view)
}

func (s *Sequence) visibleRows(view float64) (first, last int) {
	pos := s.ScrollPosition()
	first = int(pos / s.rowExtent)
	last = int(math.Ceil((pos+view)/s.rowExtent)) - 1
	if last < first {
		last = first
	}
	return first, last
}

func (s *Sequence) viewportExtent() float64 {
	if s.horizontal {
		return s.Bounds().Width
	}
	return s.Bounds().Height
}

func (s *Sequence) SetBounds(r Rect) {
	s.Base.SetBounds(r)
	s.refresh()
}

// refresh folds in pending scrolling, clamps, repositions the children and
// reports the visible window to the list.
func (s *Sequence) refresh() {
	s.flushScroll()
	s.layout()
	s.ensureVisible()
}

func (s *Sequence) flushScroll() {
	if s.viewportExtent() <= 0 {
		return
	}
	if s.scroll.pending != 0 {
		delta := s.scroll.pending * s.rowExtent
		s.scroll.pending = 0
		s.setPosition(s.ScrollPosition() + delta)
	}
	if row := s.scroll.wantsRow; row >= 0 {
		s.scroll.wantsRow = -1
		s.scrollRowIntoView(row)
	}
	// Reclamp; structural changes may have shrunk the content.
	s.setPosition(s.ScrollPosition())
}

func (s *Sequence) scrollRowIntoView(row int) {
	if row < 0 || row >= s.ChildCount() {
		return
	}
	view := s.viewportExtent()
	pos := s.ScrollPosition()
	rowStart := float64(row) * s.rowExtent
	rowEnd := rowStart + s.rowExtent
	switch {
	case rowStart < pos:
		s.setPosition(rowStart)
	case rowEnd > pos+view:
		s.setPosition(rowEnd - view)
	}
}

// layout stacks the children along the scroll axis, shifted by the scroll
// position.
func (s *Sequence) layout() {
	r := s.Bounds()
	pos := s.ScrollPosition()
	for i := 0; i < s.ChildCount(); i++ {
		child := s.ChildAt(i)
		if s.horizontal {
			child.SetBounds(Rect{
				X:      r.X + float64(i)*s.rowExtent - pos,
				Y:      r.Y,
				Width:  s.rowExtent,
				Height: r.Height,
			})
		} else {
			child.SetBounds(Rect{
				X:      r.X,
				Y:      r.Y + float64(i)*s.rowExtent - pos,
				Width:  r.Width,
				Height: s.rowExtent,
			})
		}
	}
}

// ensureVisible reports the visible logical window to the list so fetches go
// out ahead of the scroll, and asks it to trim beyond the retain window.
func (s *Sequence) ensureVisible() {
	if s.list == nil {
		return
	}
	view := s.viewportExtent()
	if view <= 0 {
		return
	}
	first, last := s.visibleRows(view)
	min, _ := s.list.Range()
	s.list.EnsureRange(min+first, min+last)
	if s.retainRows > 0 {
		s.list.Trim(min+first-s.retainRows, min+last+s.retainRows)
	}
}

// gestures makes the sequence scrollable by drag and fling.
func (s *Sequence) gestures(cfg gesture.Config) []gesture.Gesture {
	sc := gesture.ScrollConfig{Horizontal: s.horizontal, Target: s}
	if s.snapToRows {
		sc.Snap = s.snapScroll
	}
	return []gesture.Gesture{gesture.NewScroll(cfg, sc)}
}

// snapScroll rounds a resting position to a row boundary.
func (s *Sequence) snapScroll(pos float64) float64 {
	return math.Round(pos/s.rowExtent) * s.rowExtent
}

var (
	_ Component                = &Sequence{}
	_ gestureOwner             = &Sequence{}
	_ gesture.ScrollTarget     = &Sequence{}
	_ datasource.ArrayListener = &Sequence{}
)

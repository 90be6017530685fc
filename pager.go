package vellum

import (
	"github.com/ayn2op/vellum/datasource"
	"github.com/ayn2op/vellum/gesture"
)

// Pager shows its children one page at a time. Pages sit side by side along
// the page axis; a fling or drag turns to the neighboring page. Pages come
// from the document as static children or from a bound dynamic list, one
// page per item.
type Pager struct {
	*Base

	vertical bool
	page     int

	builder ItemBuilder
	list    *datasource.List

	onPageChanged func(page int)
}

func NewPager() *Pager {
	p := &Pager{}
	p.Base = newBase(p, "Pager")
	return p
}

// SetVertical sets the page axis. The default is horizontal.
func (p *Pager) SetVertical(vertical bool) *Pager {
	p.vertical = vertical
	p.layout()
	return p
}

// Vertical reports whether pages stack along the y axis.
func (p *Pager) Vertical() bool {
	return p.vertical
}

// SetItemBuilder sets the builder used to materialize one page per loaded
// item when a list is bound.
func (p *Pager) SetItemBuilder(builder ItemBuilder) *Pager {
	p.builder = builder
	return p
}

// SetOnPageChangedFunc sets a handler that fires when a page turn settles.
func (p *Pager) SetOnPageChangedFunc(handler func(page int)) *Pager {
	p.onPageChanged = handler
	return p
}

// SetCurrentPage jumps to a page without a transition.
func (p *Pager) SetCurrentPage(page int) *Pager {
	p.setPage(page)
	return p
}

// CurrentPage returns the index of the displayed page.
func (p *Pager) CurrentPage() int {
	return p.page
}

// PageCount returns the number of pages.
func (p *Pager) PageCount() int {
	return p.ChildCount()
}

// List returns the bound list, or nil.
func (p *Pager) List() *datasource.List {
	return p.list
}

// BindList attaches the pager to a list, materializing one page per loaded
// item and subscribing to changes. A previous binding is released first.
func (p *Pager) BindList(list *datasource.List) *Pager {
	p.UnbindList()
	if list == nil {
		return p
	}
	p.list = list
	min, max := list.Range()
	for logical := min; logical <= max; logical++ {
		item, _ := list.ItemAt(logical)
		p.InsertChild(logical-min, p.buildItem(item))
	}
	list.Attach(p)
	p.reportVisible()
	return p
}

// UnbindList detaches from the bound list and removes all pages.
func (p *Pager) UnbindList() *Pager {
	if p.list == nil {
		return p
	}
	p.list.Detach(p)
	p.list = nil
	for p.ChildCount() > 0 {
		p.Base.RemoveChild(p.ChildCount() - 1)
	}
	p.page = 0
	return p
}

func (p *Pager) buildItem(item any) Component {
	if p.builder != nil {
		if c := p.builder(item); c != nil {
			return c
		}
	}
	return NewContainer()
}

// ItemsInserted materializes pages for newly arrived items, keeping the
// displayed page stable when they land at or before it.
func (p *Pager) ItemsInserted(index, count int) {
	had := p.ChildCount() > 0
	min, _ := p.list.Range()
	for i := 0; i < count; i++ {
		item, _ := p.list.ItemAt(min + index + i)
		p.Base.InsertChild(index+i, p.buildItem(item))
	}
	if had && index <= p.page {
		p.setPage(p.page + count)
		return
	}
	p.layout()
}

// ItemsRemoved drops the pages for removed items. The displayed page follows
// its item when possible and otherwise lands on the removal point.
func (p *Pager) ItemsRemoved(index, count int) {
	next := p.page
	switch {
	case index+count <= p.page:
		next = p.page - count
	case index <= p.page:
		next = index
	}
	for i := 0; i < count; i++ {
		p.Base.RemoveChild(index)
	}
	p.setPage(next)
}

// ItemsReplaced rebuilds the pages for overwritten items.
func (p *Pager) ItemsReplaced(index, count int) {
	min, _ := p.list.Range()
	for i := 0; i < count; i++ {
		p.Base.RemoveChild(index + i)
		item, _ := p.list.ItemAt(min + index + i)
		p.Base.InsertChild(index+i, p.buildItem(item))
	}
	p.layout()
}

func (p *Pager) InsertChild(i int, child Component) {
	p.Base.InsertChild(i, child)
	p.layout()
}

func (p *Pager) RemoveChild(i int) Component {
	child := p.Base.RemoveChild(i)
	p.setPage(p.page)
	return child
}

// SetPageTransition shifts the displayed page and the entering neighbor to a
// turn progress in [0, 1].
func (p *Pager) SetPageTransition(progress float64, forward bool) {
	to := p.page + 1
	shift := -progress * p.pageExtent()
	if !forward {
		to = p.page - 1
		shift = -shift
	}
	p.shiftPage(p.page, shift)
	p.shiftPage(to, shift)
}

// CommitPage makes the transitioned-to neighbor the displayed page.
func (p *Pager) CommitPage(forward bool) {
	next := p.page + 1
	if !forward {
		next = p.page - 1
	}
	p.setPage(next)
}

func (p *Pager) setPage(page int) {
	if n := p.ChildCount(); page >= n {
		page = n - 1
	}
	if page < 0 {
		page = 0
	}
	if page != p.page {
		p.page = page
		p.markDirty(PropertyPage)
	}
	p.clearTransition()
	p.layout()
	p.reportVisible()
}

// reportVisible tells the bound list which item is on screen so fetching
// stays ahead of page turns.
func (p *Pager) reportVisible() {
	if p.list == nil || p.ChildCount() == 0 {
		return
	}
	min, _ := p.list.Range()
	p.list.EnsureRange(min+p.page, min+p.page)
}

func (p *Pager) shiftPage(page int, shift float64) {
	child := p.ChildAt(page)
	if child == nil {
		return
	}
	if p.vertical {
		child.base().SetOffset(Translate{Y: shift})
	} else {
		child.base().SetOffset(Translate{X: shift})
	}
}

func (p *Pager) clearTransition() {
	for i := 0; i < p.ChildCount(); i++ {
		p.ChildAt(i).base().SetOffset(Translate{})
	}
}

func (p *Pager) pageExtent() float64 {
	if p.vertical {
		return p.Bounds().Height
	}
	return p.Bounds().Width
}

func (p *Pager) SetBounds(r Rect) {
	p.Base.SetBounds(r)
	p.layout()
}

// layout places every page in a row along the page axis, the displayed page
// over the pager and its neighbors one extent away.
func (p *Pager) layout() {
	r := p.Bounds()
	e := p.pageExtent()
	for i := 0; i < p.ChildCount(); i++ {
		child := p.ChildAt(i)
		d := float64(i-p.page) * e
		if p.vertical {
			child.SetBounds(Rect{X: r.X, Y: r.Y + d, Width: r.Width, Height: r.Height})
		} else {
			child.SetBounds(Rect{X: r.X + d, Y: r.Y, Width: r.Width, Height: r.Height})
		}
	}
}

// gestures makes the pager turnable by drag and fling.
func (p *Pager) gestures(cfg gesture.Config) []gesture.Gesture {
	return []gesture.Gesture{gesture.NewPagerFling(cfg, gesture.PagerFlingConfig{
		Horizontal: !p.vertical,
		Target:     p,
		Extent:     p.pageExtent,
		OnPageChanged: func(page int) gesture.Command {
			if p.onPageChanged != nil {
				p.onPageChanged(page)
			}
			return EmitEventCommand{Event: PageChangedEvent{Target: p, Page: page}}
		},
	})}
}

var (
	_ Component                = &Pager{}
	_ gestureOwner             = &Pager{}
	_ gesture.PagerTarget      = &Pager{}
	_ datasource.ArrayListener = &Pager{}
)

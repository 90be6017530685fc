// Package term hosts an inflated document tree on a terminal. It owns a
// tcell screen, feeds mouse input to the engine as pointer sequences, pumps
// the engine clock from a frame ticker and renders components into cells.
package term

import (
	"fmt"
	"sync"
	"time"

	"github.com/ayn2op/vellum"
	"github.com/ayn2op/vellum/datasource"
	"github.com/ayn2op/vellum/gesture"
	"github.com/gdamore/tcell/v2"
)

const (
	// frameInterval is how often the engine clock advances while the host
	// is idle. Animations and gesture deadlines resolve on this grain.
	frameInterval = 33 * time.Millisecond

	// wheelRows is how many rows one wheel notch scrolls.
	wheelRows = 3.0

	// updateQueueSize bounds updates queued from other goroutines.
	updateQueueSize = 100
)

// GestureConfig returns gesture tunables scaled to character cells. The
// stock values assume pixel coordinates; on a terminal a cell is one unit,
// so distances shrink by roughly an order of magnitude.
func GestureConfig() gesture.Config {
	cfg := gesture.DefaultConfig()
	cfg.PointerSlop = 1
	cfg.SwipeTriggerDistance = 2
	cfg.SwipeVelocityThreshold = 20
	cfg.SwipeAnimationDuration = 150 * time.Millisecond
	cfg.MinimumFlingVelocity = 5
	cfg.FlingDeceleration = 60
	return cfg
}

// Host runs an engine against a terminal screen. Configure it with the
// fluent setters, then call Run; Run owns the screen and the engine until
// the host stops.
//
// The engine is single-threaded under the host's event loop. Other
// goroutines reach it through Post.
type Host struct {
	engine   *vellum.Engine
	screen   tcell.Screen
	theme    Theme
	keymap   Keymap
	title    string
	onEvent  func(event vellum.Event) bool
	renderer *renderer

	updates chan func()
	quit    chan struct{}
	once    sync.Once

	// Everything below is owned by the Run goroutine.
	dragging     bool
	lastX, lastY float64
	errors       []datasource.Error
	showErrors   bool
	forceRedraw  bool
	err          error
}

func NewHost(engine *vellum.Engine) *Host {
	theme := DefaultTheme()
	return &Host{
		engine:   engine,
		theme:    theme,
		keymap:   DefaultKeymap(),
		renderer: newRenderer(theme),
		updates:  make(chan func(), updateQueueSize),
		quit:     make(chan struct{}),
	}
}

// SetScreen sets the screen to run against. Without one the host creates a
// real terminal screen; tests pass a simulation screen.
func (h *Host) SetScreen(screen tcell.Screen) *Host {
	h.screen = screen
	return h
}

func (h *Host) SetTheme(theme Theme) *Host {
	h.theme = theme
	h.renderer = newRenderer(theme)
	return h
}

func (h *Host) SetKeymap(keymap Keymap) *Host {
	h.keymap = keymap
	return h
}

// SetTitle sets the terminal window title for the duration of Run.
func (h *Host) SetTitle(title string) *Host {
	h.title = title
	return h
}

// SetOnEventFunc sets the handler for engine events the host does not act
// on itself: fetch requests, presses, swipes and page changes. The handler
// runs on the host goroutine and must not block.
func (h *Host) SetOnEventFunc(handler func(event vellum.Event) bool) *Host {
	h.onEvent = handler
	return h
}

// Post queues f to run on the host goroutine between event dispatches.
// It is the only safe way to touch the engine from another goroutine while
// Run is active. Posting after Stop is a no-op.
func (h *Host) Post(f func()) {
	select {
	case h.updates <- f:
	case <-h.quit:
	}
}

// Stop makes Run return. Safe to call from any goroutine, more than once.
func (h *Host) Stop() {
	h.once.Do(func() { close(h.quit) })
}

// Run initializes the screen and dispatches events until Stop is called or
// the document queues a quit. It restores the terminal before returning,
// also on panic.
func (h *Host) Run() error {
	if h.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		h.screen = screen
	}
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			h.screen.Fini()
			panic(p)
		}
	}()

	h.screen.SetStyle(h.theme.Background)
	h.screen.EnableMouse()
	h.screen.HideCursor()
	if h.title != "" {
		h.screen.SetTitle(h.title)
	}

	events := make(chan tcell.Event, 16)
	go h.screen.ChannelEvents(events, h.quit)

	h.layoutRoot()
	h.forceRedraw = true
	h.afterEngine()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			h.screen.Fini()
			return h.err

		case event, ok := <-events:
			if !ok {
				h.screen.Fini()
				return h.err
			}
			h.handleEvent(event)
			h.afterEngine()

		case now := <-ticker.C:
			h.engine.UpdateTime(now)
			h.afterEngine()

		case f := <-h.updates:
			f()
			h.afterEngine()
		}
	}
}

// layoutRoot sizes the document to the full screen.
func (h *Host) layoutRoot() {
	root := h.engine.Root()
	if root == nil {
		return
	}
	width, height := h.screen.Size()
	root.SetBounds(vellum.Rect{Width: float64(width), Height: float64(height)})
}

func (h *Host) handleEvent(event tcell.Event) {
	switch event := event.(type) {
	case *tcell.EventResize:
		h.layoutRoot()
		h.forceRedraw = true

	case *tcell.EventKey:
		h.handleKey(event)

	case *tcell.EventMouse:
		h.handleMouse(event)

	case *tcell.EventError:
		h.err = fmt.Errorf("screen: %s", event.Error())
		h.Stop()
	}
}

func (h *Host) handleKey(event *tcell.EventKey) {
	switch {
	case Matches(event, h.keymap.Quit):
		h.Stop()

	case Matches(event, h.keymap.Redraw):
		h.screen.Sync()
		h.forceRedraw = true

	case Matches(event, h.keymap.Errors):
		h.showErrors = !h.showErrors
		h.forceRedraw = true

	case Matches(event, h.keymap.ScrollUp):
		if s := h.firstSequence(); s != nil {
			s.ScrollUp()
		}

	case Matches(event, h.keymap.ScrollDown):
		if s := h.firstSequence(); s != nil {
			s.ScrollDown()
		}

	case Matches(event, h.keymap.HalfPageUp):
		if s := h.firstSequence(); s != nil {
			s.ScrollBy(-h.halfViewport(s))
		}

	case Matches(event, h.keymap.HalfPageDn):
		if s := h.firstSequence(); s != nil {
			s.ScrollBy(h.halfViewport(s))
		}

	case Matches(event, h.keymap.Top):
		if s := h.firstSequence(); s != nil {
			s.ScrollToStart()
		}

	case Matches(event, h.keymap.Bottom):
		if s := h.firstSequence(); s != nil {
			s.ScrollToEnd()
		}

	case Matches(event, h.keymap.PageBack):
		if p := h.firstPager(); p != nil {
			p.SetCurrentPage(p.CurrentPage() - 1)
		}

	case Matches(event, h.keymap.PageForward):
		if p := h.firstPager(); p != nil {
			p.SetCurrentPage(p.CurrentPage() + 1)
		}
	}
}

// handleMouse folds tcell's stateless mouse reports into pointer sequences.
// tcell reports the full button state per event, so a sequence is the span
// over which the primary button stays held.
func (h *Host) handleMouse(event *tcell.EventMouse) {
	x, y := event.Position()
	// Pointer coordinates address cell centers so a hit is unambiguous.
	px, py := float64(x)+0.5, float64(y)+0.5
	buttons := event.Buttons()

	if buttons&tcell.WheelUp != 0 {
		h.wheel(px, py, -wheelRows)
	}
	if buttons&tcell.WheelDown != 0 {
		h.wheel(px, py, wheelRows)
	}

	primary := buttons&tcell.ButtonPrimary != 0
	switch {
	case primary && !h.dragging:
		h.dragging = true
		h.pointer(gesture.Down, px, py, event.When())
	case primary && h.dragging:
		if px != h.lastX || py != h.lastY {
			h.pointer(gesture.Move, px, py, event.When())
		}
	case !primary && h.dragging:
		h.dragging = false
		h.pointer(gesture.Up, px, py, event.When())
	}
	h.lastX, h.lastY = px, py
}

func (h *Host) pointer(phase gesture.Phase, x, y float64, at time.Time) {
	h.engine.HandlePointerEvent(gesture.PointerEvent{Phase: phase, X: x, Y: y, Time: at})
}

// wheel scrolls the innermost sequence under the pointer.
func (h *Host) wheel(x, y float64, rows float64) {
	root := h.engine.Root()
	if root == nil {
		return
	}
	path := vellum.HitPath(root, vellum.Point{X: x, Y: y})
	for i := len(path) - 1; i >= 0; i-- {
		if s, ok := path[i].(*vellum.Sequence); ok {
			s.ScrollBy(rows)
			return
		}
	}
}

// afterEngine drains the events the last engine pass queued, then redraws
// if anything is dirty.
func (h *Host) afterEngine() {
	for _, event := range h.engine.TakeEvents() {
		switch event := event.(type) {
		case vellum.QuitEvent:
			h.Stop()

		case vellum.DataSourceErrorEvent:
			h.errors = append(h.errors, h.engine.PendingErrors(event.Type)...)
			h.showErrors = true
			h.forceRedraw = true

		default:
			if h.onEvent != nil {
				h.onEvent(event)
			}
		}
	}
	h.draw()
}

func (h *Host) draw() {
	dirty := h.engine.TakeDirty()
	if len(dirty) == 0 && !h.forceRedraw {
		return
	}
	if h.forceRedraw {
		h.screen.Clear()
		h.forceRedraw = false
	}
	if root := h.engine.Root(); root != nil {
		h.renderer.Render(h.screen, root)
	}
	if h.showErrors {
		h.renderer.DrawErrorOverlay(h.screen, h.errors)
	}
	h.screen.Show()
}

func (h *Host) halfViewport(s *vellum.Sequence) float64 {
	first, last := s.VisibleRows()
	rows := (last - first + 1) / 2
	if rows < 1 {
		rows = 1
	}
	return float64(rows)
}

// firstSequence finds the sequence keyboard scrolling drives, breadth
// first so an outer feed wins over nested lists.
func (h *Host) firstSequence() *vellum.Sequence {
	var found *vellum.Sequence
	h.search(func(c vellum.Component) bool {
		s, ok := c.(*vellum.Sequence)
		if ok {
			found = s
		}
		return ok
	})
	return found
}

func (h *Host) firstPager() *vellum.Pager {
	var found *vellum.Pager
	h.search(func(c vellum.Component) bool {
		p, ok := c.(*vellum.Pager)
		if ok {
			found = p
		}
		return ok
	})
	return found
}

func (h *Host) search(visit func(vellum.Component) bool) {
	root := h.engine.Root()
	if root == nil {
		return
	}
	queue := []vellum.Component{root}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if visit(c) {
			return
		}
		for i := 0; i < c.ChildCount(); i++ {
			queue = append(queue, c.ChildAt(i))
		}
	}
}

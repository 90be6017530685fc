// Package vellum is the core of a declarative document rendering engine: it
// inflates a JSON document into a component tree, keeps dynamic lists filled
// through lazily fetched data sources, recognizes pointer gestures over the
// tree, and reports what changed so a host can render it.
//
// The engine is deliberately host-agnostic. It draws nothing, owns no
// goroutine and never reads the wall clock: the host feeds it pointer events
// and time, drains its events and dirty components, and answers its fetch
// requests. Everything in between is deterministic.
package vellum

import (
	"errors"
	"io"
	"log"
	"sort"
	"time"

	"github.com/ayn2op/vellum/datasource"
	"github.com/ayn2op/vellum/gesture"
)

// Engine owns one inflated document and everything that animates it: the
// clock, the data source providers, the gesture machine and the dirty
// registry. All methods must be called from a single goroutine; the one
// sanctioned exception is reading component dirtiness, which is atomic.
type Engine struct {
	clock   *Clock
	machine *gesture.Machine

	gestureCfg gesture.Config
	logger     *log.Logger

	providers map[string]datasource.Provider
	builders  map[string]ItemBuilder

	root  Component
	bound []Component

	registry dirtyRegistry
	events   []Event

	pressTarget    pressable
	errorsSignaled map[string]bool
}

// NewEngine returns an engine whose clock starts at now. Time only moves
// when the host pumps it through UpdateTime or event timestamps.
func NewEngine(now time.Time) *Engine {
	return &Engine{
		clock:          NewClock(now),
		machine:        gesture.NewMachine(),
		gestureCfg:     gesture.DefaultConfig(),
		logger:         log.New(io.Discard, "", 0),
		providers:      map[string]datasource.Provider{},
		builders:       map[string]ItemBuilder{},
		errorsSignaled: map[string]bool{},
	}
}

// SetLogger sets the destination for diagnostics. The default discards them.
func (e *Engine) SetLogger(logger *log.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// SetGestureConfig replaces the gesture tunables for sequences started from
// now on.
func (e *Engine) SetGestureConfig(cfg gesture.Config) *Engine {
	e.gestureCfg = cfg
	return e
}

// SetItemBuilder registers the builder a Sequence or Pager with the given
// document id uses to materialize its items. Components without a registered
// builder fall back to plain text rows.
func (e *Engine) SetItemBuilder(id string, builder ItemBuilder) *Engine {
	e.builders[id] = builder
	return e
}

func (e *Engine) itemBuilder(id string) ItemBuilder {
	if id != "" {
		if b, ok := e.builders[id]; ok {
			return b
		}
	}
	return defaultItemBuilder
}

// RegisterDataSource installs a provider under its kind and wires it to the
// engine clock and event queue. Providers survive document teardown, which
// keeps their correlation tokens unique for the life of the engine.
func (e *Engine) RegisterDataSource(p datasource.Provider) *Engine {
	kind := p.Kind()
	p.SetEnvironment(datasource.Environment{
		Schedule: e.clock.Schedule,
		Emit: func(v datasource.FetchRequestValue) {
			e.events = append(e.events, FetchRequestEvent{Type: kind, Value: v})
		},
	})
	e.providers[kind] = p
	return e
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Root returns the inflated document root, or nil before Inflate.
func (e *Engine) Root() Component {
	return e.root
}

// ComponentByID returns the component carrying the document id, or nil.
func (e *Engine) ComponentByID(id string) Component {
	if id == "" {
		return nil
	}
	return findByID(e.root, id)
}

func findByID(c Component, id string) Component {
	if c == nil {
		return nil
	}
	if c.ID() == id {
		return c
	}
	for i := 0; i < c.ChildCount(); i++ {
		if found := findByID(c.ChildAt(i), id); found != nil {
			return found
		}
	}
	return nil
}

// Inflate parses a document and inflates it. A previous document is torn
// down first.
func (e *Engine) Inflate(data []byte) (Component, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return e.InflateDocument(doc)
}

// InflateDocument builds the component tree for a parsed document, binding
// Sequences and Pagers to their data sources through the registered
// providers.
func (e *Engine) InflateDocument(doc *Document) (Component, error) {
	if e.root != nil {
		e.Teardown()
	}
	if len(doc.MainTemplate.Item) == 0 {
		return nil, errors.New("document has no mainTemplate item")
	}
	root, err := e.inflateNode(doc.MainTemplate.Item, doc)
	if err != nil {
		e.releaseBindings()
		return nil, err
	}
	e.root = root
	e.sweepErrors()
	return root, nil
}

// Teardown unbinds every list, abandons all outstanding fetches and drops
// the tree. No fetch timeout fires afterwards; the providers stay registered
// for the next Inflate.
func (e *Engine) Teardown() {
	e.machine.CancelSequence()
	e.pressTarget = nil
	e.releaseBindings()
	e.root = nil
}

func (e *Engine) releaseBindings() {
	for _, c := range e.bound {
		switch c := c.(type) {
		case *Sequence:
			c.UnbindList()
		case *Pager:
			c.UnbindList()
		}
	}
	e.bound = nil
	for _, p := range e.providers {
		p.UnbindAll()
	}
}

// UpdateTime advances the engine to now, firing due fetch timeouts, gesture
// deadlines and animation steps.
func (e *Engine) UpdateTime(now time.Time) {
	e.clock.AdvanceTo(now)
	e.execute(e.machine.OnTimeUpdate(now))
	e.afterPass()
}

// HandlePointerEvent feeds one pointer event through gesture arbitration.
// The event's timestamp advances the engine clock first.
func (e *Engine) HandlePointerEvent(ev gesture.PointerEvent) {
	e.clock.AdvanceTo(ev.Time)
	e.execute(e.machine.HandlePointerEvent(ev, func() gesture.Session {
		return e.beginSession(ev)
	}))
	e.afterPass()
}

// beginSession assembles the gesture candidates for a pointer sequence from
// the components under the down point, leaf-first, and arms the pressed
// state on the deepest pressable.
func (e *Engine) beginSession(ev gesture.PointerEvent) gesture.Session {
	path := HitPath(e.root, Point{X: ev.X, Y: ev.Y})

	var candidates []gesture.Gesture
	var press pressable
	for i := len(path) - 1; i >= 0; i-- {
		if owner, ok := path[i].(gestureOwner); ok {
			candidates = append(candidates, owner.gestures(e.gestureCfg)...)
		}
		if press == nil {
			if p, ok := path[i].(pressable); ok {
				press = p
			}
		}
	}
	if press != nil {
		press.setPressed(true)
		e.pressTarget = press
	}

	return gesture.Session{
		Candidates: candidates,
		OnPress: func(up gesture.PointerEvent) gesture.Command {
			if press == nil || !press.InBounds(Point{X: up.X, Y: up.Y}) {
				return nil
			}
			return press.press()
		},
	}
}

// ProcessDataSourceUpdate routes one runtime payload to the provider
// registered for the type. The return reports whether a list changed; a
// false return leaves an explanation in the provider's error queue or the
// log.
func (e *Engine) ProcessDataSourceUpdate(typ string, payload []byte) bool {
	p, ok := e.providers[typ]
	if !ok {
		e.logger.Printf("engine: update for unregistered source type %q", typ)
		return false
	}
	applied := p.ProcessRawUpdate(payload)
	e.afterPass()
	return applied
}

// PendingErrors drains the queued errors of one source type.
func (e *Engine) PendingErrors(typ string) []datasource.Error {
	p, ok := e.providers[typ]
	if !ok {
		return nil
	}
	delete(e.errorsSignaled, typ)
	return p.PendingErrors()
}

// TakeEvents drains the host event queue.
func (e *Engine) TakeEvents() []Event {
	events := e.events
	e.events = nil
	return events
}

// TakeDirty returns the components changed since the previous take, in tree
// order with their changed properties, and marks them clean. The result is
// valid until the next take.
func (e *Engine) TakeDirty() []DirtyRecord {
	return e.registry.take(e.root)
}

// DirtyGeneration returns the tag of the most recent TakeDirty.
func (e *Engine) DirtyGeneration() uint64 {
	return e.registry.generation()
}

// CancelPointerSequence aborts the gesture in progress, as when the host
// loses the pointer.
func (e *Engine) CancelPointerSequence() {
	e.machine.CancelSequence()
	e.afterPass()
}

func (e *Engine) execute(cmds []gesture.Command) {
	for _, c := range cmds {
		e.executeCommand(c)
	}
}

func (e *Engine) executeCommand(cmd Command) {
	switch c := cmd.(type) {
	case nil:
	case BatchCommand:
		for _, cc := range c {
			e.executeCommand(cc)
		}
	case EmitEventCommand:
		e.events = append(e.events, c.Event)
	case RedrawCommand:
		if e.root != nil {
			e.root.base().MarkDirty()
		}
	case QuitCommand:
		e.events = append(e.events, QuitEvent{})
	default:
		e.logger.Printf("engine: dropping unknown command %T", cmd)
	}
}

// afterPass runs the bookkeeping every entry point shares: releasing the
// pressed state once arbitration has moved past tracking, and surfacing
// fresh data source errors.
func (e *Engine) afterPass() {
	if e.pressTarget != nil && e.machine.State() != gesture.StateTracking {
		e.pressTarget.setPressed(false)
		e.pressTarget = nil
	}
	e.sweepErrors()
}

// sweepErrors emits one DataSourceErrorEvent per source type with queued
// errors, holding further events back until the host drains the queue.
func (e *Engine) sweepErrors() {
	var kinds []string
	for kind, p := range e.providers {
		if p.HasPendingErrors() && !e.errorsSignaled[kind] {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		e.errorsSignaled[kind] = true
		e.events = append(e.events, DataSourceErrorEvent{Type: kind})
	}
}

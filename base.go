package vellum

import (
	"strings"
	"sync/atomic"
)

// Property identifies which aspects of a component changed since it was last
// marked clean. Properties combine as a bit set.
type Property int

const (
	PropertyBounds Property = 1 << iota
	PropertyTransform
	PropertyScrollPosition
	PropertyChildren
	PropertyText
	PropertyPressed
	PropertyPage
)

var propertyNames = []struct {
	p    Property
	name string
}{
	{PropertyBounds, "bounds"},
	{PropertyTransform, "transform"},
	{PropertyScrollPosition, "scrollPosition"},
	{PropertyChildren, "children"},
	{PropertyText, "text"},
	{PropertyPressed, "pressed"},
	{PropertyPage, "page"},
}

func (p Property) String() string {
	var parts []string
	for _, n := range propertyNames {
		if p&n.p != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Base implements the Component interface without any content of its own. It
// serves as the superclass of all components: concrete types embed it and
// add their behavior on top.
type Base struct {
	self Component
	id   string
	kind string

	parent   Component
	children []Component

	bounds Rect
	offset Translate

	// Free-form document attributes that no typed field captures.
	attrs map[string]any

	// dirty indicates whether this component changed since the last clean.
	dirty atomic.Bool

	// dirtyParent is notified when this component transitions from clean
	// to dirty so containers can be dirtied without scanning all children.
	dirtyParent atomic.Pointer[Base]

	// dirtyProps accumulates the changed property bits. Only touched on
	// the engine goroutine.
	dirtyProps Property

	// selfDirty distinguishes a change to this component from the dirty
	// bit riding up the parent chain for a descendant's change.
	selfDirty bool
}

// newBase wires a Base for the component embedding it. self is the outer
// component; children record it as their parent.
func newBase(self Component, kind string) *Base {
	b := &Base{self: self, kind: kind}
	b.selfDirty = true
	b.dirty.Store(true)
	return b
}

func (b *Base) base() *Base { return b }

func (b *Base) ID() string { return b.id }

// SetID assigns the document identifier.
func (b *Base) SetID(id string) *Base {
	b.id = id
	return b
}

func (b *Base) Kind() string { return b.kind }

func (b *Base) Parent() Component { return b.parent }

func (b *Base) ChildCount() int { return len(b.children) }

func (b *Base) ChildAt(i int) Component {
	if i < 0 || i >= len(b.children) {
		return nil
	}
	return b.children[i]
}

// InsertChild places child at position i, appending when i equals
// ChildCount. A child attached elsewhere is detached from its old parent
// first.
func (b *Base) InsertChild(i int, child Component) {
	if child == nil {
		return
	}
	if old := child.base().parent; old != nil {
		old.base().detach(child)
	}
	if i < 0 {
		i = 0
	}
	if i > len(b.children) {
		i = len(b.children)
	}
	b.children = append(b.children[:i], append([]Component{child}, b.children[i:]...)...)
	child.base().parent = b.self
	bindDirtyParent(child, b)
	b.markDirty(PropertyChildren)
}

// AppendChild adds child after the existing children. The insertion goes
// through the outer component's InsertChild so subclasses see it.
func (b *Base) AppendChild(child Component) {
	b.self.InsertChild(len(b.children), child)
}

// RemoveChild detaches and returns the child at position i.
func (b *Base) RemoveChild(i int) Component {
	if i < 0 || i >= len(b.children) {
		return nil
	}
	child := b.children[i]
	b.children = append(b.children[:i], b.children[i+1:]...)
	child.base().parent = nil
	unbindDirtyParent(child, b)
	b.markDirty(PropertyChildren)
	return child
}

func (b *Base) detach(child Component) {
	for i, c := range b.children {
		if c == child {
			b.self.RemoveChild(i)
			return
		}
	}
}

func (b *Base) Bounds() Rect { return b.bounds }

func (b *Base) SetBounds(r Rect) {
	if b.bounds != r {
		b.bounds = r
		b.markDirty(PropertyBounds)
	}
}

func (b *Base) Offset() Translate { return b.offset }

// SetOffset assigns the component's own translation. Gestures drive this to
// slide content without touching layout bounds.
func (b *Base) SetOffset(t Translate) {
	if b.offset != t {
		b.offset = t
		b.markDirty(PropertyTransform)
	}
}

// InBounds reports whether the point falls inside the component's translated
// bounds.
func (b *Base) InBounds(p Point) bool {
	return b.bounds.Offset(b.offset.X, b.offset.Y).Contains(p)
}

// SetAttribute stores a free-form document attribute.
func (b *Base) SetAttribute(key string, value any) *Base {
	if b.attrs == nil {
		b.attrs = map[string]any{}
	}
	b.attrs[key] = value
	return b
}

// Attribute returns a free-form document attribute, or nil.
func (b *Base) Attribute(key string) any {
	return b.attrs[key]
}

// IsDirty returns whether this component changed since the last MarkClean.
// Safe to call from outside the engine goroutine.
func (b *Base) IsDirty() bool {
	return b.dirty.Load()
}

// MarkDirty marks this component changed without naming a property.
func (b *Base) MarkDirty() {
	b.markDirty(0)
}

func (b *Base) markDirty(props Property) {
	b.dirtyProps |= props
	b.selfDirty = true
	b.propagateDirty()
}

func (b *Base) propagateDirty() {
	if b.dirty.Swap(true) {
		return
	}
	if parent := b.dirtyParent.Load(); parent != nil {
		parent.propagateDirty()
	}
}

// DirtyProperties returns the properties changed since the last MarkClean,
// in declaration order.
func (b *Base) DirtyProperties() []Property {
	var props []Property
	for _, n := range propertyNames {
		if b.dirtyProps&n.p != 0 {
			props = append(props, n.p)
		}
	}
	return props
}

// MarkClean clears the dirty bit and the property set.
func (b *Base) MarkClean() {
	b.dirtyProps = 0
	b.selfDirty = false
	b.dirty.Store(false)
}

func (b *Base) setDirtyParent(parent *Base) {
	if parent == nil || parent == b {
		return
	}
	b.dirtyParent.Store(parent)
}

func (b *Base) clearDirtyParent(parent *Base) {
	if parent == nil {
		return
	}
	b.dirtyParent.CompareAndSwap(parent, nil)
}

func bindDirtyParent(child Component, parent *Base) {
	if child == nil || parent == nil {
		return
	}
	child.base().setDirtyParent(parent)
}

func unbindDirtyParent(child Component, parent *Base) {
	if child == nil || parent == nil {
		return
	}
	child.base().clearDirtyParent(parent)
}

// HitPath returns the chain of components containing the point, from root to
// the deepest hit. Later siblings sit on top and are probed first. A nil
// result means the point misses root entirely.
func HitPath(root Component, p Point) []Component {
	if root == nil || !root.InBounds(p) {
		return nil
	}
	path := []Component{root}
	node := root
probe:
	for {
		for i := node.ChildCount() - 1; i >= 0; i-- {
			child := node.ChildAt(i)
			if child != nil && child.InBounds(p) {
				path = append(path, child)
				node = child
				continue probe
			}
		}
		return path
	}
}

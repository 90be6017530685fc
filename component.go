package vellum

// Component is the top-most interface for all nodes in an inflated document
// tree.
type Component interface {
	// ID returns the component's identifier, unique within its document
	// when the document assigns one.
	ID() string
	// Kind returns the component's type name as it appears in documents,
	// e.g. "Container" or "Sequence".
	Kind() string

	// Parent returns the enclosing component, or nil at the root.
	Parent() Component
	// ChildCount returns the number of direct children.
	ChildCount() int
	// ChildAt returns the direct child at the given position, or nil when
	// the position is out of range.
	ChildAt(i int) Component
	// InsertChild places child at the given position; a position equal to
	// ChildCount appends. The child's parent is rebound.
	InsertChild(i int, child Component)
	// RemoveChild detaches the direct child at the given position.
	RemoveChild(i int) Component

	// Bounds returns the component's rectangle in document coordinates.
	Bounds() Rect
	// SetBounds assigns the component's rectangle. Layout is external;
	// hosts and tests assign bounds directly.
	SetBounds(Rect)
	// Offset returns the component's own translation, applied on top of
	// its bounds when hit-testing and rendering.
	Offset() Translate
	// InBounds reports whether a document-coordinate point falls inside
	// the translated bounds.
	InBounds(Point) bool

	// IsDirty reports whether the component has changed since it was last
	// marked clean.
	IsDirty() bool
	// DirtyProperties returns the set of properties changed since the
	// last MarkClean.
	DirtyProperties() []Property
	// MarkClean clears the dirty bit and the property set.
	MarkClean()

	// base returns the embedded Base, giving the engine access to the
	// internal wiring without widening the public surface.
	base() *Base
}

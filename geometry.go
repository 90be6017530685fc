package vellum

// Point is a position in the document's abstract coordinate space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in absolute document coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the given point lies within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Offset returns the rectangle translated by dx and dy.
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate is a 2D translation applied to a component's content. It is the
// slice of the transform space the engine mutates itself (swipes, settle
// animations); full transform support stays with the host.
type Translate struct {
	X, Y float64
}

// IsZero reports whether the translation is the identity.
func (t Translate) IsZero() bool {
	return t.X == 0 && t.Y == 0
}

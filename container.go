package vellum

// Container is a component with children and no content of its own. With no
// layout language in the engine, children simply fill the container; hosts
// reposition them by assigning bounds directly.
type Container struct {
	*Base
}

func NewContainer() *Container {
	c := &Container{}
	c.Base = newBase(c, "Container")
	return c
}

func (c *Container) SetBounds(r Rect) {
	c.Base.SetBounds(r)
	for i := 0; i < c.ChildCount(); i++ {
		c.ChildAt(i).SetBounds(r)
	}
}

func (c *Container) InsertChild(i int, child Component) {
	c.Base.InsertChild(i, child)
	if !c.Bounds().Empty() {
		child.SetBounds(c.Bounds())
	}
}

var _ Component = &Container{}

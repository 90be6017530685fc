package vellum_test

import (
	"testing"

	"github.com/ayn2op/vellum"
	"github.com/google/go-cmp/cmp"
)

func cleanAll(cs ...vellum.Component) {
	for _, c := range cs {
		c.MarkClean()
	}
}

func TestDirtyPropagatesToAncestors(t *testing.T) {
	root := vellum.NewContainer()
	inner := vellum.NewContainer()
	text := vellum.NewText()
	root.AppendChild(inner)
	inner.AppendChild(text)
	cleanAll(root, inner, text)

	text.SetContent("hello")

	for _, c := range []vellum.Component{root, inner, text} {
		if !c.IsDirty() {
			t.Errorf("%s not dirty after descendant change", c.Kind())
		}
	}
	if diff := cmp.Diff([]vellum.Property{vellum.PropertyText}, text.DirtyProperties()); diff != "" {
		t.Errorf("text properties, diff (-want +got):\n%s", diff)
	}
	if props := inner.DirtyProperties(); len(props) != 0 {
		t.Errorf("ancestor carries properties %v, want none", props)
	}
}

func TestDirtySettersDetectNoChange(t *testing.T) {
	text := vellum.NewText().SetContent("hello")
	text.MarkClean()

	text.SetContent("hello")
	if text.IsDirty() {
		t.Errorf("identical content marked the component dirty")
	}

	text.SetBounds(vellum.Rect{})
	text.SetOffset(vellum.Translate{})
	if text.IsDirty() {
		t.Errorf("identity geometry marked the component dirty")
	}

	text.SetOffset(vellum.Translate{X: 2})
	want := []vellum.Property{vellum.PropertyTransform}
	if diff := cmp.Diff(want, text.DirtyProperties()); diff != "" {
		t.Errorf("properties, diff (-want +got):\n%s", diff)
	}
}

func TestDirtyPropertiesAccumulate(t *testing.T) {
	text := vellum.NewText()
	text.MarkClean()

	text.SetContent("a")
	text.SetBounds(vellum.Rect{Width: 10, Height: 1})

	want := []vellum.Property{vellum.PropertyBounds, vellum.PropertyText}
	if diff := cmp.Diff(want, text.DirtyProperties()); diff != "" {
		t.Errorf("properties, diff (-want +got):\n%s", diff)
	}

	text.MarkClean()
	if got := text.DirtyProperties(); len(got) != 0 {
		t.Errorf("properties after MarkClean = %v, want none", got)
	}
}

func TestInsertChildReparents(t *testing.T) {
	a := vellum.NewContainer()
	b := vellum.NewContainer()
	child := vellum.NewText()

	a.AppendChild(child)
	if child.Parent() != a {
		t.Fatalf("parent after append = %v, want first container", child.Parent())
	}

	b.AppendChild(child)
	if child.Parent() != b {
		t.Errorf("parent after move = %v, want second container", child.Parent())
	}
	if a.ChildCount() != 0 {
		t.Errorf("old parent still has %d children", a.ChildCount())
	}

	cleanAll(a, b, child)
	child.SetContent("x")
	if a.IsDirty() {
		t.Errorf("old parent dirtied by a moved-away child")
	}
	if !b.IsDirty() {
		t.Errorf("new parent not dirtied by its child")
	}
}

func TestRemovedChildStopsDirtyingParent(t *testing.T) {
	parent := vellum.NewContainer()
	child := vellum.NewText()
	parent.AppendChild(child)
	removed := parent.RemoveChild(0)
	if removed != child {
		t.Fatalf("RemoveChild returned %v", removed)
	}
	cleanAll(parent, child)

	child.SetContent("x")
	if parent.IsDirty() {
		t.Errorf("detached child dirtied its former parent")
	}
}

func TestHitPathProbesTopSiblingsFirst(t *testing.T) {
	root := vellum.NewContainer()
	root.SetBounds(vellum.Rect{Width: 100, Height: 100})
	below := vellum.NewContainer().SetID("below")
	above := vellum.NewContainer().SetID("above")
	root.AppendChild(below)
	root.AppendChild(above)
	// Both children fill the root; the later sibling is on top.

	path := vellum.HitPath(root, vellum.Point{X: 50, Y: 50})

	ids := make([]string, len(path))
	for i, c := range path {
		ids[i] = c.ID()
	}
	if diff := cmp.Diff([]string{"", "above"}, ids); diff != "" {
		t.Errorf("hit path ids, diff (-want +got):\n%s", diff)
	}
}

func TestHitPathHonorsOffset(t *testing.T) {
	root := vellum.NewContainer()
	root.SetBounds(vellum.Rect{Width: 100, Height: 100})
	child := vellum.NewText()
	root.AppendChild(child)
	child.SetBounds(vellum.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	child.SetOffset(vellum.Translate{X: 50})

	if path := vellum.HitPath(root, vellum.Point{X: 5, Y: 5}); len(path) != 1 {
		t.Errorf("hit at the vacated spot reached %d components, want root only", len(path))
	}
	path := vellum.HitPath(root, vellum.Point{X: 55, Y: 5})
	if len(path) != 2 || path[1] != vellum.Component(child) {
		t.Errorf("hit at the translated spot missed the child: %d components", len(path))
	}
}

func TestHitPathMissReturnsNil(t *testing.T) {
	root := vellum.NewContainer()
	root.SetBounds(vellum.Rect{Width: 10, Height: 10})
	if path := vellum.HitPath(root, vellum.Point{X: 20, Y: 5}); path != nil {
		t.Errorf("miss returned %v, want nil", path)
	}
}

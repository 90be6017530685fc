package vellum

// Text displays a string. Wrapping and measurement are host concerns; the
// engine only tracks the content.
type Text struct {
	*Base

	content string
}

func NewText() *Text {
	t := &Text{}
	t.Base = newBase(t, "Text")
	return t
}

// SetContent replaces the displayed string.
func (t *Text) SetContent(content string) *Text {
	if t.content != content {
		t.content = content
		t.markDirty(PropertyText)
	}
	return t
}

// Content returns the displayed string.
func (t *Text) Content() string {
	return t.content
}

var _ Component = &Text{}

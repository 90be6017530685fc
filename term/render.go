package term

import (
	"fmt"
	"math"

	"github.com/ayn2op/vellum"
	"github.com/ayn2op/vellum/datasource"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// renderer draws a component tree onto a tcell screen, one cell per document
// unit. Wide graphemes occupy their full width; tcell tracks the shadow
// cells itself.
type renderer struct {
	theme Theme
	bar   scrollBar
}

func newRenderer(theme Theme) *renderer {
	return &renderer{theme: theme, bar: newScrollBar(theme)}
}

// Render draws the whole tree. Every cell inside a component's rectangle is
// written, so a render pass needs no preceding clear; tcell diffs the result
// against the terminal in Show.
func (r *renderer) Render(screen tcell.Screen, root vellum.Component) {
	if root == nil {
		return
	}
	r.draw(screen, root, 0, 0)
}

// draw renders one component and its subtree. dx and dy accumulate the
// transform offsets of the ancestors; a component's own offset applies to
// itself and everything below it.
func (r *renderer) draw(screen tcell.Screen, c vellum.Component, dx, dy float64) {
	off := c.Offset()
	dx += off.X
	dy += off.Y

	x0, y0, x1, y1 := cellRect(c.Bounds(), dx, dy)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	switch c := c.(type) {
	case *vellum.Text:
		r.fill(screen, x0, y0, x1, y1)
		r.drawText(screen, c, x0, y0, x1, y1)

	case *vellum.TouchWrapper:
		if c.IsPressed() {
			screen = &overlayScreen{Screen: screen, overlay: r.theme.Pressed}
		}
		// Touchables tall enough to carry a frame render as bordered
		// cards; anything smaller stays a flat row.
		if x1-x0 >= 4 && y1-y0 >= 3 {
			r.drawFrame(screen, x0, y0, x1-x0, y1-y0, "")
			// Children fill the wrapper, so content shifts one cell
			// into the frame's interior.
			inner := newClipScreen(screen, x0+1, y0+1, x1-x0-2, y1-y0-2)
			r.drawChildren(inner, c, dx+1, dy+1, x0+1, y0+1, x1-1, y1-1)
		} else {
			r.fill(screen, x0, y0, x1, y1)
			r.drawChildren(screen, c, dx, dy, x0, y0, x1, y1)
		}

	case *vellum.Sequence:
		clip := newClipScreen(screen, x0, y0, x1-x0, y1-y0)
		r.fill(clip, x0, y0, x1, y1)
		r.drawChildren(clip, c, dx, dy, x0, y0, x1, y1)
		r.drawScrollBar(clip, c, x0, y0, x1, y1)

	case *vellum.Pager:
		clip := newClipScreen(screen, x0, y0, x1-x0, y1-y0)
		r.fill(clip, x0, y0, x1, y1)
		r.drawChildren(clip, c, dx, dy, x0, y0, x1, y1)

	default:
		r.fill(screen, x0, y0, x1, y1)
		r.drawChildren(screen, c, dx, dy, x0, y0, x1, y1)
	}
}

// drawChildren recurses into the children that intersect the parent's cells.
func (r *renderer) drawChildren(screen tcell.Screen, c vellum.Component, dx, dy float64, x0, y0, x1, y1 int) {
	for i := 0; i < c.ChildCount(); i++ {
		child := c.ChildAt(i)
		off := child.Offset()
		cx0, cy0, cx1, cy1 := cellRect(child.Bounds(), dx+off.X, dy+off.Y)
		if cx1 <= x0 || cx0 >= x1 || cy1 <= y0 || cy0 >= y1 {
			continue
		}
		r.draw(screen, child, dx, dy)
	}
}

func (r *renderer) drawText(screen tcell.Screen, t *vellum.Text, x0, y0, x1, y1 int) {
	width := x1 - x0
	for i, line := range WordWrap(t.Content(), width) {
		if y0+i >= y1 {
			break
		}
		printLine(screen, x0, y0+i, width, line, r.theme.Text)
	}
}

func (r *renderer) drawScrollBar(screen tcell.Screen, s *vellum.Sequence, x0, y0, x1, y1 int) {
	if s.Horizontal() {
		return
	}
	first, last := s.VisibleRows()
	if last < first {
		return
	}
	r.bar.draw(screen, x1-1, y0, y1-y0, s.ChildCount(), last-first+1, first)
}

func (r *renderer) fill(screen tcell.Screen, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			screen.SetContent(x, y, ' ', nil, r.theme.Background)
		}
	}
}

// DrawErrorOverlay dims the screen contents and draws a framed box listing
// the queued data source errors.
func (r *renderer) DrawErrorOverlay(screen tcell.Screen, errs []datasource.Error) {
	width, height := screen.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			primary, combining, style, _ := screen.GetContent(x, y)
			screen.SetContent(x, y, primary, combining, mergeStyle(style, r.theme.Overlay))
		}
	}

	lines := make([]string, 0, len(errs))
	longest := len("no errors queued")
	for _, e := range errs {
		line := string(e.Reason)
		if e.ListID != "" {
			line += " " + e.ListID
		}
		if e.Message != "" {
			line += ": " + e.Message
		}
		if w := StringWidth(line); w > longest {
			longest = w
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "no errors queued")
	}

	boxW := min(longest+4, width-2)
	boxH := min(len(lines)+2, height-2)
	if boxW < 4 || boxH < 3 {
		return
	}
	bx := (width - boxW) / 2
	by := (height - boxH) / 2

	r.drawFrame(screen, bx, by, boxW, boxH, "errors")
	for i, line := range lines {
		if by+1+i >= by+boxH-1 {
			break
		}
		printLine(screen, bx+2, by+1+i, boxW-4, line, r.theme.ErrorText)
	}
}

// drawFrame draws a bordered, cleared box with a title in the top border.
func (r *renderer) drawFrame(screen tcell.Screen, x, y, width, height int, title string) {
	if width < 2 || height < 2 {
		return
	}
	set := r.theme.BorderSet

	for yy := y + 1; yy < y+height-1; yy++ {
		for xx := x + 1; xx < x+width-1; xx++ {
			screen.SetContent(xx, yy, ' ', nil, r.theme.Background)
		}
	}
	for xx := x + 1; xx < x+width-1; xx++ {
		putCluster(screen, xx, y, set.Top, r.theme.Border)
		putCluster(screen, xx, y+height-1, set.Bottom, r.theme.Border)
	}
	for yy := y + 1; yy < y+height-1; yy++ {
		putCluster(screen, x, yy, set.Left, r.theme.Border)
		putCluster(screen, x+width-1, yy, set.Right, r.theme.Border)
	}
	putCluster(screen, x, y, set.TopLeft, r.theme.Border)
	putCluster(screen, x+width-1, y, set.TopRight, r.theme.Border)
	putCluster(screen, x, y+height-1, set.BottomLeft, r.theme.Border)
	putCluster(screen, x+width-1, y+height-1, set.BottomRight, r.theme.Border)

	if title != "" && width > 6 {
		printLine(screen, x+2, y, width-4, fmt.Sprintf(" %s ", title), r.theme.Title)
	}
}

// cellRect maps a translated rectangle to half-open cell bounds, rounding to
// the nearest cell edge.
func cellRect(rect vellum.Rect, dx, dy float64) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(rect.X + dx + 0.5))
	y0 = int(math.Floor(rect.Y + dy + 0.5))
	x1 = int(math.Floor(rect.X + rect.Width + dx + 0.5))
	y1 = int(math.Floor(rect.Y + rect.Height + dy + 0.5))
	return x0, y0, x1, y1
}

// putCluster writes one grapheme cluster at a cell position.
func putCluster(screen tcell.Screen, x, y int, cluster string, style tcell.Style) {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return
	}
	screen.SetContent(x, y, runes[0], runes[1:], style)
}

// printLine writes text on one row, stopping at maxWidth cells.
func printLine(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	right := x + maxWidth
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if x+width > right {
			return
		}
		putCluster(screen, x, y, cluster, style)
		x += width
	}
}

// clipScreen restricts SetContent to a rectangle, leaving everything outside
// untouched.
type clipScreen struct {
	tcell.Screen
	x, y, width, height int
}

func newClipScreen(screen tcell.Screen, x, y, width, height int) *clipScreen {
	// Nested clips intersect so a child can never draw outside its parent.
	if inner, ok := screen.(*clipScreen); ok {
		x2 := min(x+width, inner.x+inner.width)
		y2 := min(y+height, inner.y+inner.height)
		x = max(x, inner.x)
		y = max(y, inner.y)
		width = max(x2-x, 0)
		height = max(y2-y, 0)
		screen = inner.Screen
	}
	return &clipScreen{Screen: screen, x: x, y: y, width: width, height: height}
}

func (s *clipScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clipScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}

// overlayScreen merges an overlay style into everything drawn through it.
type overlayScreen struct {
	tcell.Screen
	overlay tcell.Style
}

func (s *overlayScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, mergeStyle(style, s.overlay))
}

// mergeStyle lays overlay over base: explicit overlay colors replace the
// base colors, attributes combine additively.
func mergeStyle(base, overlay tcell.Style) tcell.Style {
	fg, bg, battr := base.Decompose()
	ofg, obg, oattr := overlay.Decompose()
	if ofg != tcell.ColorDefault {
		fg = ofg
	}
	if obg != tcell.ColorDefault {
		bg = obg
	}
	return tcell.StyleDefault.Foreground(fg).Background(bg).Attributes(battr | oattr)
}

package vellum

import "github.com/ayn2op/vellum/gesture"

// gestureOwner is implemented by components that field gesture candidates.
// When a pointer sequence starts, the engine collects candidates from every
// owner on the hit path, leaf-first.
type gestureOwner interface {
	Component
	gestures(cfg gesture.Config) []gesture.Gesture
}

// pressable is implemented by components that respond to a plain press. The
// deepest pressable on the hit path receives the press when no gesture
// claims the sequence.
type pressable interface {
	Component
	press() Command
	setPressed(bool)
}

// offsetTransform exposes a component's translation offset as the
// Transformable the gesture package drives.
type offsetTransform struct {
	c Component
}

func (o offsetTransform) Translation() (x, y float64) {
	t := o.c.Offset()
	return t.X, t.Y
}

func (o offsetTransform) SetTranslation(x, y float64) {
	o.c.base().SetOffset(Translate{X: x, Y: y})
}

// SwipeAwaySpec configures swipe-to-dismiss on a TouchWrapper.
type SwipeAwaySpec struct {
	Direction gesture.Direction
	Mode      gesture.SwipeMode

	// Replacement builds the component revealed by the swipe, once per
	// swipe. A nil builder swipes the content away over nothing.
	Replacement func() Component
}

// TouchWrapper wraps one child and turns presses and swipes over it into
// callbacks and host events.
type TouchWrapper struct {
	*Base

	disabled bool
	pressed  bool

	onPress       func()
	onDoublePress func()
	onLongPress   func()
	onSwipeMove   func(position float64, direction gesture.Direction)
	onSwipeDone   func(direction gesture.Direction)

	swipe *SwipeAwaySpec
}

func NewTouchWrapper() *TouchWrapper {
	t := &TouchWrapper{}
	t.Base = newBase(t, "TouchWrapper")
	return t
}

// SetDisabled sets whether the wrapper ignores input.
func (t *TouchWrapper) SetDisabled(disabled bool) *TouchWrapper {
	t.disabled = disabled
	if disabled {
		t.setPressed(false)
	}
	return t
}

// IsDisabled returns whether the wrapper ignores input.
func (t *TouchWrapper) IsDisabled() bool {
	return t.disabled
}

// IsPressed returns whether a pointer sequence is currently held over the
// wrapper, for pressed-state rendering.
func (t *TouchWrapper) IsPressed() bool {
	return t.pressed
}

// SetOnPressFunc sets a handler for a plain press.
func (t *TouchWrapper) SetOnPressFunc(handler func()) *TouchWrapper {
	t.onPress = handler
	return t
}

// SetOnDoublePressFunc sets a handler for a double press. Setting one delays
// single presses by the double-press window so the two can be told apart.
func (t *TouchWrapper) SetOnDoublePressFunc(handler func()) *TouchWrapper {
	t.onDoublePress = handler
	return t
}

// SetOnLongPressFunc sets a handler that fires when a press has been held
// for the long-press timeout.
func (t *TouchWrapper) SetOnLongPressFunc(handler func()) *TouchWrapper {
	t.onLongPress = handler
	return t
}

// SetSwipeAway enables swipe-to-dismiss with the given direction, mode and
// replacement.
func (t *TouchWrapper) SetSwipeAway(spec SwipeAwaySpec) *TouchWrapper {
	t.swipe = &spec
	return t
}

// SetOnSwipeMoveFunc sets a handler observing the swipe position, in [0, 1],
// on every change including the settle animation.
func (t *TouchWrapper) SetOnSwipeMoveFunc(handler func(position float64, direction gesture.Direction)) *TouchWrapper {
	t.onSwipeMove = handler
	return t
}

// SetOnSwipeDoneFunc sets a handler for a fulfilled swipe.
func (t *TouchWrapper) SetOnSwipeDoneFunc(handler func(direction gesture.Direction)) *TouchWrapper {
	t.onSwipeDone = handler
	return t
}

func (t *TouchWrapper) setPressed(pressed bool) {
	if t.pressed != pressed {
		t.pressed = pressed
		t.markDirty(PropertyPressed)
	}
}

// press runs the component press: the handler, then the host event.
func (t *TouchWrapper) press() Command {
	if t.disabled {
		return nil
	}
	if t.onPress != nil {
		t.onPress()
	}
	return EmitEventCommand{Event: PressEvent{Target: t}}
}

func (t *TouchWrapper) doublePress() Command {
	if t.disabled {
		return nil
	}
	if t.onDoublePress != nil {
		t.onDoublePress()
	}
	return nil
}

func (t *TouchWrapper) longPress() Command {
	if t.disabled {
		return nil
	}
	if t.onLongPress != nil {
		t.onLongPress()
	}
	return nil
}

// gestures builds the wrapper's candidates for one pointer sequence.
func (t *TouchWrapper) gestures(cfg gesture.Config) []gesture.Gesture {
	if t.disabled {
		return nil
	}
	var gs []gesture.Gesture
	if t.swipe != nil {
		gs = append(gs, t.swipeGesture(cfg))
	}
	if t.onDoublePress != nil {
		gs = append(gs, gesture.NewDoublePress(cfg, gesture.DoublePressConfig{
			OnSinglePress: func() gesture.Command { return t.press() },
			OnDoublePress: func() gesture.Command { return t.doublePress() },
		}))
	}
	if t.onLongPress != nil {
		gs = append(gs, gesture.NewLongPress(cfg, gesture.LongPressConfig{
			OnLongPressStart: func() gesture.Command { return t.longPress() },
		}))
	}
	return gs
}

// swipeGesture wires a SwipeAway to the wrapper's children. The original is
// the wrapper's current content child; the replacement is built on demand
// and inserted beneath it, or on top for the cover mode.
func (t *TouchWrapper) swipeGesture(cfg gesture.Config) gesture.Gesture {
	spec := *t.swipe
	original := t.ChildAt(0)
	var replacement Component

	sc := gesture.SwipeAwayConfig{
		Direction: spec.Direction,
		Mode:      spec.Mode,
		Extent: func() float64 {
			return t.swipeExtent(spec.Direction)
		},
		CommitReplacement: func() {
			if original != nil {
				t.detach(original)
			}
		},
		CancelReplacement: func() {
			if replacement != nil {
				t.detach(replacement)
				replacement = nil
			}
		},
		OnSwipeMove: func(position float64, dir gesture.Direction) gesture.Command {
			if t.onSwipeMove != nil {
				t.onSwipeMove(position, dir)
			}
			return nil
		},
		OnSwipeDone: func(dir gesture.Direction) gesture.Command {
			if t.onSwipeDone != nil {
				t.onSwipeDone(dir)
			}
			return EmitEventCommand{Event: SwipeDoneEvent{Target: t, Direction: dir.String()}}
		},
	}
	if original != nil {
		sc.Original = offsetTransform{original}
	}
	if spec.Replacement != nil {
		sc.ShowReplacement = func() gesture.Transformable {
			child := spec.Replacement()
			if child == nil {
				return nil
			}
			replacement = child
			if spec.Mode == gesture.SwipeCover {
				t.AppendChild(child)
			} else {
				t.InsertChild(0, child)
			}
			child.SetBounds(t.Bounds())
			return offsetTransform{child}
		}
	}
	return gesture.NewSwipeAway(cfg, sc)
}

func (t *TouchWrapper) swipeExtent(dir gesture.Direction) float64 {
	r := t.Bounds()
	if dir.Horizontal() {
		return r.Width
	}
	return r.Height
}

func (t *TouchWrapper) SetBounds(r Rect) {
	t.Base.SetBounds(r)
	for i := 0; i < t.ChildCount(); i++ {
		t.ChildAt(i).SetBounds(r)
	}
}

func (t *TouchWrapper) InsertChild(i int, child Component) {
	t.Base.InsertChild(i, child)
	if !t.Bounds().Empty() {
		child.SetBounds(t.Bounds())
	}
}

var (
	_ Component    = &TouchWrapper{}
	_ pressable    = &TouchWrapper{}
	_ gestureOwner = &TouchWrapper{}
)

package gesture

import (
	"math"
	"time"
)

// Transformable is the translation slice of a component transform, the part a
// swipe drives.
type Transformable interface {
	Translation() (x, y float64)
	SetTranslation(x, y float64)
}

// SwipeMode selects how the original and replacement children move while a
// swipe progresses.
type SwipeMode int

const (
	// SwipeReveal slides the original away, uncovering the replacement
	// resting beneath it.
	SwipeReveal SwipeMode = iota
	// SwipeSlide moves both, the original sliding out as the replacement
	// slides in behind it.
	SwipeSlide
	// SwipeCover slides the replacement in over the stationary original.
	SwipeCover
)

func (m SwipeMode) String() string {
	switch m {
	case SwipeReveal:
		return "reveal"
	case SwipeSlide:
		return "slide"
	}
	return "cover"
}

// SwipeAwayConfig wires a SwipeAway gesture to its component.
type SwipeAwayConfig struct {
	Direction Direction
	Mode      SwipeMode

	// Extent is the full swipe distance, typically the component's width
	// or height along the swipe axis.
	Extent func() float64

	Original Transformable

	// ShowReplacement inserts the replacement child and returns its
	// transform handle. It runs once, when the swipe first moves.
	ShowReplacement func() Transformable

	// CommitReplacement removes the original after a fulfilled swipe;
	// CancelReplacement removes the replacement after a reset.
	CommitReplacement func()
	CancelReplacement func()

	OnSwipeMove func(position float64, dir Direction) Command
	OnSwipeDone func(dir Direction) Command
}

// SwipeAway drags a component off along one direction. It claims once the
// displacement reaches the trigger distance with the pointer path inside the
// angular tolerance, reports every position change through OnSwipeMove, and
// on release either completes the swipe or resets, always through the eased
// animation path. Fulfillment takes the traveled fraction past the fulfill
// threshold, or any positive travel released at or above the swipe velocity
// threshold along the direction.
type SwipeAway struct {
	cfg Config
	sc  SwipeAwayConfig

	tracker     VelocityTracker
	claimed     bool
	downX       float64
	downY       float64
	base        float64
	position    float64
	replacement Transformable
	shown       bool
	scroller    AutoScroller
	doneCmd     Command
}

func NewSwipeAway(cfg Config, sc SwipeAwayConfig) *SwipeAway {
	return &SwipeAway{cfg: cfg, sc: sc}
}

func (g *SwipeAway) extent() float64 {
	if g.sc.Extent == nil {
		return 0
	}
	return g.sc.Extent()
}

// traveled recovers the current swipe distance from the moving child's
// translation, so a re-grab continues from wherever the transform sits rather
// than from the raw pointer delta.
func (g *SwipeAway) traveled() float64 {
	vx, vy := g.sc.Direction.Vector()
	if g.sc.Mode == SwipeCover {
		if g.replacement == nil {
			return 0
		}
		tx, ty := g.replacement.Translation()
		return tx*vx + ty*vy + g.extent()
	}
	if g.sc.Original == nil {
		return 0
	}
	tx, ty := g.sc.Original.Translation()
	return tx*vx + ty*vy
}

func (g *SwipeAway) OnDown(ev PointerEvent) (Command, Verdict) {
	g.tracker.Reset()
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	g.downX, g.downY = ev.X, ev.Y
	if g.claimed {
		// Catch the component mid-animation and keep dragging it.
		g.scroller.Stop()
		g.base = g.traveled()
	}
	return nil, Pending
}

// slopeOK reports whether a displacement stays within the angular tolerance
// of the swipe direction.
func (g *SwipeAway) slopeOK(parallel, perp float64) bool {
	if parallel <= 0 {
		return false
	}
	return perp <= parallel*math.Tan(g.cfg.SwipeAngularTolerance*math.Pi/180)
}

func (g *SwipeAway) OnMove(ev PointerEvent) (Command, Verdict) {
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	vx, vy := g.sc.Direction.Vector()
	dx, dy := ev.X-g.downX, ev.Y-g.downY
	parallel := dx*vx + dy*vy

	if !g.claimed {
		perp := math.Abs(dx*vy - dy*vx)
		if parallel < -g.cfg.PointerSlop {
			return nil, Decline
		}
		if math.Hypot(dx, dy) > g.cfg.PointerSlop && !g.slopeOK(parallel, perp) {
			return nil, Decline
		}
		if parallel < g.cfg.SwipeTriggerDistance {
			return nil, Pending
		}
		g.claimed = true
		g.base = g.traveled()
		g.downX, g.downY = ev.X, ev.Y
		return nil, Claim
	}

	g.drag(g.base + parallel)
	return g.moveCmd(), Pending
}

// drag clamps the traveled distance to the extent and applies the transforms
// for the resulting position.
func (g *SwipeAway) drag(traveled float64) {
	e := g.extent()
	if e <= 0 {
		return
	}
	traveled = math.Min(math.Max(traveled, 0), e)
	g.ensureReplacement()
	g.applyPosition(traveled / e)
}

func (g *SwipeAway) ensureReplacement() {
	if g.shown || g.sc.ShowReplacement == nil {
		return
	}
	g.replacement = g.sc.ShowReplacement()
	g.shown = true
}

// applyPosition moves the children for position p in [0, 1] according to the
// mode. The original travels 0 → extent along the direction; the replacement
// enters from the far edge, -extent → 0.
func (g *SwipeAway) applyPosition(p float64) {
	g.position = p
	vx, vy := g.sc.Direction.Vector()
	e := g.extent()
	if g.sc.Mode != SwipeCover && g.sc.Original != nil {
		g.sc.Original.SetTranslation(vx*p*e, vy*p*e)
	}
	if g.sc.Mode != SwipeReveal && g.replacement != nil {
		g.replacement.SetTranslation(vx*(p-1)*e, vy*(p-1)*e)
	}
}

func (g *SwipeAway) moveCmd() Command {
	if g.sc.OnSwipeMove == nil {
		return nil
	}
	return g.sc.OnSwipeMove(g.position, g.sc.Direction)
}

func (g *SwipeAway) OnUp(ev PointerEvent) (Command, Verdict) {
	if !g.claimed {
		return nil, Decline
	}
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	vx, vy := g.sc.Direction.Vector()
	along := g.tracker.VelocityX()*vx + g.tracker.VelocityY()*vy
	fulfilled := g.position >= g.cfg.SwipeFulfillThreshold ||
		(g.position > 0 && along >= g.cfg.SwipeVelocityThreshold)

	if !fulfilled && g.position == 0 {
		if g.shown && g.sc.CancelReplacement != nil {
			g.sc.CancelReplacement()
		}
		return nil, Decline
	}

	to := 0.0
	if fulfilled {
		to = 1
	}
	g.scroller.Start(ev.Time, g.position, to, g.cfg.SwipeAnimationDuration, EaseInOut,
		g.applyPosition,
		func() {
			if fulfilled {
				if g.sc.CommitReplacement != nil {
					g.sc.CommitReplacement()
				}
				if g.sc.OnSwipeDone != nil {
					g.doneCmd = g.sc.OnSwipeDone(g.sc.Direction)
				}
				return
			}
			if g.shown && g.sc.CancelReplacement != nil {
				g.sc.CancelReplacement()
			}
		})
	return nil, Pending
}

func (g *SwipeAway) OnTimeUpdate(now time.Time) (Command, Verdict) {
	if !g.scroller.Active() {
		return nil, Pending
	}
	if !g.scroller.Tick(now) {
		cmds := appendCommand(nil, g.moveCmd())
		cmds = appendCommand(cmds, g.doneCmd)
		g.doneCmd = nil
		return cmds, Decline
	}
	return g.moveCmd(), Pending
}

func (g *SwipeAway) OnCancel() {
	g.scroller.Stop()
	if !g.claimed {
		return
	}
	g.applyPosition(0)
	if g.shown && g.sc.CancelReplacement != nil {
		g.sc.CancelReplacement()
	}
}

func (g *SwipeAway) Reset() {
	g.scroller.Stop()
	*g = SwipeAway{cfg: g.cfg, sc: g.sc}
}

var _ Gesture = &SwipeAway{}

package gesture

import (
	"math"
	"time"
)

// PagerTarget is the paged surface a PagerFling gesture drives. During a drag
// the gesture reports a transition progress in [0, 1] toward the next or
// previous page; CommitPage is called once the turn animation lands.
type PagerTarget interface {
	CurrentPage() int
	PageCount() int
	SetPageTransition(progress float64, forward bool)
	CommitPage(forward bool)
}

// PagerFlingConfig wires a PagerFling gesture to its component.
type PagerFlingConfig struct {
	Horizontal bool
	Target     PagerTarget

	// Extent returns the distance in pixels of a full page turn, typically
	// the pager's width or height.
	Extent func() float64

	// OnPageChanged, if set, supplies the command to emit after a turn
	// commits.
	OnPageChanged func(page int) Command
}

// PagerFling claims a sequence once the pointer travels past the slop along
// the page axis, tracks the turn progress under the finger, and on release
// either commits the turn or settles back. A turn is committed when the
// progress passes the fulfill threshold or the release velocity along the
// turn direction reaches the minimum fling velocity. The claim is held until
// the settle animation finishes; a new press catches the transition and
// continues dragging it.
type PagerFling struct {
	cfg Config
	pc  PagerFlingConfig

	tracker  VelocityTracker
	claimed  bool
	downX    float64
	downY    float64
	down     float64
	progress float64
	forward  bool
	scroller AutoScroller
	landed   Command
}

func NewPagerFling(cfg Config, pc PagerFlingConfig) *PagerFling {
	return &PagerFling{cfg: cfg, pc: pc}
}

func (g *PagerFling) axis(ev PointerEvent) float64 {
	if g.pc.Horizontal {
		return ev.X
	}
	return ev.Y
}

func (g *PagerFling) cross(ev PointerEvent) float64 {
	if g.pc.Horizontal {
		return ev.Y
	}
	return ev.X
}

func (g *PagerFling) extent() float64 {
	if g.pc.Extent == nil {
		return 0
	}
	return g.pc.Extent()
}

func (g *PagerFling) OnDown(ev PointerEvent) (Command, Verdict) {
	g.tracker.Reset()
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	g.downX, g.downY = ev.X, ev.Y
	g.down = g.axis(ev)
	if g.scroller.Active() {
		// Catch the page mid-turn and keep dragging it.
		g.scroller.Stop()
		g.rebase()
	}
	return nil, Pending
}

// rebase realigns the drag origin with the current transition progress so a
// re-grabbed turn continues without jumping.
func (g *PagerFling) rebase() {
	offset := g.progress * g.extent()
	if g.forward {
		g.down += offset
	} else {
		g.down -= offset
	}
}

func (g *PagerFling) OnMove(ev PointerEvent) (Command, Verdict) {
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	if !g.claimed {
		along := g.axis(ev) - g.down
		perp := g.cross(ev) - g.crossDown()
		if math.Abs(perp) > g.cfg.PointerSlop && math.Abs(perp) > math.Abs(along) {
			return nil, Decline
		}
		if math.Abs(along) <= g.cfg.PointerSlop {
			return nil, Pending
		}
		g.claimed = true
		g.down = g.axis(ev)
		return nil, Claim
	}
	g.drag(g.axis(ev))
	return nil, Pending
}

func (g *PagerFling) crossDown() float64 {
	if g.pc.Horizontal {
		return g.downY
	}
	return g.downX
}

// drag derives the transition from the pointer travel. Dragging toward the
// axis origin reveals the next page.
func (g *PagerFling) drag(pos float64) {
	delta := pos - g.down
	g.forward = delta < 0
	g.progress = 0
	if e := g.extent(); e > 0 {
		g.progress = math.Min(math.Abs(delta)/e, 1)
	}
	if !g.canTurn() {
		g.progress = 0
	}
	g.pc.Target.SetPageTransition(g.progress, g.forward)
}

func (g *PagerFling) canTurn() bool {
	if g.forward {
		return g.pc.Target.CurrentPage() < g.pc.Target.PageCount()-1
	}
	return g.pc.Target.CurrentPage() > 0
}

func (g *PagerFling) OnUp(ev PointerEvent) (Command, Verdict) {
	if !g.claimed {
		return nil, Decline
	}
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	velocity := g.tracker.VelocityY()
	if g.pc.Horizontal {
		velocity = g.tracker.VelocityX()
	}
	// Progress grows as the pointer moves toward the axis origin, so the
	// velocity along the turn is the pointer velocity negated for a
	// forward turn.
	along := velocity
	if g.forward {
		along = -velocity
	}
	fulfilled := g.canTurn() &&
		(g.progress >= g.cfg.SwipeFulfillThreshold || along >= g.cfg.MinimumFlingVelocity)

	if !fulfilled && g.progress == 0 {
		g.pc.Target.SetPageTransition(0, g.forward)
		return nil, Decline
	}

	to := 0.0
	if fulfilled {
		to = 1
	}
	forward := g.forward
	g.scroller.Start(ev.Time, g.progress, to, g.cfg.SwipeAnimationDuration, EaseInOut,
		func(p float64) {
			g.progress = p
			g.pc.Target.SetPageTransition(p, forward)
		},
		func() {
			if fulfilled {
				g.pc.Target.CommitPage(forward)
				if g.pc.OnPageChanged != nil {
					g.landed = g.pc.OnPageChanged(g.pc.Target.CurrentPage())
				}
			}
			g.progress = 0
		})
	return nil, Pending
}

func (g *PagerFling) OnTimeUpdate(now time.Time) (Command, Verdict) {
	if !g.scroller.Active() {
		return nil, Pending
	}
	if !g.scroller.Tick(now) {
		cmd := g.landed
		g.landed = nil
		return cmd, Decline
	}
	return nil, Pending
}

func (g *PagerFling) OnCancel() {
	g.scroller.Stop()
	if g.claimed {
		g.pc.Target.SetPageTransition(0, g.forward)
	}
}

func (g *PagerFling) Reset() {
	g.scroller.Stop()
	*g = PagerFling{cfg: g.cfg, pc: g.pc}
}

var _ Gesture = &PagerFling{}

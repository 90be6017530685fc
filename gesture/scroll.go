package gesture

import (
	"math"
	"time"
)

// ScrollTarget is the scrollable surface a Scroll gesture drives. Positions
// grow toward the end of the content and are clamped to [0, MaxScrollPosition].
type ScrollTarget interface {
	ScrollPosition() float64
	SetScrollPosition(pos float64)
	MaxScrollPosition() float64
}

// ScrollConfig wires a Scroll gesture to its component.
type ScrollConfig struct {
	Horizontal bool
	Target     ScrollTarget

	// Snap, if set, adjusts the resting position after a drag or fling,
	// typically to an item boundary.
	Snap func(pos float64) float64
}

// Scroll claims a sequence once the pointer travels past the slop along the
// scroll axis, drags the target directly, and settles with an eased fling or
// snap on release. The gesture keeps its claim while the settle animation
// runs; a new press interrupts the animation and continues dragging.
type Scroll struct {
	cfg Config
	sc  ScrollConfig

	tracker     VelocityTracker
	claimed     bool
	down        float64
	startScroll float64
	scroller    AutoScroller
}

func NewScroll(cfg Config, sc ScrollConfig) *Scroll {
	return &Scroll{cfg: cfg, sc: sc}
}

func (g *Scroll) axis(ev PointerEvent) float64 {
	if g.sc.Horizontal {
		return ev.X
	}
	return ev.Y
}

func (g *Scroll) OnDown(ev PointerEvent) (Command, Verdict) {
	if g.scroller.Active() {
		// Catch the content mid-fling and keep dragging.
		g.scroller.Stop()
	}
	g.tracker.Reset()
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	g.down = g.axis(ev)
	g.startScroll = g.sc.Target.ScrollPosition()
	return nil, Pending
}

func (g *Scroll) OnMove(ev PointerEvent) (Command, Verdict) {
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	pos := g.axis(ev)
	if !g.claimed {
		if math.Abs(pos-g.down) <= g.cfg.PointerSlop {
			return nil, Pending
		}
		g.claimed = true
		// Rebase so the drag starts where the claim happened instead
		// of jumping by the slop distance.
		g.down = pos
		g.startScroll = g.sc.Target.ScrollPosition()
		return nil, Claim
	}
	g.drag(pos)
	return nil, Pending
}

// drag moves the content opposite to the pointer.
func (g *Scroll) drag(pos float64) {
	g.sc.Target.SetScrollPosition(g.clamp(g.startScroll - (pos - g.down)))
}

func (g *Scroll) clamp(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if max := g.sc.Target.MaxScrollPosition(); pos > max {
		return max
	}
	return pos
}

func (g *Scroll) OnUp(ev PointerEvent) (Command, Verdict) {
	if !g.claimed {
		return nil, Decline
	}
	g.tracker.Add(ev.Time, ev.X, ev.Y)
	velocity := g.tracker.VelocityY()
	if g.sc.Horizontal {
		velocity = g.tracker.VelocityX()
	}
	cur := g.sc.Target.ScrollPosition()

	if math.Abs(velocity) >= g.cfg.MinimumFlingVelocity {
		// Content velocity is the pointer velocity negated.
		g.scroller.StartFling(ev.Time, cur, -velocity, g.cfg.FlingDeceleration,
			g.rest, g.sc.Target.SetScrollPosition, nil)
		return nil, Pending
	}
	if g.sc.Snap != nil {
		if to := g.rest(cur); to != cur {
			g.scroller.Start(ev.Time, cur, to, g.cfg.SwipeAnimationDuration,
				EaseInOut, g.sc.Target.SetScrollPosition, nil)
			return nil, Pending
		}
	}
	return nil, Decline
}

// rest clamps a prospective end position and snaps it if configured.
func (g *Scroll) rest(pos float64) float64 {
	pos = g.clamp(pos)
	if g.sc.Snap != nil {
		pos = g.clamp(g.sc.Snap(pos))
	}
	return pos
}

func (g *Scroll) OnTimeUpdate(now time.Time) (Command, Verdict) {
	if !g.scroller.Active() {
		return nil, Pending
	}
	if !g.scroller.Tick(now) {
		return nil, Decline
	}
	return nil, Pending
}

func (g *Scroll) OnCancel() {
	g.scroller.Stop()
}

func (g *Scroll) Reset() {
	g.scroller.Stop()
	*g = Scroll{cfg: g.cfg, sc: g.sc}
}

var _ Gesture = &Scroll{}

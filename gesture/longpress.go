package gesture

import (
	"math"
	"time"
)

// LongPressConfig wires a LongPress to its component.
type LongPressConfig struct {
	// OnLongPressStart runs when the hold timeout claims the sequence.
	OnLongPressStart func() Command
	// OnLongPressEnd runs when the held pointer is finally released.
	OnLongPressEnd func() Command
}

// LongPress claims a pointer sequence that stays put for the configured
// hold timeout, suppressing the component press.
type LongPress struct {
	cfg Config
	lp  LongPressConfig

	tracking     bool
	claimed      bool
	downX, downY float64
	deadline     time.Time
}

func NewLongPress(cfg Config, lp LongPressConfig) *LongPress {
	return &LongPress{cfg: cfg, lp: lp}
}

func (g *LongPress) OnDown(ev PointerEvent) (Command, Verdict) {
	g.tracking = true
	g.downX, g.downY = ev.X, ev.Y
	g.deadline = ev.Time.Add(g.cfg.LongPressTimeout)
	return nil, Pending
}

func (g *LongPress) OnMove(ev PointerEvent) (Command, Verdict) {
	if g.claimed {
		return nil, Pending
	}
	if math.Hypot(ev.X-g.downX, ev.Y-g.downY) > g.cfg.PointerSlop {
		return nil, Decline
	}
	return nil, Pending
}

func (g *LongPress) OnUp(ev PointerEvent) (Command, Verdict) {
	if !g.claimed {
		return nil, Decline
	}
	var cmd Command
	if g.lp.OnLongPressEnd != nil {
		cmd = g.lp.OnLongPressEnd()
	}
	return cmd, Decline
}

func (g *LongPress) OnTimeUpdate(now time.Time) (Command, Verdict) {
	if !g.tracking || g.claimed || now.Before(g.deadline) {
		return nil, Pending
	}
	g.claimed = true
	var cmd Command
	if g.lp.OnLongPressStart != nil {
		cmd = g.lp.OnLongPressStart()
	}
	return cmd, Claim
}

func (g *LongPress) OnCancel() {}

func (g *LongPress) Reset() {
	*g = LongPress{cfg: g.cfg, lp: g.lp}
}

var _ Gesture = &LongPress{}

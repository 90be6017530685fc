package gesture

import (
	"math"
	"time"
)

// DoublePressConfig wires a DoublePress to its component. Exactly one of the
// two callbacks runs per recognized interaction.
type DoublePressConfig struct {
	OnSinglePress func() Command
	OnDoublePress func() Command
}

// DoublePress discriminates single from double presses. The first release
// claims the sequence and opens the between-presses window: a second press
// inside it resolves as a double press, the window elapsing resolves as a
// single press.
type DoublePress struct {
	cfg Config
	dp  DoublePressConfig

	phase        doublePressPhase
	downX, downY float64
	deadline     time.Time
}

type doublePressPhase int

const (
	dpIdle doublePressPhase = iota
	dpFirstDown
	dpWaiting
	dpSecondDown
)

func NewDoublePress(cfg Config, dp DoublePressConfig) *DoublePress {
	return &DoublePress{cfg: cfg, dp: dp}
}

func (g *DoublePress) OnDown(ev PointerEvent) (Command, Verdict) {
	switch g.phase {
	case dpIdle:
		g.phase = dpFirstDown
		g.downX, g.downY = ev.X, ev.Y
	case dpWaiting:
		g.phase = dpSecondDown
		g.downX, g.downY = ev.X, ev.Y
		g.deadline = time.Time{}
	}
	return nil, Pending
}

func (g *DoublePress) OnMove(ev PointerEvent) (Command, Verdict) {
	if math.Hypot(ev.X-g.downX, ev.Y-g.downY) > g.cfg.PointerSlop {
		// The pointer wandered off; this is a drag, not a press of any
		// kind.
		return nil, Decline
	}
	return nil, Pending
}

func (g *DoublePress) OnUp(ev PointerEvent) (Command, Verdict) {
	switch g.phase {
	case dpFirstDown:
		g.phase = dpWaiting
		g.deadline = ev.Time.Add(g.cfg.DoublePressTimeout)
		return nil, Claim
	case dpSecondDown:
		var cmd Command
		if g.dp.OnDoublePress != nil {
			cmd = g.dp.OnDoublePress()
		}
		return cmd, Decline
	}
	return nil, Decline
}

func (g *DoublePress) OnTimeUpdate(now time.Time) (Command, Verdict) {
	if g.phase != dpWaiting || g.deadline.IsZero() || now.Before(g.deadline) {
		return nil, Pending
	}
	var cmd Command
	if g.dp.OnSinglePress != nil {
		cmd = g.dp.OnSinglePress()
	}
	return cmd, Decline
}

func (g *DoublePress) OnCancel() {}

func (g *DoublePress) Reset() {
	*g = DoublePress{cfg: g.cfg, dp: g.dp}
}

var _ Gesture = &DoublePress{}

package gesture

import "time"

// velocityWindow is how much history the tracker keeps. Samples older than
// this relative to the newest one no longer influence the estimate.
const velocityWindow = 100 * time.Millisecond

type velocitySample struct {
	t   time.Time
	pos float64
}

// axisTracker estimates velocity along one axis from a sliding window of
// position samples. A direction reversal discards the history so the
// estimate reflects the new direction immediately.
type axisTracker struct {
	samples []velocitySample
}

func (a *axisTracker) add(t time.Time, pos float64) {
	if n := len(a.samples); n >= 2 {
		prev := a.samples[n-1].pos - a.samples[n-2].pos
		cur := pos - a.samples[n-1].pos
		if prev != 0 && cur != 0 && (prev > 0) != (cur > 0) {
			last := a.samples[n-1]
			a.samples = append(a.samples[:0], last)
		}
	}
	a.samples = append(a.samples, velocitySample{t, pos})
	cutoff := t.Add(-velocityWindow)
	trim := 0
	for trim < len(a.samples)-1 && a.samples[trim].t.Before(cutoff) {
		trim++
	}
	a.samples = a.samples[trim:]
}

func (a *axisTracker) velocity() float64 {
	n := len(a.samples)
	if n < 2 {
		return 0
	}
	first, last := a.samples[0], a.samples[n-1]
	dt := last.t.Sub(first.t).Seconds()
	if dt <= 0 {
		return 0
	}
	return (last.pos - first.pos) / dt
}

func (a *axisTracker) reset() {
	a.samples = a.samples[:0]
}

// VelocityTracker estimates pointer velocity over a 100ms sliding window,
// per axis, in units per second.
type VelocityTracker struct {
	x, y axisTracker
}

// Add records a position sample. Samples must arrive in time order.
func (v *VelocityTracker) Add(t time.Time, x, y float64) {
	v.x.add(t, x)
	v.y.add(t, y)
}

// VelocityX returns the estimated x velocity in units per second.
func (v *VelocityTracker) VelocityX() float64 { return v.x.velocity() }

// VelocityY returns the estimated y velocity in units per second.
func (v *VelocityTracker) VelocityY() float64 { return v.y.velocity() }

// Reset discards all samples.
func (v *VelocityTracker) Reset() {
	v.x.reset()
	v.y.reset()
}

package gesture

import "time"

// AutoScroller animates a single scalar from one value to another on the
// engine clock: fling positions, swipe transforms and page turns all run
// through it. It holds no timer of its own; Tick must be called as time
// advances.
type AutoScroller struct {
	active   bool
	start    time.Time
	duration time.Duration
	from, to float64
	easing   Easing
	apply    func(pos float64)
	done     func()
}

// Start begins an animation from from to to over the given duration. apply
// receives interpolated positions including the final one; done, if set,
// runs after the final apply. A zero or negative duration completes
// immediately on the next Tick.
func (a *AutoScroller) Start(now time.Time, from, to float64, duration time.Duration, easing Easing, apply func(float64), done func()) {
	if easing == nil {
		easing = EaseOut
	}
	a.active = true
	a.start = now
	a.duration = duration
	a.from = from
	a.to = to
	a.easing = easing
	a.apply = apply
	a.done = done
}

// StartFling derives the animation from a release velocity: the traveled
// distance is v²/2a and the duration v/a, eased out so the speed tapers the
// way friction would. clamp limits the end position.
func (a *AutoScroller) StartFling(now time.Time, from, velocity, deceleration float64, clamp func(float64) float64, apply func(float64), done func()) {
	if deceleration <= 0 {
		deceleration = DefaultFlingDeceleration
	}
	speed := velocity
	if speed < 0 {
		speed = -speed
	}
	distance := speed * speed / (2 * deceleration)
	if velocity < 0 {
		distance = -distance
	}
	to := from + distance
	if clamp != nil {
		to = clamp(to)
	}
	duration := time.Duration(speed / deceleration * float64(time.Second))
	a.Start(now, from, to, duration, EaseOut, apply, done)
}

// Active reports whether an animation is in progress.
func (a *AutoScroller) Active() bool { return a.active }

// Target returns the end position of the current animation.
func (a *AutoScroller) Target() float64 { return a.to }

// Stop abandons the animation without applying the end position.
func (a *AutoScroller) Stop() {
	a.active = false
	a.apply = nil
	a.done = nil
}

// Tick advances the animation to now. It reports whether the animation is
// still running afterwards.
func (a *AutoScroller) Tick(now time.Time) bool {
	if !a.active {
		return false
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.duration || a.duration <= 0 {
		apply, done := a.apply, a.done
		to := a.to
		a.Stop()
		if apply != nil {
			apply(to)
		}
		if done != nil {
			done()
		}
		return false
	}
	t := float64(elapsed) / float64(a.duration)
	a.apply(a.from + (a.to-a.from)*a.easing(t))
	return true
}

package gesture

import "time"

const (
	// DefaultPointerSlop is how far a pointer may wander before movement
	// stops counting as a press.
	DefaultPointerSlop = 8.0

	// DefaultDoublePressTimeout is the longest gap between two presses
	// that still reads as a double press.
	DefaultDoublePressTimeout = 500 * time.Millisecond

	// DefaultLongPressTimeout is how long a press must be held to become
	// a long press.
	DefaultLongPressTimeout = 1000 * time.Millisecond

	// DefaultSwipeTriggerDistance is the displacement at which a swipe
	// claims its pointer sequence.
	DefaultSwipeTriggerDistance = 10.0

	// DefaultSwipeAngularTolerance is how far, in degrees, the pointer
	// may stray from the swipe axis while still counting as a swipe.
	DefaultSwipeAngularTolerance = 40.0

	// DefaultSwipeFulfillThreshold is the traveled fraction of the extent
	// beyond which a released swipe completes instead of snapping back.
	DefaultSwipeFulfillThreshold = 0.5

	// DefaultSwipeVelocityThreshold is the release speed, in units per
	// second, that completes a swipe regardless of distance.
	DefaultSwipeVelocityThreshold = 500.0

	// DefaultSwipeAnimationDuration is how long the settle animation runs
	// after a swipe or page turn is released.
	DefaultSwipeAnimationDuration = 200 * time.Millisecond

	// DefaultMinimumFlingVelocity is the slowest release, in units per
	// second, that still starts a fling.
	DefaultMinimumFlingVelocity = 50.0

	// DefaultFlingDeceleration is how quickly a fling slows down, in
	// units per second squared.
	DefaultFlingDeceleration = 1500.0
)

// Config carries the shared gesture tunables. Start from DefaultConfig and
// override what the document or host changes.
type Config struct {
	PointerSlop            float64
	DoublePressTimeout     time.Duration
	LongPressTimeout       time.Duration
	SwipeTriggerDistance   float64
	SwipeAngularTolerance  float64
	SwipeFulfillThreshold  float64
	SwipeVelocityThreshold float64
	SwipeAnimationDuration time.Duration
	MinimumFlingVelocity   float64
	FlingDeceleration      float64
}

func DefaultConfig() Config {
	return Config{
		PointerSlop:            DefaultPointerSlop,
		DoublePressTimeout:     DefaultDoublePressTimeout,
		LongPressTimeout:       DefaultLongPressTimeout,
		SwipeTriggerDistance:   DefaultSwipeTriggerDistance,
		SwipeAngularTolerance:  DefaultSwipeAngularTolerance,
		SwipeFulfillThreshold:  DefaultSwipeFulfillThreshold,
		SwipeVelocityThreshold: DefaultSwipeVelocityThreshold,
		SwipeAnimationDuration: DefaultSwipeAnimationDuration,
		MinimumFlingVelocity:   DefaultMinimumFlingVelocity,
		FlingDeceleration:      DefaultFlingDeceleration,
	}
}

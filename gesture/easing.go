package gesture

// Easing maps normalized animation time to normalized progress. Input and
// output both run 0..1; implementations must be monotonic with f(0)=0 and
// f(1)=1.
type Easing func(t float64) float64

// Linear progresses uniformly.
func Linear(t float64) float64 { return t }

// EaseOut starts fast and decelerates, the natural shape for flings.
func EaseOut(t float64) float64 { return t * (2 - t) }

// EaseInOut accelerates then decelerates, the shape used for settle and
// swipe animations.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

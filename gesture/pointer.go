// Package gesture recognizes pointer gestures over an inflated component
// tree: scrolling, swipe-to-dismiss, single/double/long presses and pager
// flings.
//
// The package is deliberately free of engine types. Targets are manipulated
// through small interfaces and closures the embedding engine supplies, and
// every hook may return a Command the engine executes; gestures never touch
// a clock or goroutine themselves, so deadlines and animations advance only
// through OnTimeUpdate.
package gesture

import "time"

// Command is whatever the embedding engine executes. Gestures only produce
// commands through the callbacks they were configured with and hand them
// back unchanged.
type Command = any

// Phase is the stage of a pointer sequence an event belongs to.
type Phase int

const (
	Down Phase = iota
	Move
	Up
	Cancel
)

func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return "cancel"
}

// PointerEvent is one sample of a pointer sequence in document coordinates.
type PointerEvent struct {
	// ID distinguishes pointers; hosts with a single pointer use 0.
	ID int

	Phase Phase
	X, Y  float64
	Time  time.Time
}

// Direction names the four cardinal swipe directions.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	}
	return "down"
}

// Vector returns the unit vector pointing along the direction, with y
// growing downward.
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	case DirectionUp:
		return 0, -1
	}
	return 0, 1
}

// Horizontal reports whether the direction runs along the x axis.
func (d Direction) Horizontal() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	case DirectionUp:
		return DirectionDown
	}
	return DirectionUp
}

package vellum

import (
	"container/heap"
	"time"
)

// TimerID identifies a timer scheduled on a Clock. The zero value is never a
// valid id.
type TimerID int64

// Clock is the engine's deterministic timer source. All engine timing — fetch
// timeouts, press windows, animation steps — runs off one clock that the host
// pumps forward via the engine. Callbacks fire during AdvanceTo, on the
// engine's goroutine, in deadline order (FIFO among equal deadlines).
type Clock struct {
	now    time.Time
	nextID TimerID
	seq    int64
	timers timerHeap
	index  map[TimerID]*timer
}

type timer struct {
	id   TimerID
	when time.Time
	seq  int64
	f    func()
	pos  int
}

// NewClock returns a clock positioned at the given start time.
func NewClock(start time.Time) *Clock {
	return &Clock{
		now:   start,
		index: make(map[TimerID]*timer),
	}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	return c.now
}

// AfterFunc schedules f to run once the clock has advanced by d. Non-positive
// delays fire on the next advance.
func (c *Clock) AfterFunc(d time.Duration, f func()) TimerID {
	c.nextID++
	c.seq++
	t := &timer{
		id:   c.nextID,
		when: c.now.Add(d),
		seq:  c.seq,
		f:    f,
	}
	c.index[t.id] = t
	heap.Push(&c.timers, t)
	return t.id
}

// Cancel removes a scheduled timer. It reports whether the timer was still
// pending.
func (c *Clock) Cancel(id TimerID) bool {
	t, ok := c.index[id]
	if !ok {
		return false
	}
	delete(c.index, id)
	heap.Remove(&c.timers, t.pos)
	return true
}

// Schedule is AfterFunc returning a cancel closure instead of an id. It is
// the shape injected into subsystems that should not know about the clock.
func (c *Clock) Schedule(d time.Duration, f func()) (cancel func()) {
	id := c.AfterFunc(d, f)
	return func() { c.Cancel(id) }
}

// AdvanceTo moves the clock to t, firing every timer due on the way in
// deadline order. Timers scheduled by fired callbacks run in the same pass
// when their deadline is within t. Moving backwards is a no-op.
func (c *Clock) AdvanceTo(t time.Time) {
	for {
		next, ok := c.peek()
		if !ok || next.when.After(t) {
			break
		}
		// Step time to the timer's deadline so callbacks observe a
		// monotonically advancing Now.
		if next.when.After(c.now) {
			c.now = next.when
		}
		heap.Pop(&c.timers)
		delete(c.index, next.id)
		next.f()
	}
	if t.After(c.now) {
		c.now = t
	}
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.AdvanceTo(c.now.Add(d))
}

// Pending returns the number of timers currently scheduled.
func (c *Clock) Pending() int {
	return len(c.timers)
}

func (c *Clock) peek() (*timer, bool) {
	if len(c.timers) == 0 {
		return nil, false
	}
	return c.timers[0], true
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.pos = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

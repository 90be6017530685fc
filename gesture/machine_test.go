package gesture_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayn2op/vellum/gesture"
)

var base = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }

func pointerEvent(phase gesture.Phase, x, y float64, ms int) gesture.PointerEvent {
	return gesture.PointerEvent{Phase: phase, X: x, Y: y, Time: at(ms)}
}

func down(x, y float64, ms int) gesture.PointerEvent { return pointerEvent(gesture.Down, x, y, ms) }
func move(x, y float64, ms int) gesture.PointerEvent { return pointerEvent(gesture.Move, x, y, ms) }
func up(x, y float64, ms int) gesture.PointerEvent   { return pointerEvent(gesture.Up, x, y, ms) }

func checkCommands(t *testing.T, got []gesture.Command, want ...gesture.Command) {
	t.Helper()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

// fakeGesture scripts hook behavior per test; nil hooks stay pending. Every
// call is appended to log as "<name> <hook>".
type fakeGesture struct {
	name string
	log  *[]string

	onDown  func(gesture.PointerEvent) (gesture.Command, gesture.Verdict)
	onMove  func(gesture.PointerEvent) (gesture.Command, gesture.Verdict)
	onUp    func(gesture.PointerEvent) (gesture.Command, gesture.Verdict)
	onTime  func(time.Time) (gesture.Command, gesture.Verdict)
	cancels int
	resets  int
}

func (g *fakeGesture) record(hook string) {
	if g.log != nil {
		*g.log = append(*g.log, g.name+" "+hook)
	}
}

func (g *fakeGesture) OnDown(ev gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
	g.record("down")
	if g.onDown == nil {
		return nil, gesture.Pending
	}
	return g.onDown(ev)
}

func (g *fakeGesture) OnMove(ev gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
	g.record("move")
	if g.onMove == nil {
		return nil, gesture.Pending
	}
	return g.onMove(ev)
}

func (g *fakeGesture) OnUp(ev gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
	g.record("up")
	if g.onUp == nil {
		return nil, gesture.Pending
	}
	return g.onUp(ev)
}

func (g *fakeGesture) OnTimeUpdate(now time.Time) (gesture.Command, gesture.Verdict) {
	g.record("time")
	if g.onTime == nil {
		return nil, gesture.Pending
	}
	return g.onTime(now)
}

func (g *fakeGesture) OnCancel() { g.cancels++; g.record("cancel") }
func (g *fakeGesture) Reset()    { g.resets++ }

func sessionWith(gs ...gesture.Gesture) func() gesture.Session {
	return func() gesture.Session {
		return gesture.Session{
			Candidates: gs,
			OnPress:    func(gesture.PointerEvent) gesture.Command { return "press" },
			OnClaimed:  func() gesture.Command { return "claimed" },
		}
	}
}

func TestMachineUnclaimedSequenceIsPress(t *testing.T) {
	var log []string
	a := &fakeGesture{name: "a", log: &log}
	b := &fakeGesture{name: "b", log: &log}
	m := gesture.NewMachine()

	checkCommands(t, m.HandlePointerEvent(down(5, 5, 0), sessionWith(a, b)))
	checkCommands(t, m.HandlePointerEvent(move(6, 5, 20), nil))
	checkCommands(t, m.HandlePointerEvent(up(6, 5, 50), nil), "press")

	if got := m.State(); got != gesture.StateIdle {
		t.Errorf("state after press = %v, want idle", got)
	}
	want := []string{
		"a down", "b down",
		"a time", "b time", "a move", "b move",
		"a time", "b time", "a up", "b up",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}
}

func TestMachineClaimDiscardsRivals(t *testing.T) {
	var log []string
	a := &fakeGesture{name: "a", log: &log}
	b := &fakeGesture{name: "b", log: &log}
	c := &fakeGesture{name: "c", log: &log}
	b.onMove = func(gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
		return "b-claim", gesture.Claim
	}
	b.onUp = func(gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
		return "b-done", gesture.Decline
	}
	m := gesture.NewMachine()

	m.HandlePointerEvent(down(0, 0, 0), sessionWith(a, b, c))
	checkCommands(t, m.HandlePointerEvent(move(20, 0, 30), nil), "b-claim", "claimed")

	if got := m.State(); got != gesture.StateRecognized {
		t.Fatalf("state after claim = %v, want recognized", got)
	}
	if a.resets != 1 || c.resets != 1 {
		t.Errorf("rival resets = %d, %d, want 1, 1", a.resets, c.resets)
	}

	// Subsequent events reach only the claimed gesture.
	log = log[:0]
	m.HandlePointerEvent(move(30, 0, 40), nil)
	checkCommands(t, m.HandlePointerEvent(up(30, 0, 60), nil), "b-done")
	want := []string{"b time", "b move", "b time", "b up"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("routing after claim mismatch (-want +got):\n%s", diff)
	}
	if got := m.State(); got != gesture.StateIdle {
		t.Errorf("state after resolve = %v, want idle", got)
	}
}

func TestMachineDeclineRemovesCandidate(t *testing.T) {
	var log []string
	a := &fakeGesture{name: "a", log: &log}
	b := &fakeGesture{name: "b", log: &log}
	a.onDown = func(gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
		return nil, gesture.Decline
	}
	m := gesture.NewMachine()

	m.HandlePointerEvent(down(0, 0, 0), sessionWith(a, b))
	if a.resets != 1 {
		t.Errorf("declined candidate resets = %d, want 1", a.resets)
	}

	log = log[:0]
	m.HandlePointerEvent(move(1, 0, 20), nil)
	want := []string{"b time", "b move"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("declined candidate still driven (-want +got):\n%s", diff)
	}
}

func TestMachineSecondDownRestartsSequence(t *testing.T) {
	a := &fakeGesture{name: "a"}
	m := gesture.NewMachine()
	sessions := 0
	begin := func() gesture.Session {
		sessions++
		return gesture.Session{Candidates: []gesture.Gesture{a}}
	}

	m.HandlePointerEvent(down(0, 0, 0), begin)

	// A Down while tracking means the Up was lost: the broken sequence is
	// cancelled and the Down opens its replacement.
	checkCommands(t, m.HandlePointerEvent(down(0, 0, 10), begin))
	if a.cancels != 1 {
		t.Errorf("cancels = %d, want 1", a.cancels)
	}
	if sessions != 2 {
		t.Errorf("sessions begun = %d, want 2", sessions)
	}
	if got := m.State(); got != gesture.StateTracking {
		t.Errorf("state after replacing down = %v, want tracking", got)
	}

	// The replacement sequence runs to completion like any other.
	m.HandlePointerEvent(up(0, 0, 20), nil)
	if got := m.State(); got != gesture.StateIdle {
		t.Errorf("state after release = %v, want idle", got)
	}
	m.HandlePointerEvent(down(0, 0, 30), begin)
	if sessions != 3 {
		t.Errorf("sessions begun = %d, want 3", sessions)
	}
	if got := m.State(); got != gesture.StateTracking {
		t.Errorf("state after fresh down = %v, want tracking", got)
	}
}

func TestMachineIgnoresOtherPointers(t *testing.T) {
	var log []string
	a := &fakeGesture{name: "a", log: &log}
	m := gesture.NewMachine()

	m.HandlePointerEvent(down(0, 0, 0), sessionWith(a))
	log = log[:0]

	other := move(9, 9, 10)
	other.ID = 7
	checkCommands(t, m.HandlePointerEvent(other, nil))
	otherUp := up(9, 9, 20)
	otherUp.ID = 7
	checkCommands(t, m.HandlePointerEvent(otherUp, nil))
	// Foreign events advance deadlines but never reach the pointer hooks.
	want := []string{"a time", "a time"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("foreign pointer handling mismatch (-want +got):\n%s", diff)
	}

	checkCommands(t, m.HandlePointerEvent(up(0, 0, 30), nil), "press")
}

func TestMachineDeadlineFiresBeforeEvent(t *testing.T) {
	a := &fakeGesture{name: "a"}
	claimed := false
	a.onTime = func(now time.Time) (gesture.Command, gesture.Verdict) {
		if claimed || now.Before(at(100)) {
			return nil, gesture.Pending
		}
		claimed = true
		return "held", gesture.Claim
	}
	a.onUp = func(gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
		return "release", gesture.Decline
	}
	m := gesture.NewMachine()

	m.HandlePointerEvent(down(0, 0, 0), sessionWith(a))
	// The Up carries a timestamp past the deadline: the claim must land
	// before the Up is interpreted, so this is a hold release rather
	// than a press.
	got := m.HandlePointerEvent(up(0, 0, 150), nil)
	checkCommands(t, got, "held", "claimed", "release")
	if got := m.State(); got != gesture.StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestMachineClaimOutlivesSequence(t *testing.T) {
	var log []string
	a := &fakeGesture{name: "a", log: &log}
	a.onMove = func(gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
		return nil, gesture.Claim
	}
	a.onUp = func(gesture.PointerEvent) (gesture.Command, gesture.Verdict) {
		// Keep the claim through the release, as a fling would.
		return nil, gesture.Pending
	}
	settled := false
	a.onTime = func(time.Time) (gesture.Command, gesture.Verdict) {
		if settled {
			return "settled", gesture.Decline
		}
		return nil, gesture.Pending
	}
	m := gesture.NewMachine()
	sessions := 0
	begin := func() gesture.Session {
		sessions++
		return gesture.Session{Candidates: []gesture.Gesture{a}}
	}

	m.HandlePointerEvent(down(0, 0, 0), begin)
	m.HandlePointerEvent(move(20, 0, 20), begin)
	m.HandlePointerEvent(up(20, 0, 40), begin)
	if got := m.State(); got != gesture.StateRecognized {
		t.Fatalf("state after up = %v, want recognized", got)
	}

	// A new press lands on the still-claimed gesture; no new session.
	log = log[:0]
	m.HandlePointerEvent(down(25, 0, 200), begin)
	want := []string{"a time", "a down"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("re-grab routing mismatch (-want +got):\n%s", diff)
	}
	if sessions != 1 {
		t.Errorf("sessions begun = %d, want 1", sessions)
	}

	m.HandlePointerEvent(up(25, 0, 220), begin)
	settled = true
	checkCommands(t, m.OnTimeUpdate(at(400)), "settled")
	if got := m.State(); got != gesture.StateIdle {
		t.Errorf("state after settle = %v, want idle", got)
	}

	// Only now does a Down open a fresh session.
	m.HandlePointerEvent(down(0, 0, 500), begin)
	if sessions != 2 {
		t.Errorf("sessions begun = %d, want 2", sessions)
	}
}

func TestMachineCancelSequence(t *testing.T) {
	a := &fakeGesture{name: "a"}
	m := gesture.NewMachine()
	m.HandlePointerEvent(down(0, 0, 0), sessionWith(a))
	m.CancelSequence()
	if a.cancels != 1 {
		t.Errorf("cancels = %d, want 1", a.cancels)
	}
	if got := m.State(); got != gesture.StateIdle {
		t.Errorf("state after cancel = %v, want idle", got)
	}
}

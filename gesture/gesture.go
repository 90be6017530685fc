package gesture

import "time"

// Verdict is what a gesture hook tells the machine about its interest in the
// current pointer sequence.
type Verdict int

const (
	// Pending keeps the gesture in the running without committing.
	Pending Verdict = iota
	// Claim takes the sequence exclusively; every other candidate is
	// discarded.
	Claim
	// Decline withdraws the gesture. From a claimed gesture it means the
	// interaction is fully resolved, animations included.
	Decline
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "pending"
	case Claim:
		return "claim"
	}
	return "decline"
}

// Gesture is one recognizer candidate. The machine instantiates candidates
// fresh for every pointer sequence and drives them through these hooks; a
// hook's Command, if non-nil, is handed to the engine for execution.
//
// Time-driven behavior runs exclusively through OnTimeUpdate. The machine
// guarantees it is called with the event's own timestamp before any pointer
// hook, so deadline checks never race the event stream.
type Gesture interface {
	OnDown(ev PointerEvent) (Command, Verdict)
	OnMove(ev PointerEvent) (Command, Verdict)
	OnUp(ev PointerEvent) (Command, Verdict)
	OnTimeUpdate(now time.Time) (Command, Verdict)
	OnCancel()
	Reset()
}

// State is the machine's position in the recognition lifecycle.
type State int

const (
	// StateIdle: no pointer sequence in progress.
	StateIdle State = iota
	// StateTracking: a sequence is live and candidates are competing.
	StateTracking
	// StateRecognized: one gesture holds the sequence exclusively. The
	// machine stays here until that gesture resolves, which may span
	// several pointer sequences (double press) or outlive the last Up
	// (fling and settle animations).
	StateRecognized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	}
	return "recognized"
}

// Session describes one pointer sequence to the machine: the candidates
// competing for it, leaf-first along the hit path and in registration order
// within a component, and the callbacks for the two arbitration outcomes.
type Session struct {
	Candidates []Gesture

	// OnPress runs when the sequence ends with no gesture claiming it:
	// the plain component press.
	OnPress func(ev PointerEvent) Command

	// OnClaimed runs the moment any candidate claims, letting the engine
	// cancel pressed visuals.
	OnClaimed func() Command
}

// Machine arbitrates pointer sequences between gesture candidates. It is
// single-goroutine like the rest of the engine.
type Machine struct {
	state      State
	pointer    int
	session    Session
	candidates []Gesture
	claimed    Gesture
}

func NewMachine() *Machine {
	return &Machine{}
}

// State returns the machine's current lifecycle position.
func (m *Machine) State() State { return m.state }

// HandlePointerEvent feeds one pointer event through arbitration and returns
// the commands produced. Events from pointers other than the one that opened
// the sequence are ignored. begin supplies the session for a fresh Down; it
// is not consulted while a claimed gesture is still resolving.
func (m *Machine) HandlePointerEvent(ev PointerEvent, begin func() Session) []Command {
	var cmds []Command
	collect := func(c Command) {
		cmds = appendCommand(cmds, c)
	}

	// Deadlines fire before the event is interpreted.
	cmds = append(cmds, m.OnTimeUpdate(ev.Time)...)

	switch m.state {
	case StateIdle:
		if ev.Phase != Down {
			return cmds
		}
		m.beginSequence(ev, begin, collect)

	case StateTracking:
		if ev.ID != m.pointer {
			return cmds
		}
		switch ev.Phase {
		case Cancel:
			m.cancelAll()
			return cmds
		case Down:
			// A second Down without an Up in between means the Up was
			// lost; the broken sequence is cancelled and this Down
			// opens its replacement.
			m.cancelAll()
			m.beginSequence(ev, begin, collect)
			return cmds
		}
		m.dispatch(ev, collect)
		if m.state == StateTracking && ev.Phase == Up {
			// Nobody claimed: the sequence was a press.
			if m.session.OnPress != nil {
				collect(m.session.OnPress(ev))
			}
			m.finish()
		}

	case StateRecognized:
		if ev.ID != m.pointer {
			return cmds
		}
		if ev.Phase == Cancel {
			m.cancelAll()
			return cmds
		}
		cmd, verdict := m.route(ev)
		collect(cmd)
		if verdict == Decline {
			m.finish()
		}
	}
	return cmds
}

// beginSequence opens a pointer sequence from a Down event: the session's
// candidates start competing and the Down is dispatched to all of them.
func (m *Machine) beginSequence(ev PointerEvent, begin func() Session, collect func(Command)) {
	m.pointer = ev.ID
	m.session = Session{}
	if begin != nil {
		m.session = begin()
	}
	m.candidates = m.session.Candidates
	m.state = StateTracking
	m.dispatch(ev, collect)
}

// OnTimeUpdate advances gesture deadlines and animations to now.
func (m *Machine) OnTimeUpdate(now time.Time) []Command {
	var cmds []Command
	collect := func(c Command) {
		cmds = appendCommand(cmds, c)
	}
	switch m.state {
	case StateTracking:
		m.each(func(g Gesture) (Command, Verdict) {
			return g.OnTimeUpdate(now)
		}, collect)
	case StateRecognized:
		cmd, verdict := m.claimed.OnTimeUpdate(now)
		collect(cmd)
		if verdict == Decline {
			m.finish()
		}
	}
	return cmds
}

// CancelSequence aborts whatever is in progress, as when the host loses the
// pointer.
func (m *Machine) CancelSequence() {
	m.cancelAll()
}

// dispatch feeds a pointer event to the competing candidates during
// tracking.
func (m *Machine) dispatch(ev PointerEvent, collect func(Command)) {
	m.each(func(g Gesture) (Command, Verdict) {
		switch ev.Phase {
		case Down:
			return g.OnDown(ev)
		case Move:
			return g.OnMove(ev)
		default:
			return g.OnUp(ev)
		}
	}, collect)
}

// each runs a hook over the candidates in priority order, handling claims
// and withdrawals. On a claim the remaining candidates are reset and
// discarded.
func (m *Machine) each(hook func(Gesture) (Command, Verdict), collect func(Command)) {
	kept := m.candidates[:0]
	for i, g := range m.candidates {
		cmd, verdict := hook(g)
		collect(cmd)
		switch verdict {
		case Claim:
			for _, other := range m.candidates[i+1:] {
				other.Reset()
			}
			for _, other := range kept {
				other.Reset()
			}
			m.claimed = g
			m.candidates = nil
			m.state = StateRecognized
			if m.session.OnClaimed != nil {
				collect(m.session.OnClaimed())
			}
			return
		case Decline:
			g.Reset()
		default:
			kept = append(kept, g)
		}
	}
	m.candidates = kept
}

// appendCommand adds a command to the list, flattening []Command values so a
// hook can hand back several commands from one call.
func appendCommand(cmds []Command, c Command) []Command {
	switch c := c.(type) {
	case nil:
	case []Command:
		for _, cc := range c {
			cmds = appendCommand(cmds, cc)
		}
	default:
		cmds = append(cmds, c)
	}
	return cmds
}

// route feeds an event to the claimed gesture.
func (m *Machine) route(ev PointerEvent) (Command, Verdict) {
	switch ev.Phase {
	case Down:
		return m.claimed.OnDown(ev)
	case Move:
		return m.claimed.OnMove(ev)
	default:
		return m.claimed.OnUp(ev)
	}
}

func (m *Machine) cancelAll() {
	for _, g := range m.candidates {
		g.OnCancel()
		g.Reset()
	}
	if m.claimed != nil {
		m.claimed.OnCancel()
		m.claimed.Reset()
	}
	m.finish()
}

func (m *Machine) finish() {
	if m.claimed != nil {
		m.claimed.Reset()
	}
	m.claimed = nil
	m.candidates = nil
	m.session = Session{}
	m.state = StateIdle
}

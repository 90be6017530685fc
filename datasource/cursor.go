package datasource

// Direction distinguishes the two ends a list can grow from.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Cursor is the pair of page tokens bracketing the loaded window of a
// token-addressed list. Tokens are opaque; the empty string marks a side that
// is exhausted, so a cursor with two empty tokens describes a fully loaded
// list. Cursor is a value type: advancing produces a new cursor and never
// mutates the old one.
type Cursor struct {
	backward string
	forward  string
}

// NewCursor builds a cursor from the seed payload's page tokens. Either side
// may be empty if the document starts at that end of the data.
func NewCursor(backward, forward string) Cursor {
	return Cursor{backward: backward, forward: forward}
}

// Token returns the page token for the given side. It is the empty string
// when that side is exhausted.
func (c Cursor) Token(dir Direction) string {
	if dir == Backward {
		return c.backward
	}
	return c.forward
}

// Exhausted reports whether there is nothing left to fetch on that side.
func (c Cursor) Exhausted(dir Direction) bool {
	return c.Token(dir) == ""
}

// Advance returns a cursor whose token for dir has been replaced by next, as
// delivered in a response's nextPageToken. An empty next marks the side
// exhausted; there is no way to un-exhaust a side short of re-seeding.
func (c Cursor) Advance(dir Direction, next string) Cursor {
	if dir == Backward {
		c.backward = next
	} else {
		c.forward = next
	}
	return c
}

// Side returns the direction whose current token equals tok, which is how
// unsolicited updates are attached. The second result is false when tok
// matches neither side or is empty.
func (c Cursor) Side(tok string) (Direction, bool) {
	switch {
	case tok == "":
		return 0, false
	case tok == c.backward:
		return Backward, true
	case tok == c.forward:
		return Forward, true
	}
	return 0, false
}

package datasource

// List is the live view of one bound dynamic list. Components read items and
// report their visible range here; the owning source connection feeds items
// in from both ends and trims what has scrolled far away.
//
// Items carry two kinds of position. The array index is the item's current
// slot in the backing LiveArray, 0..Len-1, and is what listeners receive.
// The logical index is the item's place in the full remote data set; lazy
// loading extends the loaded logical window without renumbering anything
// already present, while directive edits renumber the items after the edit
// point just like a slice would.
type List struct {
	listID string
	arr    *LiveArray
	start  int // logical index of arr element 0

	ensure func(visMin, visMax int)
	trim   func(keepMin, keepMax int)
}

// ListID returns the identifier the document bound this list under.
func (l *List) ListID() string { return l.listID }

// Array exposes the backing LiveArray.
func (l *List) Array() *LiveArray { return l.arr }

// Attach registers a component-side listener for item changes. Notifications
// fire synchronously within the mutation that causes them.
func (l *List) Attach(listener ArrayListener) {
	l.arr.Listen(listener)
}

// Detach removes a listener registered with Attach.
func (l *List) Detach(listener ArrayListener) {
	l.arr.Unlisten(listener)
}

func (l *List) Len() int { return l.arr.Len() }

// Range returns the loaded logical window, inclusive on both ends. For an
// empty list max is one below min.
func (l *List) Range() (min, max int) {
	return l.start, l.start + l.arr.Len() - 1
}

// ItemAt returns the item at a logical index.
func (l *List) ItemAt(logical int) (any, bool) {
	return l.arr.At(logical - l.start)
}

// EnsureRange tells the list which logical window is visible. The connection
// compares the window against the loaded range and issues fetches for any
// side that is running low. Calling it repeatedly with the same window is
// cheap; outstanding fetches are never duplicated.
func (l *List) EnsureRange(visMin, visMax int) {
	if l.ensure != nil {
		l.ensure(visMin, visMax)
	}
}

// Trim asks the connection to release items outside the keep window. The
// connection only sheds whole fetched batches, so the loaded range after a
// trim may still be wider than requested.
func (l *List) Trim(keepMin, keepMax int) {
	if l.trim != nil {
		l.trim(keepMin, keepMax)
	}
}

// appendItems extends the loaded window forward.
func (l *List) appendItems(items []any) {
	l.arr.Insert(l.arr.Len(), items...)
}

// prependItems extends the loaded window backward; existing items keep their
// logical indices.
func (l *List) prependItems(items []any) {
	l.arr.Insert(0, items...)
	l.start -= len(items)
}

// removeFront drops n items from the backward end.
func (l *List) removeFront(n int) {
	if l.arr.Remove(0, n) {
		l.start += n
	}
}

// removeBack drops n items from the forward end.
func (l *List) removeBack(n int) {
	l.arr.Remove(l.arr.Len()-n, n)
}

// insertAt applies a directive insert at a logical index. Unlike a lazy
// prepend this shifts the logical numbering of everything at and after the
// index.
func (l *List) insertAt(logical int, items ...any) bool {
	return l.arr.Insert(logical-l.start, items...)
}

// removeAt applies a directive delete at a logical index; items after it
// shift down.
func (l *List) removeAt(logical, count int) bool {
	return l.arr.Remove(logical-l.start, count)
}

// replaceAt overwrites the item at a logical index.
func (l *List) replaceAt(logical int, item any) bool {
	return l.arr.Replace(logical-l.start, item)
}

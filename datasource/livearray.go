package datasource

// ArrayListener receives change notifications from a LiveArray. Indices are
// positions in the array at the moment of the call, after the change has been
// applied for inserts and replaces and before removal has been observed by
// the listener. Notifications fire synchronously on the mutating call.
type ArrayListener interface {
	ItemsInserted(index, count int)
	ItemsRemoved(index, count int)
	ItemsReplaced(index, count int)
}

// LiveArray is an ordered collection that announces every mutation to its
// listeners. It is the backing store a bound component renders from: the
// component never copies the items, it tracks them through notifications.
type LiveArray struct {
	items     []any
	listeners []ArrayListener
}

func NewLiveArray(items ...any) *LiveArray {
	a := &LiveArray{}
	if len(items) > 0 {
		a.items = append(a.items, items...)
	}
	return a
}

// Listen registers l for change notifications. Registration order is
// notification order.
func (a *LiveArray) Listen(l ArrayListener) {
	a.listeners = append(a.listeners, l)
}

// Unlisten removes a previously registered listener.
func (a *LiveArray) Unlisten(l ArrayListener) {
	for i, existing := range a.listeners {
		if existing == l {
			a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
			return
		}
	}
}

func (a *LiveArray) Len() int {
	return len(a.items)
}

// At returns the item at index, or nil and false when index is out of range.
func (a *LiveArray) At(index int) (any, bool) {
	if index < 0 || index >= len(a.items) {
		return nil, false
	}
	return a.items[index], true
}

// Values returns a copy of the current contents.
func (a *LiveArray) Values() []any {
	out := make([]any, len(a.items))
	copy(out, a.items)
	return out
}

// Insert places items before the element currently at index. index may equal
// Len to append. An empty insert is a no-op; an out-of-range index is
// rejected.
func (a *LiveArray) Insert(index int, items ...any) bool {
	if index < 0 || index > len(a.items) {
		return false
	}
	if len(items) == 0 {
		return true
	}
	a.items = append(a.items[:index], append(append([]any{}, items...), a.items[index:]...)...)
	for _, l := range a.listeners {
		l.ItemsInserted(index, len(items))
	}
	return true
}

// Remove deletes count items starting at index.
func (a *LiveArray) Remove(index, count int) bool {
	if index < 0 || count <= 0 || index+count > len(a.items) {
		return false
	}
	a.items = append(a.items[:index], a.items[index+count:]...)
	for _, l := range a.listeners {
		l.ItemsRemoved(index, count)
	}
	return true
}

// Replace overwrites the item at index in place.
func (a *LiveArray) Replace(index int, item any) bool {
	if index < 0 || index >= len(a.items) {
		return false
	}
	a.items[index] = item
	for _, l := range a.listeners {
		l.ItemsReplaced(index, 1)
	}
	return true
}

package datasource

import (
	"strconv"
	"time"
)

// ScheduleFunc arms a one-shot timer on whatever clock drives the engine and
// returns a cancel function. Sources never talk to the clock directly; the
// environment injects this so providers stay testable with a hand-cranked
// clock.
type ScheduleFunc func(delay time.Duration, f func()) (cancel func())

// Environment is what a provider needs from its host: a timer source and a
// sink for outgoing fetch requests. The engine installs one when the
// provider is registered.
type Environment struct {
	Schedule ScheduleFunc
	Emit     func(FetchRequestValue)
}

// startingCorrelation is where the counter begins; the first issued token is
// one above it. The counter lives for the provider's lifetime, so tokens
// stay unique across document re-inflation.
const startingCorrelation = 100

// pendingSlot is one outstanding fetch. Every reissue of the same fetch adds
// a correlation token to related; a response matching any of them resolves
// the slot, so a slow first answer still lands after a retry went out.
type pendingSlot struct {
	listID  string
	key     string
	retries int
	related []int
	request FetchRequestValue
	cancel  func()
}

func (s *pendingSlot) owns(corr int) bool {
	for _, c := range s.related {
		if c == corr {
			return true
		}
	}
	return false
}

// tracker owns the correlation counter and the set of outstanding fetches
// for one provider. All methods run on the engine goroutine.
type tracker struct {
	cfg     Config
	env     Environment
	errs    *errorQueue
	counter int
	slots   []*pendingSlot
}

func newTracker(cfg Config, errs *errorQueue) *tracker {
	return &tracker{cfg: cfg, errs: errs, counter: startingCorrelation}
}

func (t *tracker) setEnvironment(env Environment) {
	t.env = env
}

func (t *tracker) nextCorrelation() int {
	t.counter++
	return t.counter
}

// outstanding reports whether a fetch with the same dedup key is already in
// flight for the list.
func (t *tracker) outstanding(listID, key string) bool {
	return t.find(listID, key) != nil
}

func (t *tracker) find(listID, key string) *pendingSlot {
	for _, s := range t.slots {
		if s.listID == listID && s.key == key {
			return s
		}
	}
	return nil
}

// issue sends a fetch request and registers it for timeout tracking. The
// correlation token is filled in here. Duplicate requests, keyed by listID
// and key, are suppressed.
func (t *tracker) issue(listID, key string, req FetchRequestValue) bool {
	if t.outstanding(listID, key) {
		return false
	}
	req.ListID = listID
	corr := t.nextCorrelation()
	req.CorrelationToken = strconv.Itoa(corr)
	slot := &pendingSlot{
		listID:  listID,
		key:     key,
		related: []int{corr},
		request: req,
	}
	t.slots = append(t.slots, slot)
	t.send(slot)
	return true
}

func (t *tracker) send(slot *pendingSlot) {
	if t.env.Emit != nil {
		t.env.Emit(slot.request)
	}
	if t.env.Schedule != nil {
		slot.cancel = t.env.Schedule(t.cfg.FetchTimeout, func() {
			t.timedOut(slot)
		})
	}
}

// reissue sends the request again under a fresh correlation token, keeping
// the earlier tokens resolvable.
func (t *tracker) reissue(slot *pendingSlot) {
	slot.retries++
	corr := t.nextCorrelation()
	slot.related = append(slot.related, corr)
	slot.request.CorrelationToken = strconv.Itoa(corr)
	t.send(slot)
}

func (t *tracker) timedOut(slot *pendingSlot) {
	if !t.tracked(slot) {
		return
	}
	if slot.retries >= t.cfg.FetchRetries {
		t.remove(slot)
		t.errs.report(ErrorLoadTimeout, slot.listID,
			"no response after %d attempts", slot.retries+1)
		return
	}
	t.reissue(slot)
}

// retryAfterResponse is the empty-response path: the slot already has an
// answer, just a useless one, so its timer is disarmed and the fetch either
// goes out again or the slot is quietly dropped once the budget is spent.
// The caller reports the per-response error itself.
func (t *tracker) retryAfterResponse(slot *pendingSlot) {
	if !t.tracked(slot) {
		return
	}
	t.disarm(slot)
	if slot.retries >= t.cfg.FetchRetries {
		t.remove(slot)
		return
	}
	t.reissue(slot)
}

// resolve matches a correlation token from a response to its slot. The slot
// stays tracked; the caller decides between complete and retryAfterResponse.
// A nil slot means the response was rejected and the reason already queued.
func (t *tracker) resolve(listID string, corr int) *pendingSlot {
	var slot *pendingSlot
	for _, s := range t.slots {
		if s.owns(corr) {
			slot = s
			break
		}
	}
	if slot == nil {
		t.errs.report(ErrorInvalidListID, listID,
			"unknown correlation token %d", corr)
		return nil
	}
	if slot.listID != listID {
		t.errs.report(ErrorInconsistentListID, listID,
			"correlation token %d belongs to list %q", corr, slot.listID)
		return nil
	}
	return slot
}

// complete finishes a successfully answered fetch.
func (t *tracker) complete(slot *pendingSlot) {
	t.disarm(slot)
	t.remove(slot)
}

// abandonList drops every outstanding fetch for one list without reporting.
func (t *tracker) abandonList(listID string) {
	kept := t.slots[:0]
	for _, s := range t.slots {
		if s.listID == listID {
			t.disarm(s)
			continue
		}
		kept = append(kept, s)
	}
	t.slots = kept
}

// invalidateAll drops every outstanding fetch; used at document teardown so
// stale responses can no longer attach. The correlation counter is not
// reset.
func (t *tracker) invalidateAll() {
	for _, s := range t.slots {
		t.disarm(s)
	}
	t.slots = nil
}

func (t *tracker) disarm(slot *pendingSlot) {
	if slot.cancel != nil {
		slot.cancel()
		slot.cancel = nil
	}
}

func (t *tracker) tracked(slot *pendingSlot) bool {
	for _, s := range t.slots {
		if s == slot {
			return true
		}
	}
	return false
}

func (t *tracker) remove(slot *pendingSlot) {
	for i, s := range t.slots {
		if s == slot {
			t.slots = append(t.slots[:i], t.slots[i+1:]...)
			return
		}
	}
}

package datasource

import (
	"encoding/json"
	"fmt"
	"math"
)

// KindIndexList is the source type for index-addressed lists.
const KindIndexList = "indexList"

// IndexSource serves lists whose data is addressed by absolute index within
// declared bounds. Beyond lazy loading it accepts versioned directive
// updates that edit the loaded window in place; directives must arrive in
// version order, with a small reordering cache for ones that come early.
type IndexSource struct {
	source
	conns map[string]*indexConnection
}

func NewIndexSource(cfg Config) *IndexSource {
	return &IndexSource{
		source: newSource(KindIndexList, cfg),
		conns:  map[string]*indexConnection{},
	}
}

func (s *IndexSource) Bind(seed SeedPayload) (*List, error) {
	if err := s.checkSeed(seed); err != nil {
		return nil, err
	}
	if _, ok := s.conns[seed.ListID]; ok {
		return nil, s.reportDuplicate(seed.ListID)
	}
	start := 0
	if seed.StartIndex != nil {
		start = *seed.StartIndex
	}
	c := &indexConnection{
		src:          s,
		minInclusive: math.MinInt,
		maxExclusive: math.MaxInt,
		cached:       map[int]cachedUpdate{},
	}
	if seed.MinimumInclusiveIndex != nil {
		c.minInclusive = *seed.MinimumInclusiveIndex
	}
	if seed.MaximumExclusiveIndex != nil {
		c.maxExclusive = *seed.MaximumExclusiveIndex
	}
	if seed.ListVersion != nil {
		c.version = *seed.ListVersion
	}
	c.list = &List{
		listID: seed.ListID,
		arr:    NewLiveArray(seed.Items...),
		start:  start,
		ensure: c.ensure,
		trim:   c.trimTo,
	}
	s.conns[seed.ListID] = c
	return c.list, nil
}

func (s *IndexSource) Unbind(listID string) {
	c, ok := s.conns[listID]
	if !ok {
		return
	}
	c.dropCache()
	delete(s.conns, listID)
	s.track.abandonList(listID)
}

func (s *IndexSource) UnbindAll() {
	for _, c := range s.conns {
		c.dropCache()
	}
	s.conns = map[string]*indexConnection{}
	s.track.invalidateAll()
}

func (s *IndexSource) ProcessRawUpdate(data []byte) bool {
	var p IndexUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.errs.report(ErrorInternal, "", "malformed update payload: %v", err)
		return false
	}
	return s.ProcessUpdate(p)
}

// ProcessUpdate routes one decoded payload. Payloads with a list version are
// directives; anything else must be a correlated lazy load response.
func (s *IndexSource) ProcessUpdate(p IndexUpdatePayload) bool {
	if p.ListID == "" {
		s.errs.report(ErrorInternal, "", "update payload without listId")
		return false
	}
	if p.ListVersion != nil || len(p.Operations) > 0 {
		conn := s.conns[p.ListID]
		if conn == nil {
			s.errs.report(ErrorInvalidListID, p.ListID, "no list bound with this id")
			return false
		}
		return conn.applyDirective(p)
	}
	if !p.CorrelationToken.Present() {
		s.errs.report(ErrorInternal, p.ListID,
			"update payload with neither listVersion nor correlationToken")
		return false
	}
	slot := s.track.resolve(p.ListID, p.CorrelationToken.Value())
	if slot == nil {
		return false
	}
	return s.conns[p.ListID].applyLazy(slot, p)
}

type cachedUpdate struct {
	payload IndexUpdatePayload
	cancel  func()
}

type indexConnection struct {
	src  *IndexSource
	list *List

	// Addressable bounds; math.MinInt and math.MaxInt stand in for
	// unbounded sides.
	minInclusive int
	maxExclusive int

	version int
	cached  map[int]cachedUpdate
}

// ensure issues index fetches for any side running low on slack, forward
// first, clamped to the declared bounds.
func (c *indexConnection) ensure(visMin, visMax int) {
	chunk := c.src.cfg.CacheChunkSize
	if c.list.Len() == 0 {
		start := c.list.start
		if count := c.clampCount(start, chunk); count > 0 {
			c.fetch(Forward, start, count)
		}
		return
	}
	min, max := c.list.Range()
	if max-visMax < chunk && max+1 < c.maxExclusive {
		if count := c.clampCount(max+1, chunk); count > 0 {
			c.fetch(Forward, max+1, count)
		}
	}
	if visMin-min < chunk && min > c.minInclusive {
		from := min - chunk
		if from < c.minInclusive {
			from = c.minInclusive
		}
		c.fetch(Backward, from, min-from)
	}
}

func (c *indexConnection) clampCount(start, count int) int {
	if c.maxExclusive != math.MaxInt && start+count > c.maxExclusive {
		count = c.maxExclusive - start
	}
	if count < 0 {
		return 0
	}
	return count
}

func (c *indexConnection) fetch(dir Direction, start, count int) {
	c.src.track.issue(c.list.listID, dir.String(), FetchRequestValue{
		StartIndex: &start,
		Count:      &count,
	})
}

// applyLazy splices a correlated response onto the bordering end of the
// loaded range.
func (c *indexConnection) applyLazy(slot *pendingSlot, p IndexUpdatePayload) bool {
	src := c.src
	if p.Items == nil || p.StartIndex == nil {
		src.track.complete(slot)
		src.errs.report(ErrorInternal, p.ListID, "lazy response without startIndex or items")
		return false
	}
	if len(p.Items) == 0 {
		src.errs.report(ErrorMissingListItems, p.ListID, "update payload with empty items")
		src.track.retryAfterResponse(slot)
		return false
	}
	start := *p.StartIndex
	min, max := c.list.Range()
	switch {
	case c.list.Len() == 0 && start == c.list.start:
		c.list.appendItems(p.Items)
	case start == max+1:
		c.list.appendItems(p.Items)
	case start+len(p.Items) == min:
		c.list.prependItems(p.Items)
	default:
		src.track.complete(slot)
		src.errs.report(ErrorInternal, p.ListID,
			"items at index %d do not border loaded range [%d,%d]", start, min, max)
		return false
	}
	src.track.complete(slot)
	c.applyBounds(p)
	return true
}

// applyDirective applies or defers a versioned update. Versions replaying at
// or below the current one are duplicates; the immediate successor applies
// now; later ones wait in the cache for the gap to fill, up to the expiry
// timeout.
func (c *indexConnection) applyDirective(p IndexUpdatePayload) bool {
	src := c.src
	if p.ListVersion == nil {
		src.errs.report(ErrorMissingListVersion, p.ListID, "directive update without listVersion")
		return false
	}
	v := *p.ListVersion
	switch {
	case v <= c.version:
		src.errs.add(Error{
			Reason:      ErrorDuplicateListVersion,
			ListID:      p.ListID,
			ListVersion: &v,
			Message:     fmt.Sprintf("version %d already applied, current is %d", v, c.version),
		})
		return false
	case v == c.version+1:
		if !c.applyVersioned(p) {
			return false
		}
		c.drainCache()
		return true
	default:
		c.cacheUpdate(v, p)
		return true
	}
}

func (c *indexConnection) applyVersioned(p IndexUpdatePayload) bool {
	for i, op := range p.Operations {
		if err := c.applyOperation(op); err != nil {
			idx := i
			c.src.errs.add(Error{
				Reason:         ErrorInvalidOperation,
				ListID:         p.ListID,
				ListVersion:    p.ListVersion,
				OperationIndex: &idx,
				Message:        err.Error(),
			})
			return false
		}
	}
	c.version = *p.ListVersion
	c.applyBounds(p)
	return true
}

func (c *indexConnection) applyOperation(op Operation) error {
	min, max := c.list.Range()
	switch op.Type {
	case OpInsertItem:
		if op.Index < min || op.Index > max+1 {
			return fmt.Errorf("insert at %d outside loaded range [%d,%d]", op.Index, min, max)
		}
		c.list.insertAt(op.Index, op.Item)
		c.grewBy(1)
	case OpInsertMultipleItems:
		if op.Index < min || op.Index > max+1 {
			return fmt.Errorf("insert at %d outside loaded range [%d,%d]", op.Index, min, max)
		}
		c.list.insertAt(op.Index, op.Items...)
		c.grewBy(len(op.Items))
	case OpReplaceItem:
		if op.Index < min || op.Index > max {
			return fmt.Errorf("replace at %d outside loaded range [%d,%d]", op.Index, min, max)
		}
		c.list.replaceAt(op.Index, op.Item)
	case OpDeleteItem:
		if op.Index < min || op.Index > max {
			return fmt.Errorf("delete at %d outside loaded range [%d,%d]", op.Index, min, max)
		}
		c.list.removeAt(op.Index, 1)
		c.grewBy(-1)
	case OpDeleteMultipleItems:
		if op.Count <= 0 || op.Index < min || op.Index+op.Count-1 > max {
			return fmt.Errorf("delete of %d at %d outside loaded range [%d,%d]",
				op.Count, op.Index, min, max)
		}
		c.list.removeAt(op.Index, op.Count)
		c.grewBy(-op.Count)
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
	return nil
}

// grewBy keeps a bounded maximum in step with inserts and deletes.
func (c *indexConnection) grewBy(n int) {
	if c.maxExclusive != math.MaxInt {
		c.maxExclusive += n
	}
}

// applyBounds adopts bound changes riding on an update and sheds loaded
// items that fell outside.
func (c *indexConnection) applyBounds(p IndexUpdatePayload) {
	if p.MinimumInclusiveIndex != nil {
		c.minInclusive = *p.MinimumInclusiveIndex
	}
	if p.MaximumExclusiveIndex != nil {
		c.maxExclusive = *p.MaximumExclusiveIndex
	}
	if c.list.Len() == 0 {
		return
	}
	min, max := c.list.Range()
	if over := max + 1 - c.maxExclusive; over > 0 {
		if over > c.list.Len() {
			over = c.list.Len()
		}
		c.list.removeBack(over)
	}
	if c.list.Len() == 0 {
		return
	}
	min, _ = c.list.Range()
	if under := c.minInclusive - min; under > 0 {
		if under > c.list.Len() {
			under = c.list.Len()
		}
		c.list.removeFront(under)
	}
}

// cacheUpdate parks an out-of-order directive until its predecessor arrives
// or the expiry timeout passes.
func (c *indexConnection) cacheUpdate(v int, p IndexUpdatePayload) {
	if old, ok := c.cached[v]; ok && old.cancel != nil {
		old.cancel()
	}
	cu := cachedUpdate{payload: p}
	if sched := c.src.track.env.Schedule; sched != nil {
		cu.cancel = sched(c.src.cfg.CacheExpiryTimeout, func() {
			c.expireCached(v)
		})
	}
	c.cached[v] = cu
}

func (c *indexConnection) expireCached(v int) {
	if _, ok := c.cached[v]; !ok {
		return
	}
	delete(c.cached, v)
	want := c.version + 1
	c.src.errs.add(Error{
		Reason:      ErrorMissingListVersion,
		ListID:      c.list.listID,
		ListVersion: &want,
		Message:     fmt.Sprintf("update with version %d expired waiting for version %d", v, want),
	})
}

func (c *indexConnection) drainCache() {
	for {
		cu, ok := c.cached[c.version+1]
		if !ok {
			return
		}
		if cu.cancel != nil {
			cu.cancel()
		}
		delete(c.cached, c.version+1)
		if !c.applyVersioned(cu.payload) {
			return
		}
	}
}

func (c *indexConnection) dropCache() {
	for v, cu := range c.cached {
		if cu.cancel != nil {
			cu.cancel()
		}
		delete(c.cached, v)
	}
}

// trimTo sheds items outside the keep window. Index-addressed data can be
// refetched at any position, so the trim is exact rather than batch-grained.
func (c *indexConnection) trimTo(keepMin, keepMax int) {
	if c.list.Len() == 0 {
		return
	}
	min, max := c.list.Range()
	if over := max - keepMax; over > 0 {
		if over > c.list.Len() {
			over = c.list.Len()
		}
		c.list.removeBack(over)
	}
	if c.list.Len() == 0 {
		return
	}
	min, _ = c.list.Range()
	if under := keepMin - min; under > 0 {
		if under > c.list.Len() {
			under = c.list.Len()
		}
		c.list.removeFront(under)
	}
}

package datasource

import "encoding/json"

// KindTokenList is the source type for token-addressed lists.
const KindTokenList = "tokenList"

// TokenSource serves lists whose data is addressed by opaque page tokens.
// The seed payload brackets the initial items with a backward and a forward
// token; each response hands back the next token for the side it extends, or
// none when that side is exhausted.
type TokenSource struct {
	source
	conns map[string]*tokenConnection
}

func NewTokenSource(cfg Config) *TokenSource {
	return &TokenSource{
		source: newSource(KindTokenList, cfg),
		conns:  map[string]*tokenConnection{},
	}
}

func (s *TokenSource) Bind(seed SeedPayload) (*List, error) {
	if err := s.checkSeed(seed); err != nil {
		return nil, err
	}
	if _, ok := s.conns[seed.ListID]; ok {
		return nil, s.reportDuplicate(seed.ListID)
	}
	c := &tokenConnection{
		src:    s,
		cursor: NewCursor(seed.BackwardPageToken, seed.ForwardPageToken),
	}
	c.list = &List{
		listID: seed.ListID,
		arr:    NewLiveArray(seed.Items...),
		ensure: c.ensure,
		trim:   c.trimTo,
	}
	s.conns[seed.ListID] = c
	return c.list, nil
}

func (s *TokenSource) Unbind(listID string) {
	if _, ok := s.conns[listID]; !ok {
		return
	}
	delete(s.conns, listID)
	s.track.abandonList(listID)
}

func (s *TokenSource) UnbindAll() {
	s.conns = map[string]*tokenConnection{}
	s.track.invalidateAll()
}

func (s *TokenSource) ProcessRawUpdate(data []byte) bool {
	var p UpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.errs.report(ErrorInternal, "", "malformed update payload: %v", err)
		return false
	}
	return s.ProcessUpdate(p)
}

// ProcessUpdate routes one decoded payload. Responses carrying a correlation
// token resolve against the outstanding fetch that issued it; payloads
// without one are unsolicited pushes and attach by page token.
func (s *TokenSource) ProcessUpdate(p UpdatePayload) bool {
	if p.ListID == "" {
		s.errs.report(ErrorInternal, "", "update payload without listId")
		return false
	}
	if p.CorrelationToken.Present() {
		slot := s.track.resolve(p.ListID, p.CorrelationToken.Value())
		if slot == nil {
			return false
		}
		return s.conns[p.ListID].applyResponse(slot, p)
	}
	conn := s.conns[p.ListID]
	if conn == nil {
		s.errs.report(ErrorInvalidListID, p.ListID, "no list bound with this id")
		return false
	}
	return conn.applyPush(p)
}

// batchRecord remembers one applied fetch so trims can shed it wholesale and
// rewind the cursor to the token that fetched it.
type batchRecord struct {
	token string
	start int
	count int
}

type tokenConnection struct {
	src    *TokenSource
	list   *List
	cursor Cursor

	// Applied batches per side, in apply order; later entries sit further
	// from the seed. Seed items belong to no batch and are never trimmed.
	backward []batchRecord
	forward  []batchRecord
}

// ensure issues fetches for any side whose loaded slack around the visible
// window has dropped below the chunk size. Forward is always considered
// first. An empty list bootstraps with a single fetch, preferring forward.
func (c *tokenConnection) ensure(visMin, visMax int) {
	if c.list.Len() == 0 {
		switch {
		case !c.cursor.Exhausted(Forward):
			c.fetch(Forward)
		case !c.cursor.Exhausted(Backward):
			c.fetch(Backward)
		}
		return
	}
	min, max := c.list.Range()
	chunk := c.src.cfg.CacheChunkSize
	if !c.cursor.Exhausted(Forward) && max-visMax < chunk {
		c.fetch(Forward)
	}
	if !c.cursor.Exhausted(Backward) && visMin-min < chunk {
		c.fetch(Backward)
	}
}

func (c *tokenConnection) fetch(dir Direction) {
	c.src.track.issue(c.list.listID, dir.String(), FetchRequestValue{
		PageToken: c.cursor.Token(dir),
	})
}

// applyResponse handles a payload that resolved an outstanding fetch.
func (c *tokenConnection) applyResponse(slot *pendingSlot, p UpdatePayload) bool {
	src := c.src
	if p.Items == nil {
		src.track.complete(slot)
		src.errs.report(ErrorInternal, p.ListID, "update payload without items")
		return false
	}
	dir, ok := parseDirection(slot.key)
	if !ok {
		src.track.complete(slot)
		src.errs.report(ErrorInternal, p.ListID, "fetch slot with unusable key %q", slot.key)
		return false
	}
	if slot.request.PageToken != c.cursor.Token(dir) {
		// The cursor moved on while this fetch was in flight, so the
		// items no longer border the loaded range.
		src.track.complete(slot)
		src.errs.report(ErrorInternal, p.ListID,
			"response for page token %q no longer attaches", slot.request.PageToken)
		return false
	}
	if len(p.Items) == 0 {
		src.errs.report(ErrorMissingListItems, p.ListID, "update payload with empty items")
		src.track.retryAfterResponse(slot)
		return false
	}
	src.track.complete(slot)
	c.attach(dir, p)
	return true
}

// applyPush handles an unsolicited payload, attaching it by page token.
func (c *tokenConnection) applyPush(p UpdatePayload) bool {
	src := c.src
	if p.Items == nil {
		src.errs.report(ErrorInternal, p.ListID, "update payload without items")
		return false
	}
	dir, ok := c.cursor.Side(p.PageToken)
	if !ok {
		src.errs.report(ErrorInternal, p.ListID,
			"page token %q does not border the loaded range", p.PageToken)
		return false
	}
	if len(p.Items) == 0 {
		src.errs.report(ErrorMissingListItems, p.ListID, "update payload with empty items")
		return false
	}
	// The push consumed the same token an outstanding fetch may be
	// waiting on; that fetch is satisfied now.
	if slot := src.track.find(p.ListID, dir.String()); slot != nil &&
		slot.request.PageToken == p.PageToken {
		src.track.complete(slot)
	}
	c.attach(dir, p)
	return true
}

// attach splices items onto one end and advances that side's cursor to the
// response's next token.
func (c *tokenConnection) attach(dir Direction, p UpdatePayload) {
	next := ""
	if p.NextPageToken != nil {
		next = *p.NextPageToken
	}
	min, max := c.list.Range()
	rec := batchRecord{token: c.cursor.Token(dir), count: len(p.Items)}
	if dir == Forward {
		rec.start = max + 1
		c.list.appendItems(p.Items)
		c.forward = append(c.forward, rec)
	} else {
		rec.start = min - len(p.Items)
		c.list.prependItems(p.Items)
		c.backward = append(c.backward, rec)
	}
	c.cursor = c.cursor.Advance(dir, next)
}

// trimTo sheds whole batches that lie entirely outside the keep window and
// rewinds the cursor so a later scroll back refetches them. A side that was
// rewound has any outstanding fetch dropped, since its token no longer
// matches the cursor.
func (c *tokenConnection) trimTo(keepMin, keepMax int) {
	trimmedForward := false
	for len(c.forward) > 0 {
		rec := c.forward[len(c.forward)-1]
		if rec.start <= keepMax {
			break
		}
		c.forward = c.forward[:len(c.forward)-1]
		c.list.removeBack(rec.count)
		c.cursor = c.cursor.Advance(Forward, rec.token)
		trimmedForward = true
	}
	trimmedBackward := false
	for len(c.backward) > 0 {
		rec := c.backward[len(c.backward)-1]
		if rec.start+rec.count-1 >= keepMin {
			break
		}
		c.backward = c.backward[:len(c.backward)-1]
		c.list.removeFront(rec.count)
		c.cursor = c.cursor.Advance(Backward, rec.token)
		trimmedBackward = true
	}
	if trimmedForward {
		c.dropOutstanding(Forward)
	}
	if trimmedBackward {
		c.dropOutstanding(Backward)
	}
}

func (c *tokenConnection) dropOutstanding(dir Direction) {
	if slot := c.src.track.find(c.list.listID, dir.String()); slot != nil {
		c.src.track.complete(slot)
	}
}

func parseDirection(key string) (Direction, bool) {
	switch key {
	case "backward":
		return Backward, true
	case "forward":
		return Forward, true
	}
	return 0, false
}

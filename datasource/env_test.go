package datasource_test

import (
	"strconv"
	"time"

	"github.com/ayn2op/vellum/datasource"
)

// fakeHost drives a provider the way the engine would: it hands out an
// Environment backed by a hand-cranked clock and records every emitted fetch
// request.
type fakeHost struct {
	now      time.Duration
	seq      int
	timers   []*fakeTimer
	requests []datasource.FetchRequestValue
}

type fakeTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
}

func (h *fakeHost) env() datasource.Environment {
	return datasource.Environment{
		Schedule: func(delay time.Duration, f func()) func() {
			t := &fakeTimer{at: h.now + delay, seq: h.seq, f: f}
			h.seq++
			h.timers = append(h.timers, t)
			return func() { t.stopped = true }
		},
		Emit: func(v datasource.FetchRequestValue) {
			h.requests = append(h.requests, v)
		},
	}
}

// advance moves the clock forward, firing due timers in deadline order.
// Timers armed by a firing callback run too if they fall inside the window.
func (h *fakeHost) advance(d time.Duration) {
	target := h.now + d
	for {
		var next *fakeTimer
		for _, t := range h.timers {
			if t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		h.now = next.at
		next.stopped = true
		next.f()
	}
	h.now = target
}

// takeRequests returns the fetch requests emitted since the last call.
func (h *fakeHost) takeRequests() []datasource.FetchRequestValue {
	r := h.requests
	h.requests = nil
	return r
}

func newTokenSource(h *fakeHost, cfg datasource.Config) *datasource.TokenSource {
	s := datasource.NewTokenSource(cfg)
	s.SetEnvironment(h.env())
	return s
}

func newIndexSource(h *fakeHost, cfg datasource.Config) *datasource.IndexSource {
	s := datasource.NewIndexSource(cfg)
	s.SetEnvironment(h.env())
	return s
}

// seedItems builds n items labeled from start, mirroring how the tests
// label response items.
func seedItems(start, n int) []any {
	items := make([]any, n)
	for i := range items {
		items[i] = itemLabel(start + i)
	}
	return items
}

func itemLabel(n int) string {
	return "item" + strconv.Itoa(n)
}

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

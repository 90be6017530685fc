package datasource_test

import (
	"testing"

	"github.com/ayn2op/vellum/datasource"
	"github.com/google/go-cmp/cmp"
)

func TestRawUpdateCorrelationTokenTypes(t *testing.T) {
	// Hosts send correlation tokens back as either JSON strings or
	// numbers; both must resolve.
	tests := []struct {
		name    string
		payload string
	}{
		{"string token", `{"listId":"feed","correlationToken":"101","pageToken":"pageF1","nextPageToken":"pageF2","items":["item5"]}`},
		{"numeric token", `{"listId":"feed","correlationToken":101,"pageToken":"pageF1","nextPageToken":"pageF2","items":["item5"]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &fakeHost{}
			s := newTokenSource(h, datasource.DefaultConfig())
			list := bindTokenList(t, s, "feed", "", "pageF1", seedItems(0, 5))
			list.EnsureRange(0, 4)
			h.takeRequests()

			if ok := s.ProcessRawUpdate([]byte(tc.payload)); !ok {
				t.Fatalf("raw update rejected: %v", s.PendingErrors())
			}
			if got := list.Len(); got != 6 {
				t.Errorf("Len = %d, want 6", got)
			}
		})
	}
}

func TestRawUpdateRejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		reason  datasource.ErrorReason
	}{
		{"malformed json", `{"listId":`, datasource.ErrorInternal},
		{"missing listId", `{"pageToken":"pageF1","items":["a"]}`, datasource.ErrorInternal},
		{"missing items", `{"listId":"feed","correlationToken":"101","pageToken":"pageF1"}`, datasource.ErrorInternal},
		{"empty items", `{"listId":"feed","correlationToken":"101","pageToken":"pageF1","items":[]}`, datasource.ErrorMissingListItems},
		{"unbound list", `{"listId":"nope","pageToken":"x","items":["a"]}`, datasource.ErrorInvalidListID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &fakeHost{}
			s := newTokenSource(h, datasource.DefaultConfig())
			list := bindTokenList(t, s, "feed", "", "pageF1", seedItems(0, 5))
			list.EnsureRange(0, 4)
			h.takeRequests()

			if ok := s.ProcessRawUpdate([]byte(tc.payload)); ok {
				t.Fatal("bad payload reported as applied")
			}
			if diff := cmp.Diff([]datasource.ErrorReason{tc.reason}, drainReasons(s)); diff != "" {
				t.Errorf("errors, diff (-want +got):\n%s", diff)
			}
			if got := list.Len(); got != 5 {
				t.Errorf("list changed by rejected payload: Len = %d", got)
			}
		})
	}
}

func TestFetchRequestWireShape(t *testing.T) {
	h := &fakeHost{}
	s := newTokenSource(h, datasource.DefaultConfig())
	list := bindTokenList(t, s, "feed", "", "pageF1", seedItems(0, 5))
	list.EnsureRange(0, 4)

	reqs := h.takeRequests()
	if len(reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(reqs))
	}
	want := datasource.FetchRequestValue{
		ListID:           "feed",
		CorrelationToken: "101",
		PageToken:        "pageF1",
	}
	if diff := cmp.Diff(want, reqs[0]); diff != "" {
		t.Errorf("request, diff (-want +got):\n%s", diff)
	}
}

package datasource_test

import (
	"testing"
	"time"

	"github.com/ayn2op/vellum/datasource"
	"github.com/google/go-cmp/cmp"
)

func bindIndexList(t *testing.T, s *datasource.IndexSource, seed datasource.SeedPayload) *datasource.List {
	t.Helper()
	list, err := s.Bind(seed)
	if err != nil {
		t.Fatalf("Bind(%q): %v", seed.ListID, err)
	}
	return list
}

func TestIndexFetchBothSides(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:                "grid",
		Items:                 seedItems(10, 5),
		StartIndex:            intp(10),
		MinimumInclusiveIndex: intp(0),
		MaximumExclusiveIndex: intp(100),
	})

	list.EnsureRange(10, 14)
	reqs := h.takeRequests()
	want := []datasource.FetchRequestValue{
		{ListID: "grid", CorrelationToken: "101", StartIndex: intp(15), Count: intp(10)},
		{ListID: "grid", CorrelationToken: "102", StartIndex: intp(0), Count: intp(10)},
	}
	if diff := cmp.Diff(want, reqs); diff != "" {
		t.Fatalf("fetches, diff (-want +got):\n%s", diff)
	}

	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:           "grid",
		CorrelationToken: datasource.Correlation(101),
		StartIndex:       intp(15),
		Items:            seedItems(15, 10),
	})
	if !ok {
		t.Fatalf("forward response rejected: %v", s.PendingErrors())
	}
	ok = s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:           "grid",
		CorrelationToken: datasource.Correlation(102),
		StartIndex:       intp(0),
		Items:            seedItems(0, 10),
	})
	if !ok {
		t.Fatalf("backward response rejected: %v", s.PendingErrors())
	}
	if min, max := list.Range(); min != 0 || max != 24 {
		t.Errorf("Range = [%d,%d], want [0,24]", min, max)
	}
	if got, _ := list.ItemAt(0); got != itemLabel(0) {
		t.Errorf("ItemAt(0) = %v", got)
	}
}

func TestIndexFetchClampsToBounds(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:                "grid",
		Items:                 seedItems(0, 5),
		StartIndex:            intp(0),
		MinimumInclusiveIndex: intp(0),
		MaximumExclusiveIndex: intp(8),
	})

	list.EnsureRange(0, 4)
	reqs := h.takeRequests()
	// Only three items exist beyond the loaded range and nothing before
	// it, so one clamped forward fetch.
	want := []datasource.FetchRequestValue{
		{ListID: "grid", CorrelationToken: "101", StartIndex: intp(5), Count: intp(3)},
	}
	if diff := cmp.Diff(want, reqs); diff != "" {
		t.Errorf("fetches, diff (-want +got):\n%s", diff)
	}
}

func TestIndexLazyResponseMustBorder(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:     "grid",
		Items:      seedItems(0, 5),
		StartIndex: intp(0),
	})

	list.EnsureRange(0, 4)
	reqs := h.takeRequests()
	corr := reqCorr(t, reqs[0])

	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:           "grid",
		CorrelationToken: datasource.Correlation(corr),
		StartIndex:       intp(50),
		Items:            seedItems(50, 10),
	})
	if ok {
		t.Fatal("response with a gap accepted")
	}
	if diff := cmp.Diff([]datasource.ErrorReason{datasource.ErrorInternal}, drainReasons(s)); diff != "" {
		t.Errorf("errors, diff (-want +got):\n%s", diff)
	}
	if got := list.Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}
}

func TestIndexDirectiveOperations(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:     "grid",
		Items:      []any{"a", "b", "c", "d"},
		StartIndex: intp(0),
	})

	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(1),
		Operations: []datasource.Operation{
			{Type: datasource.OpInsertItem, Index: 1, Item: "x"},
			{Type: datasource.OpReplaceItem, Index: 0, Item: "A"},
			{Type: datasource.OpDeleteItem, Index: 4},
			{Type: datasource.OpInsertMultipleItems, Index: 4, Items: []any{"y", "z"}},
		},
	})
	if !ok {
		t.Fatalf("directive rejected: %v", s.PendingErrors())
	}
	want := []any{"A", "x", "b", "c", "y", "z"}
	if diff := cmp.Diff(want, list.Array().Values()); diff != "" {
		t.Errorf("items, diff (-want +got):\n%s", diff)
	}

	// Replaying the same version is a duplicate.
	ok = s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(1),
		Operations:  []datasource.Operation{{Type: datasource.OpDeleteItem, Index: 0}},
	})
	if ok {
		t.Fatal("replayed version accepted")
	}
	if diff := cmp.Diff([]datasource.ErrorReason{datasource.ErrorDuplicateListVersion}, drainReasons(s)); diff != "" {
		t.Errorf("errors, diff (-want +got):\n%s", diff)
	}
}

func TestIndexDirectiveOutOfOrder(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:     "grid",
		Items:      []any{"a", "b"},
		StartIndex: intp(0),
	})

	// Version 2 arrives first and waits for version 1.
	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(2),
		Operations:  []datasource.Operation{{Type: datasource.OpInsertItem, Index: 0, Item: "second"}},
	})
	if !ok {
		t.Fatalf("held update rejected: %v", s.PendingErrors())
	}
	if diff := cmp.Diff([]any{"a", "b"}, list.Array().Values()); diff != "" {
		t.Fatalf("held update applied early, diff (-want +got):\n%s", diff)
	}

	ok = s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(1),
		Operations:  []datasource.Operation{{Type: datasource.OpInsertItem, Index: 0, Item: "first"}},
	})
	if !ok {
		t.Fatalf("version 1 rejected: %v", s.PendingErrors())
	}
	want := []any{"second", "first", "a", "b"}
	if diff := cmp.Diff(want, list.Array().Values()); diff != "" {
		t.Errorf("items after drain, diff (-want +got):\n%s", diff)
	}
}

func TestIndexDirectiveCacheExpiry(t *testing.T) {
	cfg := datasource.DefaultConfig()
	cfg.CacheExpiryTimeout = 5 * time.Second
	h := &fakeHost{}
	s := newIndexSource(h, cfg)
	bindIndexList(t, s, datasource.SeedPayload{
		ListID:     "grid",
		Items:      []any{"a"},
		StartIndex: intp(0),
	})

	s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(3),
		Operations:  []datasource.Operation{{Type: datasource.OpDeleteItem, Index: 0}},
	})
	h.advance(5 * time.Second)

	errs := s.PendingErrors()
	if len(errs) != 1 || errs[0].Reason != datasource.ErrorMissingListVersion {
		t.Fatalf("errors = %v, want one MISSING_LIST_VERSION", errs)
	}
	if errs[0].ListVersion == nil || *errs[0].ListVersion != 1 {
		t.Errorf("reported missing version = %v, want 1", errs[0].ListVersion)
	}
}

func TestIndexInvalidOperationAbortsUpdate(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:     "grid",
		Items:      []any{"a", "b", "c"},
		StartIndex: intp(0),
	})

	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(1),
		Operations: []datasource.Operation{
			{Type: datasource.OpReplaceItem, Index: 0, Item: "A"},
			{Type: datasource.OpDeleteItem, Index: 40},
		},
	})
	if ok {
		t.Fatal("directive with an invalid operation accepted")
	}
	errs := s.PendingErrors()
	if len(errs) != 1 || errs[0].Reason != datasource.ErrorInvalidOperation {
		t.Fatalf("errors = %v, want one INVALID_OPERATION", errs)
	}
	if errs[0].OperationIndex == nil || *errs[0].OperationIndex != 1 {
		t.Errorf("operation index = %v, want 1", errs[0].OperationIndex)
	}

	// The version did not advance, so a corrected version 1 applies.
	ok = s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:      "grid",
		ListVersion: intp(1),
		Operations:  []datasource.Operation{{Type: datasource.OpDeleteItem, Index: 2}},
	})
	if !ok {
		t.Fatalf("corrected version 1 rejected: %v", s.PendingErrors())
	}
	if diff := cmp.Diff([]any{"A", "b"}, list.Array().Values()); diff != "" {
		t.Errorf("items, diff (-want +got):\n%s", diff)
	}
}

func TestIndexDirectiveWithoutVersion(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	bindIndexList(t, s, datasource.SeedPayload{
		ListID:     "grid",
		Items:      []any{"a"},
		StartIndex: intp(0),
	})

	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:     "grid",
		Operations: []datasource.Operation{{Type: datasource.OpDeleteItem, Index: 0}},
	})
	if ok {
		t.Fatal("unversioned directive accepted")
	}
	if diff := cmp.Diff([]datasource.ErrorReason{datasource.ErrorMissingListVersion}, drainReasons(s)); diff != "" {
		t.Errorf("errors, diff (-want +got):\n%s", diff)
	}
}

func TestIndexBoundsShrinkClampsLoadedItems(t *testing.T) {
	h := &fakeHost{}
	s := newIndexSource(h, datasource.DefaultConfig())
	list := bindIndexList(t, s, datasource.SeedPayload{
		ListID:                "grid",
		Items:                 seedItems(0, 10),
		StartIndex:            intp(0),
		MinimumInclusiveIndex: intp(0),
		MaximumExclusiveIndex: intp(100),
	})

	ok := s.ProcessUpdate(datasource.IndexUpdatePayload{
		ListID:                "grid",
		ListVersion:           intp(1),
		MaximumExclusiveIndex: intp(6),
	})
	if !ok {
		t.Fatalf("bounds update rejected: %v", s.PendingErrors())
	}
	if min, max := list.Range(); min != 0 || max != 5 {
		t.Errorf("Range = [%d,%d], want [0,5]", min, max)
	}
}

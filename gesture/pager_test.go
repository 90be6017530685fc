package gesture_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayn2op/vellum/gesture"
)

type fakePagerTarget struct {
	page, count int
	transitions []string
}

func (f *fakePagerTarget) CurrentPage() int { return f.page }
func (f *fakePagerTarget) PageCount() int   { return f.count }

func (f *fakePagerTarget) SetPageTransition(progress float64, forward bool) {
	word := "backward"
	if forward {
		word = "forward"
	}
	f.transitions = append(f.transitions, fmt.Sprintf("%.2f %s", progress, word))
}

func (f *fakePagerTarget) CommitPage(forward bool) {
	if forward {
		f.page++
	} else {
		f.page--
	}
}

func newPagerFling(target *fakePagerTarget) *gesture.PagerFling {
	return gesture.NewPagerFling(gesture.DefaultConfig(), gesture.PagerFlingConfig{
		Horizontal: true,
		Target:     target,
		Extent:     func() float64 { return 300 },
		OnPageChanged: func(page int) gesture.Command {
			return fmt.Sprintf("page %d", page)
		},
	})
}

func TestPagerFlingCommitByDistance(t *testing.T) {
	target := &fakePagerTarget{count: 3}
	g := newPagerFling(target)

	g.OnDown(down(400, 40, 0))
	_, v := g.OnMove(move(390, 40, 10))
	if v != gesture.Claim {
		t.Fatalf("claim verdict = %v, want claim", v)
	}
	g.OnMove(move(240, 40, 20))
	_, v = g.OnUp(up(240, 40, 300))
	if v != gesture.Pending {
		t.Fatalf("release verdict = %v, want pending turn", v)
	}

	g.OnTimeUpdate(at(400))
	cmd, v := g.OnTimeUpdate(at(500))
	if v != gesture.Decline {
		t.Fatalf("turn end verdict = %v, want decline", v)
	}
	if diff := cmp.Diff(gesture.Command("page 1"), cmd); diff != "" {
		t.Errorf("turn command mismatch (-want +got):\n%s", diff)
	}
	if target.page != 1 {
		t.Errorf("page = %d, want 1", target.page)
	}
	want := []string{"0.50 forward", "0.75 forward", "1.00 forward"}
	if diff := cmp.Diff(want, target.transitions); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestPagerFlingShortDragResets(t *testing.T) {
	target := &fakePagerTarget{count: 3}
	g := newPagerFling(target)

	g.OnDown(down(400, 40, 0))
	g.OnMove(move(390, 40, 10))
	g.OnMove(move(330, 40, 20))
	_, v := g.OnUp(up(330, 40, 300))
	if v != gesture.Pending {
		t.Fatalf("release verdict = %v, want pending settle", v)
	}

	cmd, v := g.OnTimeUpdate(at(600))
	if v != gesture.Decline {
		t.Fatalf("settle verdict = %v, want decline", v)
	}
	if cmd != nil {
		t.Errorf("settle command = %v, want none", cmd)
	}
	if target.page != 0 {
		t.Errorf("page = %d, want 0", target.page)
	}
	last := target.transitions[len(target.transitions)-1]
	if last != "0.00 forward" {
		t.Errorf("last transition = %q, want cleared", last)
	}
}

func TestPagerFlingCommitByVelocity(t *testing.T) {
	target := &fakePagerTarget{count: 3}
	g := newPagerFling(target)

	g.OnDown(down(400, 40, 0))
	g.OnMove(move(390, 40, 10))
	g.OnMove(move(330, 40, 60))
	// 60 over the last 100ms window is a 600/s fling, far past the
	// minimum.
	_, v := g.OnUp(up(330, 40, 110))
	if v != gesture.Pending {
		t.Fatalf("release verdict = %v, want pending turn", v)
	}
	g.OnTimeUpdate(at(400))
	if target.page != 1 {
		t.Errorf("page = %d, want 1", target.page)
	}
}

func TestPagerFlingCannotTurnPastEnds(t *testing.T) {
	target := &fakePagerTarget{count: 3}
	g := newPagerFling(target)

	// Dragging toward the previous page on the first page goes nowhere.
	g.OnDown(down(100, 40, 0))
	g.OnMove(move(110, 40, 10))
	g.OnMove(move(260, 40, 20))
	_, v := g.OnUp(up(260, 40, 300))
	if v != gesture.Decline {
		t.Fatalf("release verdict = %v, want decline", v)
	}
	if target.page != 0 {
		t.Errorf("page = %d, want 0", target.page)
	}
	for _, tr := range target.transitions {
		if tr != "0.00 backward" {
			t.Errorf("transition %q, want pinned to 0.00", tr)
		}
	}
}

func TestPagerFlingPerpendicularDeclines(t *testing.T) {
	target := &fakePagerTarget{count: 3}
	g := newPagerFling(target)
	g.OnDown(down(100, 40, 0))
	_, v := g.OnMove(move(100, 60, 10))
	if v != gesture.Decline {
		t.Errorf("verdict = %v, want decline", v)
	}
}

func TestPagerFlingCatchReverses(t *testing.T) {
	target := &fakePagerTarget{count: 3}
	g := newPagerFling(target)

	g.OnDown(down(400, 40, 0))
	g.OnMove(move(390, 40, 10))
	g.OnMove(move(240, 40, 20))
	g.OnUp(up(240, 40, 300))
	g.OnTimeUpdate(at(400))

	// Caught at 0.75; the continued drag pushes the turn back.
	g.OnDown(down(500, 40, 450))
	g.OnMove(move(665, 40, 470))
	_, v := g.OnUp(up(665, 40, 800))
	if v != gesture.Pending {
		t.Fatalf("release verdict = %v, want pending settle", v)
	}
	g.OnTimeUpdate(at(900))
	_, v = g.OnTimeUpdate(at(1000))
	if v != gesture.Decline {
		t.Fatalf("settle verdict = %v, want decline", v)
	}
	if target.page != 0 {
		t.Errorf("page = %d, want 0", target.page)
	}
	want := []string{
		"0.50 forward", "0.75 forward",
		"0.20 forward", "0.10 forward", "0.00 forward",
	}
	if diff := cmp.Diff(want, target.transitions); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
}

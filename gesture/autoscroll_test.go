package gesture_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ayn2op/vellum/gesture"
)

func TestAutoScroller(t *testing.T) {
	t.Run("interpolates and completes", func(t *testing.T) {
		var log []string
		var a gesture.AutoScroller
		a.Start(at(0), 0, 100, 200*time.Millisecond, gesture.Linear,
			func(pos float64) { log = append(log, fmt.Sprintf("apply %g", pos)) },
			func() { log = append(log, "done") })

		if !a.Active() {
			t.Fatal("not active after Start")
		}
		if got := a.Target(); got != 100 {
			t.Errorf("Target = %v, want 100", got)
		}
		if !a.Tick(at(50)) {
			t.Error("Tick(50ms) = false, want true")
		}
		if !a.Tick(at(100)) {
			t.Error("Tick(100ms) = false, want true")
		}
		if a.Tick(at(200)) {
			t.Error("Tick(200ms) = true, want false")
		}
		if a.Active() {
			t.Error("still active after completion")
		}

		want := []string{"apply 25", "apply 50", "apply 100", "done"}
		if diff := cmp.Diff(want, log); diff != "" {
			t.Errorf("animation trace mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero duration completes on first tick", func(t *testing.T) {
		var got []float64
		var a gesture.AutoScroller
		a.Start(at(0), 5, 9, 0, nil, func(pos float64) { got = append(got, pos) }, nil)
		if a.Tick(at(0)) {
			t.Error("Tick = true, want false")
		}
		if diff := cmp.Diff([]float64{9}, got); diff != "" {
			t.Errorf("positions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fling distance and duration from velocity", func(t *testing.T) {
		var last float64
		var a gesture.AutoScroller
		a.StartFling(at(0), 10, 600, 1500, nil, func(pos float64) { last = pos }, nil)

		// v²/2a = 120 past the start.
		if got := a.Target(); got != 130 {
			t.Errorf("Target = %v, want 130", got)
		}
		// Half the v/a duration, eased out: 10 + 120·0.75.
		a.Tick(at(200))
		if last != 100 {
			t.Errorf("position at half duration = %v, want 100", last)
		}
		if a.Tick(at(400)) {
			t.Error("still running at v/a")
		}
		if last != 130 {
			t.Errorf("final position = %v, want 130", last)
		}
	})

	t.Run("fling clamps the end position", func(t *testing.T) {
		var a gesture.AutoScroller
		clamp := func(pos float64) float64 {
			if pos < 50 {
				return 50
			}
			return pos
		}
		a.StartFling(at(0), 130, -600, 1500, clamp, func(float64) {}, nil)
		if got := a.Target(); got != 50 {
			t.Errorf("Target = %v, want 50", got)
		}
	})

	t.Run("stop abandons without applying", func(t *testing.T) {
		applies := 0
		var a gesture.AutoScroller
		a.Start(at(0), 0, 100, 200*time.Millisecond, nil, func(float64) { applies++ }, nil)
		a.Tick(at(50))
		a.Stop()
		if a.Tick(at(100)) {
			t.Error("Tick after Stop = true, want false")
		}
		if applies != 1 {
			t.Errorf("applies = %d, want 1", applies)
		}
	})
}

package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
)

func TestSchedulerAdvance(t *testing.T) {
	cases := []struct {
		name      string
		frames    []float64
		wantSteps int
		wantAcc   float64
	}{
		{"one_frame_at_60hz", []float64{1.0 / 60}, 2, 0},
		{"two_short_frames", []float64{1.0 / 240, 1.0 / 240}, 1, 0},
		{"partial_tick_kept", []float64{2.5 / 120}, 2, 0.5 / 120},
		{"lag_spike_resets", []float64{1}, 2, 0},
		{"zero_delta", []float64{0}, 0, 0},
		{"negative_delta", []float64{-1}, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sim := New(testConfig(400, 300))
			steps := 0
			for _, dt := range c.frames {
				steps += sim.Frame(dt)
			}
			if steps != c.wantSteps {
				t.Fatalf("steps = %d, want %d", steps, c.wantSteps)
			}
			if got := sim.Scheduler().Accumulator(); math.Abs(got-c.wantAcc) > 1e-9 {
				t.Fatalf("accumulator = %v, want %v", got, c.wantAcc)
			}
			if sim.Scheduler().State() != Idle {
				t.Fatalf("scheduler should end the frame idle")
			}
			if sim.Ticks() != uint64(steps) {
				t.Fatalf("ticks = %d, want %d", sim.Ticks(), steps)
			}
		})
	}
}

func TestSchedulerBoundsWorkPerFrame(t *testing.T) {
	sim := New(testConfig(400, 300))
	for i := 0; i < 10; i++ {
		if n := sim.Frame(0.1); n > common.MaxStepsPerFrame {
			t.Fatalf("frame ran %d ticks", n)
		}
		if sim.Scheduler().Accumulator() > common.AccumulatorResetTicks*common.FixedDT {
			t.Fatalf("accumulator allowed to grow to %v", sim.Scheduler().Accumulator())
		}
	}
}

func TestWarmupDiscardsEvents(t *testing.T) {
	cfg := testConfig(400, 300)
	sim := New(cfg)
	events := 0
	sim.SetSink(EventSinkFunc(func(CollisionEvent) { events++ }))

	floor := sim.Boundary().Bottom
	b := NewBody(200, floor-40, 20)
	b.Vel = cp.Vector{Y: 1200}
	sim.Add(b)

	sim.Warmup(30)
	if events != 0 {
		t.Fatalf("warmup delivered %d events", events)
	}
	if sim.Ticks() != 60 {
		t.Fatalf("30 warmup frames should run 60 ticks, ran %d", sim.Ticks())
	}
	if sim.Scheduler().Accumulator() != 0 {
		t.Fatalf("warmup should leave the accumulator empty")
	}

	b2 := NewBody(100, floor-40, 20)
	b2.Vel = cp.Vector{Y: 1200}
	sim.Add(b2)
	sim.StepFixed(10)
	if events == 0 {
		t.Fatalf("events should flow again after warmup")
	}
}

package physics

import (
	"testing"

	"github.com/milk9111/bouncyballs/common"
)

func TestWallCornersStayRigid(t *testing.T) {
	cfg := DefaultWallConfig()
	cases := []struct {
		name      string
		pos       float64
		intensity float64
	}{
		{"at_start", 0, 5000},
		{"near_start", 0.02, 1e6},
		{"middle", 0.5, 1e6},
		{"at_end", 1, 5000},
		{"outside", 1.7, 800},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWallEdge(cfg.Segments)
			last := w.Len() - 1
			for step := 0; step < 240; step++ {
				if step%20 == 0 {
					w.Impact(&cfg, c.pos, c.intensity)
					w.AddPressure(&cfg, c.pos, 1)
				}
				w.Step(&cfg, common.FixedDT)
				if w.Deformation[0] != 0 || w.Deformation[last] != 0 {
					t.Fatalf("step %d: corners moved to %v, %v", step, w.Deformation[0], w.Deformation[last])
				}
				if w.Velocity[0] != 0 || w.Velocity[last] != 0 {
					t.Fatalf("step %d: corner velocity %v, %v", step, w.Velocity[0], w.Velocity[last])
				}
				for i, d := range w.Deformation {
					if d < 0 || d > cfg.MaxDeform {
						t.Fatalf("segment %d deformation %v out of [0, %v]", i, d, cfg.MaxDeform)
					}
				}
			}
		})
	}
}

func TestWallImpactThenRecovery(t *testing.T) {
	cfg := DefaultWallConfig()
	w := NewWallEdge(cfg.Segments)
	w.Impact(&cfg, 0.5, 500)

	peak := 0.0
	for i := 0; i < 30; i++ {
		w.Step(&cfg, common.FixedDT)
		peak = max(peak, w.Sample(0.5))
	}
	if peak <= cfg.VisibleThreshold {
		t.Fatalf("impact should be visible, peak %v", peak)
	}

	for i := 0; i < 3*120; i++ {
		w.Step(&cfg, common.FixedDT)
	}
	for i := range w.Deformation {
		if w.Deformation[i] != 0 || w.Velocity[i] != 0 {
			t.Fatalf("segment %d did not settle: x=%v v=%v", i, w.Deformation[i], w.Velocity[i])
		}
	}
	if w.HasDeformation(cfg.VisibleThreshold) {
		t.Fatalf("settled edge reports deformation")
	}
}

func TestWallImpactFalloff(t *testing.T) {
	cfg := DefaultWallConfig()
	w := NewWallEdge(cfg.Segments)
	w.Impact(&cfg, 0.5, 100)
	mid := w.Len() / 2
	if w.Velocity[mid] <= w.Velocity[1] {
		t.Fatalf("impulse should peak at the impact point: mid %v edge %v", w.Velocity[mid], w.Velocity[1])
	}
	// segment 1 is one step from the corner and gets half weight at most
	w2 := NewWallEdge(cfg.Segments)
	w2.Impact(&cfg, 0, 100)
	if w2.Velocity[1] > 50+1e-9 {
		t.Fatalf("corner attenuation missing, got %v", w2.Velocity[1])
	}
}

func TestWallPressureWindow(t *testing.T) {
	cfg := DefaultWallConfig()
	w := NewWallEdge(cfg.Segments)
	for i := 0; i < 10; i++ {
		w.AddPressure(&cfg, 0.5, 0.6)
	}
	for i, p := range w.Pressure {
		if p < 0 || p > 1 {
			t.Fatalf("pressure[%d] = %v out of [0,1]", i, p)
		}
	}
	if w.Pressure[0] != 0 || w.Pressure[w.Len()-1] != 0 {
		t.Fatalf("corners must not take pressure")
	}
	if w.Pressure[1] != 0 {
		t.Fatalf("pressure should stay in a small window, got %v at 1", w.Pressure[1])
	}
	w.ClearPressure()
	for i, p := range w.Pressure {
		if p != 0 {
			t.Fatalf("pressure[%d] = %v after clear", i, p)
		}
	}
}

func TestWallSampleSmoothstep(t *testing.T) {
	w := NewWallEdge(5)
	w.Deformation[2] = 8
	cases := []struct {
		name string
		pos  float64
		want float64
	}{
		{"on_segment", 0.5, 8},
		{"corner", 0, 0},
		{"halfway", 0.375, 4},
		{"quarter", 0.3125, 8 * common.Smoothstep(0.25)},
		{"clamped", 2, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.Sample(c.pos); got != c.want {
				t.Fatalf("Sample(%v) = %v, want %v", c.pos, got, c.want)
			}
		})
	}
}

func TestWallFieldSubsteps(t *testing.T) {
	cfg := DefaultWallConfig()
	f := NewWallField(cfg)
	f.Impact(EdgeBottom, 0.5, 400)
	f.Step(10)
	if f.Edge(EdgeBottom).Max() > cfg.MaxDeform {
		t.Fatalf("long frame destabilized the field")
	}
	if f.Edge(EdgeTop).Max() != 0 {
		t.Fatalf("edges must be independent")
	}

	var nilField *WallField
	nilField.Impact(EdgeTop, 0.5, 1)
	nilField.Step(1)
	if nilField.HasDeformation() || nilField.Sample(EdgeTop, 0.5) != 0 {
		t.Fatalf("nil field should be inert")
	}
}

func TestWallFieldConfigureKeepsState(t *testing.T) {
	cfg := DefaultWallConfig()
	f := NewWallField(cfg)
	f.Impact(EdgeLeft, 0.5, 400)
	f.Step(common.FixedDT)
	before := f.Edge(EdgeLeft).Max()

	cfg.Stiffness *= 2
	f.Configure(cfg)
	if f.Edge(EdgeLeft).Max() != before {
		t.Fatalf("retuning should keep deformation")
	}
	cfg.Segments = 20
	f.Configure(cfg)
	if f.Edge(EdgeLeft).Len() != 20 || f.Edge(EdgeLeft).Max() != 0 {
		t.Fatalf("segment change should rebuild edges")
	}
}

package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func overlap(cfg *Config, a, b *Body) float64 {
	return ContactDistance(cfg, a.Radius, b.Radius) - b.Pos.Sub(a.Pos).Length()
}

func kinetic(cfg *Config, bodies []Body) float64 {
	e := 0.0
	for i := range bodies {
		e += 0.5 * bodies[i].EffectiveMass(cfg) * bodies[i].Vel.LengthSq()
	}
	return e
}

func TestResolverNonPenetration(t *testing.T) {
	cases := []struct {
		name   string
		dx, dy float64
		ra, rb float64
		ma, mb float64
	}{
		{"shallow", 35, 0, 20, 20, 1, 1},
		{"deep", 10, 5, 20, 20, 1, 1},
		{"coincident", 0, 0, 15, 15, 1, 1},
		{"heavy_light", 20, 12, 25, 10, 4, 0.5},
		{"diagonal", 18, 18, 20, 20, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testConfig(800, 600)
			a := NewBody(300, 300, c.ra)
			a.Mass = c.ma
			b := NewBody(300+c.dx, 300+c.dy, c.rb)
			b.Mass = c.mb
			bodies := []Body{a, b}

			pairs := NewSpatialHash().FindPairs(&cfg, bodies)
			if len(pairs) != 1 {
				t.Fatalf("expected one candidate pair, got %d", len(pairs))
			}
			NewStrictResolver(&cfg).Resolve(&cfg, bodies, pairs, nil)

			if got := overlap(&cfg, &bodies[0], &bodies[1]); got > cfg.Slop+1e-3 {
				t.Fatalf("remaining overlap %v exceeds slop %v", got, cfg.Slop)
			}
		})
	}
}

func TestSoftResolverCapsCorrection(t *testing.T) {
	cfg := testConfig(800, 600)
	bodies := []Body{NewBody(300, 300, 20), NewBody(305, 300, 20)}
	before := bodies[0].Pos
	pairs := NewSpatialHash().FindPairs(&cfg, bodies)
	r := NewSoftResolver(&cfg)
	if !r.Soft() || r.Events {
		t.Fatalf("soft resolver should cap correction and stay silent")
	}
	r.Resolve(&cfg, bodies, pairs, nil)
	moved := bodies[0].Pos.Sub(before).Length()
	if limit := cfg.SoftMaxCorrection * float64(cfg.SoftIterations); moved > limit+1e-9 {
		t.Fatalf("soft resolver moved body %v, cap %v", moved, limit)
	}
	if moved == 0 {
		t.Fatalf("soft resolver should still separate bodies")
	}
}

func TestResolverEnergyBound(t *testing.T) {
	for _, e := range []float64{0, 0.5, 0.78, 1} {
		t.Run("restitution", func(t *testing.T) {
			cfg := testConfig(800, 600)
			cfg.Gravity = 0
			cfg.Restitution = e
			sim := New(cfg)
			a := NewBody(300, 300, 20)
			a.Vel = cp.Vector{X: 200}
			b := NewBody(500, 305, 20)
			b.Vel = cp.Vector{X: -200}
			sim.Add(a)
			sim.Add(b)

			prev := kinetic(&cfg, sim.Bodies())
			for tick := 0; tick < 90; tick++ {
				sim.StepFixed(1)
				cur := kinetic(&cfg, sim.Bodies())
				if cur > prev*(1+1e-12)+1e-9 {
					t.Fatalf("e=%v tick %d: kinetic energy rose from %v to %v", e, tick, prev, cur)
				}
				prev = cur
			}
		})
	}
}

func TestResolverWakesOnHardHit(t *testing.T) {
	cases := []struct {
		name      string
		speed     float64
		wantAwake bool
	}{
		{"gentle_push", 30, false},
		{"hard_hit", 500, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testConfig(800, 600)
			cfg.Gravity = 0
			a := NewBody(300, 300, 20)
			a.Vel = cp.Vector{X: c.speed}
			b := NewBody(339, 300, 20)
			b.Sleeping = true
			bodies := []Body{a, b}

			pairs := NewSpatialHash().FindPairs(&cfg, bodies)
			NewStrictResolver(&cfg).Resolve(&cfg, bodies, pairs, nil)

			if bodies[1].Sleeping == c.wantAwake {
				t.Fatalf("sleeping = %v, want awake %v", bodies[1].Sleeping, c.wantAwake)
			}
			if !c.wantAwake {
				if bodies[1].Vel != (cp.Vector{}) || bodies[1].Pos.X != 339 {
					t.Fatalf("sleeping body should act immovable, pos %v vel %v", bodies[1].Pos, bodies[1].Vel)
				}
				if bodies[0].Vel.X > 0 {
					t.Fatalf("mover should stop against the sleeper, vel %v", bodies[0].Vel)
				}
			}
		})
	}
}

func TestResolverSupportFlag(t *testing.T) {
	cfg := testConfig(800, 600)
	top := NewBody(300, 261, 20)
	bottom := NewBody(300, 300, 20)
	bodies := []Body{bottom, top}
	pairs := NewSpatialHash().FindPairs(&cfg, bodies)
	NewStrictResolver(&cfg).Resolve(&cfg, bodies, pairs, nil)
	if !bodies[1].Supported || bodies[0].Supported {
		t.Fatalf("expected only the upper body to be supported, top %v bottom %v", bodies[1].Supported, bodies[0].Supported)
	}

	cfg.Gravity = 0
	bodies = []Body{NewBody(300, 300, 20), NewBody(300, 261, 20)}
	NewStrictResolver(&cfg).Resolve(&cfg, bodies, NewSpatialHash().FindPairs(&cfg, bodies), nil)
	if bodies[0].Supported || bodies[1].Supported {
		t.Fatalf("support is only detected when gravity dominates")
	}
}

func TestResolverEventsDebounced(t *testing.T) {
	cfg := testConfig(800, 600)
	cfg.Gravity = 0
	a := NewBody(300, 300, 20)
	a.ID = 1
	a.Vel = cp.Vector{X: 800}
	b := NewBody(338, 300, 20)
	b.ID = 2
	b.Vel = cp.Vector{X: -800}
	bodies := []Body{a, b}

	var q EventQueue
	pairs := NewSpatialHash().FindPairs(&cfg, bodies)
	NewStrictResolver(&cfg).Resolve(&cfg, bodies, pairs, &q)
	if q.Len() != 1 {
		t.Fatalf("expected exactly one event per contact per tick, got %d", q.Len())
	}
	var got CollisionEvent
	q.Flush(EventSinkFunc(func(ev CollisionEvent) { got = ev }))
	if got.Key != PairKey(1, 2) || got.Kind != ContactBody {
		t.Fatalf("unexpected event %+v", got)
	}
	if got.Strength <= 0 || got.Strength > 1 || got.X < 0 || got.X > 1 {
		t.Fatalf("event values out of range: %+v", got)
	}
	if math.Abs(got.Radius-20) > 1e-9 {
		t.Fatalf("event radius = %v", got.Radius)
	}

	bodies = []Body{a, b}
	NewSoftResolver(&cfg).Resolve(&cfg, bodies, NewSpatialHash().FindPairs(&cfg, bodies), &q)
	if q.Len() != 0 {
		t.Fatalf("soft resolver must not emit events")
	}
}

func TestResolverSpinAppliedOncePerTick(t *testing.T) {
	cfg := testConfig(800, 600)
	cfg.Gravity = 0

	spin := func(iterations int) (float64, float64) {
		a := NewBody(300, 300, 20)
		a.Vel = cp.Vector{X: 200, Y: 100}
		b := NewBody(339, 300, 20)
		bodies := []Body{a, b}
		r := &Resolver{Iterations: iterations}
		r.Resolve(&cfg, bodies, NewSpatialHash().FindPairs(&cfg, bodies), nil)
		return bodies[0].Omega, bodies[1].Omega
	}

	a1, b1 := spin(1)
	if a1 == 0 || b1 == 0 {
		t.Fatalf("sliding contact should transfer spin, got %v %v", a1, b1)
	}
	a10, b10 := spin(10)
	if a10 != a1 || b10 != b1 {
		t.Fatalf("spin grew with iterations: 1 pass %v/%v, 10 passes %v/%v", a1, b1, a10, b10)
	}

	// bounded by the clamped friction impulse: |dv_t| <= Friction*|dv_n|
	limit := cfg.SpinTransfer * cfg.Friction * (1 + cfg.Restitution) * 200 / 20
	if math.Abs(a1) > limit+1e-9 {
		t.Fatalf("spin %v exceeds friction bound %v", a1, limit)
	}
}

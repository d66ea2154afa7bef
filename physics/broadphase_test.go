package physics

import (
	"math/rand"
	"testing"
)

func bruteForcePairs(cfg *Config, bodies []Body) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			rSum := ContactDistance(cfg, bodies[i].Radius, bodies[j].Radius)
			if bodies[j].Pos.Sub(bodies[i].Pos).LengthSq() < rSum*rSum {
				out[[2]int{i, j}] = true
			}
		}
	}
	return out
}

func TestSpatialHashMatchesBruteForce(t *testing.T) {
	cases := []struct {
		name    string
		count   int
		spacing float64
		seed    int64
	}{
		{"sparse", 40, 0, 1},
		{"dense", 300, 0, 2},
		{"spacing_ratio", 150, 0.4, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testConfig(640, 480)
			cfg.SpacingRatio = c.spacing
			rng := rand.New(rand.NewSource(c.seed))
			bodies := make([]Body, 0, c.count)
			for i := 0; i < c.count; i++ {
				// some bodies start above the canvas, as pit spawns do
				x := rng.Float64() * cfg.Width
				y := rng.Float64()*(cfg.Height+100) - 100
				bodies = append(bodies, NewBody(x, y, 6+rng.Float64()*14))
			}

			want := bruteForcePairs(&cfg, bodies)
			got := NewSpatialHash().FindPairs(&cfg, bodies)
			if len(got) != len(want) {
				t.Fatalf("expected %d pairs, got %d", len(want), len(got))
			}
			seen := make(map[[2]int]bool)
			for k, p := range got {
				key := [2]int{p.A, p.B}
				if p.A >= p.B {
					t.Fatalf("pair %v not ordered", p)
				}
				if seen[key] {
					t.Fatalf("duplicate pair %v", p)
				}
				seen[key] = true
				if !want[key] {
					t.Fatalf("unexpected pair %v", p)
				}
				if k > 0 && got[k-1].Depth < p.Depth {
					t.Fatalf("pairs not sorted deepest first at %d", k)
				}
			}
		})
	}
}

func TestSpatialHashReusesAcrossTicks(t *testing.T) {
	cfg := testConfig(640, 480)
	h := NewSpatialHash()
	bodies := []Body{NewBody(100, 100, 10), NewBody(115, 100, 10)}
	if n := len(h.FindPairs(&cfg, bodies)); n != 1 {
		t.Fatalf("expected 1 pair, got %d", n)
	}
	bodies[1].Pos.X = 400
	if n := len(h.FindPairs(&cfg, bodies)); n != 0 {
		t.Fatalf("stale bucket produced %d pairs", n)
	}
}

func TestSpatialHashAllAsleep(t *testing.T) {
	cfg := testConfig(640, 480)
	bodies := []Body{NewBody(100, 100, 10), NewBody(105, 100, 10)}
	bodies[0].Sleeping = true
	bodies[1].Sleeping = true
	if n := len(NewSpatialHash().FindPairs(&cfg, bodies)); n != 0 {
		t.Fatalf("all-asleep scene should skip the broad phase, got %d pairs", n)
	}
	bodies[1].Sleeping = false
	if n := len(NewSpatialHash().FindPairs(&cfg, bodies)); n != 1 {
		t.Fatalf("expected 1 pair once a body wakes, got %d", n)
	}
}

func TestPairOrderDeterministic(t *testing.T) {
	cfg := testConfig(640, 480)
	// equal depths are ordered by index
	bodies := []Body{NewBody(100, 100, 10), NewBody(115, 100, 10), NewBody(130, 100, 10)}
	got := NewSpatialHash().FindPairs(&cfg, bodies)
	if len(got) != 2 || got[0].A != 0 || got[1].A != 1 {
		t.Fatalf("unexpected order %v", got)
	}
}

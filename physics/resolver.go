package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
)

// Resolver is the iterative impulse solver for body-body contacts. The strict
// variant runs SolverIterations and emits collision events; the soft variant
// runs fewer iterations, caps per-contact positional correction and stays
// silent, for motion modes where popping would be visible.
type Resolver struct {
	Iterations    int
	MaxCorrection float64
	Events        bool
}

// NewStrictResolver builds the general-purpose solver.
func NewStrictResolver(cfg *Config) *Resolver {
	return &Resolver{Iterations: cfg.SolverIterations, Events: true}
}

// NewSoftResolver builds the clamped solver.
func NewSoftResolver(cfg *Config) *Resolver {
	return &Resolver{Iterations: cfg.SoftIterations, MaxCorrection: cfg.SoftMaxCorrection}
}

// NewResolver picks the variant cfg asks for.
func NewResolver(cfg *Config) *Resolver {
	if cfg.SoftSolver {
		return NewSoftResolver(cfg)
	}
	return NewStrictResolver(cfg)
}

// Soft reports whether positional correction is capped.
func (r *Resolver) Soft() bool {
	return r != nil && r.MaxCorrection > 0
}

// Resolve runs the solver over pairs, which must be sorted deepest first.
// Events go to q (which may be nil).
func (r *Resolver) Resolve(cfg *Config, bodies []Body, pairs []Pair, q *EventQueue) {
	if r == nil || len(pairs) == 0 {
		return
	}
	iterations := r.Iterations
	if iterations <= 0 {
		iterations = 1
	}
	for iter := 0; iter < iterations; iter++ {
		for _, p := range pairs {
			r.solvePair(cfg, &bodies[p.A], &bodies[p.B], iter == 0, q)
		}
	}
}

func (r *Resolver) solvePair(cfg *Config, a, b *Body, first bool, q *EventQueue) {
	rSum := ContactDistance(cfg, a.Radius, b.Radius)
	d := b.Pos.Sub(a.Pos)
	distSq := d.LengthSq()
	if distSq >= rSum*rSum {
		return
	}

	dist := math.Sqrt(distSq)
	var n cp.Vector
	if dist < common.Epsilon {
		// coincident centers: pick a fixed axis so replays stay identical
		n = cp.Vector{X: 1, Y: 0}
		dist = 0
	} else {
		n = d.Mult(1 / dist)
	}
	overlap := rSum - dist

	realInvA := a.InvMass(cfg)
	realInvB := b.InvMass(cfg)

	if a.Sleeping && b.Sleeping {
		r.correct(cfg, a, b, n, overlap, realInvA, realInvB)
		return
	}

	rv := b.Vel.Sub(a.Vel)
	vn := rv.Dot(n)
	e := cfg.Restitution
	if -vn < cfg.RestingSpeed {
		e = 0
	}

	// A sleeping body acts as immovable unless this contact would push it
	// harder than the wake threshold.
	if vn < 0 && (a.Sleeping || b.Sleeping) {
		j := -(1 + e) * vn / (realInvA + realInvB)
		if a.Sleeping && j*realInvA > cfg.WakeVelocity {
			a.Wake()
		}
		if b.Sleeping && j*realInvB > cfg.WakeVelocity {
			b.Wake()
		}
	}
	invA, invB := realInvA, realInvB
	if a.Sleeping {
		invA = 0
	}
	if b.Sleeping {
		invB = 0
	}

	r.correct(cfg, a, b, n, overlap, invA, invB)

	if cfg.GravityDominated() && math.Abs(n.X) < cfg.SupportThreshold {
		// n points from a to b; with y down, n.Y > 0 puts a on top
		if n.Y > 0 {
			a.Supported = true
		} else {
			b.Supported = true
		}
	}

	if vn >= 0 {
		return
	}
	invSum := invA + invB
	if invSum <= 0 {
		return
	}

	j := -(1 + e) * vn / invSum
	a.Vel = a.Vel.Sub(n.Mult(j * invA))
	b.Vel = b.Vel.Add(n.Mult(j * invB))

	t := n.Perp()
	vt := rv.Dot(t)
	jt := -vt / invSum
	maxFriction := cfg.Friction * j
	jt = cp.Clamp(jt, -maxFriction, maxFriction)
	a.Vel = a.Vel.Sub(t.Mult(jt * invA))
	b.Vel = b.Vel.Add(t.Mult(jt * invB))

	// spin follows the friction actually applied, once per contact per tick,
	// so resting piles cannot pump it up across iterations
	if first {
		if !a.Sleeping {
			a.Omega -= cfg.SpinTransfer * jt * invA / math.Max(a.Radius, common.Epsilon)
		}
		if !b.Sleeping {
			b.Omega -= cfg.SpinTransfer * jt * invB / math.Max(b.Radius, common.Epsilon)
		}
	}

	strength := cp.Clamp01(-vn / cfg.MaxImpactSpeed)
	a.addSquash(cfg, strength, n)
	b.addSquash(cfg, strength, n.Neg())

	if first && r.Events && q != nil && strength >= cfg.EventThreshold {
		contact := a.Pos.Add(n.Mult(a.Radius))
		q.Push(CollisionEvent{
			Kind:     ContactBody,
			Radius:   math.Min(a.Radius, b.Radius),
			Strength: strength,
			X:        cp.Clamp01(contact.X / cfg.Width),
			Key:      PairKey(a.ID, b.ID),
		})
	}
}

// correct pushes the pair apart along n by CorrectionPercent of the overlap
// beyond Slop, split by inverse mass.
func (r *Resolver) correct(cfg *Config, a, b *Body, n cp.Vector, overlap, invA, invB float64) {
	invSum := invA + invB
	if invSum <= 0 {
		return
	}
	corr := cfg.CorrectionPercent * math.Max(overlap-cfg.Slop, 0)
	if corr == 0 {
		return
	}
	if r.MaxCorrection > 0 && corr > r.MaxCorrection {
		corr = r.MaxCorrection
	}
	a.Pos = a.Pos.Sub(n.Mult(corr * invA / invSum))
	b.Pos = b.Pos.Add(n.Mult(corr * invB / invSum))
}

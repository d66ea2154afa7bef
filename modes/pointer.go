package modes

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

const pointerPush = 2400

// pointerMode is a settled pile that the pointer shoves around.
type pointerMode struct {
	opts Options
}

func (m *pointerMode) Kind() Kind { return Pointer }

func (m *pointerMode) Configure(cfg *physics.Config) {
	cfg.OpenTop = false
	cfg.SoftSolver = false
	if cfg.Gravity <= 0 {
		cfg.Gravity = physics.DefaultConfig().Gravity
	}
}

func (m *pointerMode) Spawn(sim *physics.Simulation, rng *rand.Rand) {
	bd := sim.Boundary()
	mid := (bd.Top + bd.Bottom) / 2
	scatter(sim, rng, m.opts, bd.Left, mid, bd.Right, bd.Bottom, nil)
}

func (m *pointerMode) Apply(sim *physics.Simulation, b *physics.Body, dt float64) {
	p := sim.Pointer()
	if !p.Active {
		return
	}
	away := b.Pos.Sub(cp.Vector{X: p.X, Y: p.Y})
	dist := away.Length()
	reach := m.opts.Reach + b.Radius
	if dist >= reach || dist < 1e-6 {
		return
	}
	falloff := 1 - dist/reach
	push := pointerPush * m.opts.Strength * falloff * falloff
	b.Vel = b.Vel.Add(away.Mult(push * dt / dist))
	b.Omega += math.Copysign(falloff, away.X) * dt * 4
	capSpeed(b, m.opts.MaxSpeed)
}

package modes

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
	"github.com/milk9111/bouncyballs/physics"
)

// vortexResponse is how fast, per second, velocity converges on the orbit.
const vortexResponse = 8

// orbit is the per-body state the vortex keeps outside the core body.
type orbit struct {
	Ring  float64
	Speed float64
	Dir   float64
}

// vortexMode swirls bodies around the center on rings of their own.
type vortexMode struct {
	opts   Options
	orbits *physics.AuxTable[orbit]
}

func newVortexMode(opts Options) *vortexMode {
	return &vortexMode{opts: opts, orbits: physics.NewAuxTable[orbit]()}
}

func (m *vortexMode) Kind() Kind { return Vortex }

func (m *vortexMode) Configure(cfg *physics.Config) {
	cfg.Gravity = 0
	cfg.SoftSolver = true
	cfg.OpenTop = false
}

func (m *vortexMode) Spawn(sim *physics.Simulation, rng *rand.Rand) {
	sim.RegisterAux(m.orbits)
	bd := sim.Boundary()
	c := sim.Center()
	maxRing := 0.45 * math.Min(bd.Width(), bd.Height())

	ids := scatter(sim, rng, m.opts, bd.Left, bd.Top, bd.Right, bd.Bottom, nil)
	for _, id := range ids {
		b := sim.Body(id)
		ring := cp.Clamp(b.Pos.Sub(c).Length(), 2*b.Radius, maxRing)
		dir := 1.0
		if rng.Float64() < 0.15 {
			dir = -1
		}
		m.orbits.Set(id, orbit{
			Ring:  ring,
			Speed: (120 + rng.Float64()*160) * m.opts.Strength,
			Dir:   dir,
		})
	}
}

func (m *vortexMode) Apply(sim *physics.Simulation, b *physics.Body, dt float64) {
	o := m.orbits.Get(b.ID)
	if o == nil {
		return
	}
	toCenter := sim.Center().Sub(b.Pos)
	dist := toCenter.Length()
	if dist < common.Epsilon {
		return
	}
	inward := toCenter.Mult(1 / dist)
	tangent := inward.Perp().Mult(o.Dir)

	// pull back toward the ring, move along it
	radial := (dist - o.Ring) / math.Max(o.Ring, 1)
	desired := tangent.Mult(o.Speed).Add(inward.Mult(o.Speed * cp.Clamp(radial, -1, 1)))
	k := 1 - math.Exp(-vortexResponse*dt)
	b.Vel = b.Vel.Lerp(desired, k)
	capSpeed(b, m.opts.MaxSpeed)
}

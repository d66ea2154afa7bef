package modes

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

const (
	driftMinSpeed = 30
	driftMaxSpeed = 120
	breathAmount  = 0.08
	breathRate    = 1.3
)

// weightlessMode floats bodies with no gravity; each one slowly breathes.
type weightlessMode struct {
	opts Options
	t    float64
}

func (m *weightlessMode) Kind() Kind { return Weightless }

func (m *weightlessMode) Configure(cfg *physics.Config) {
	cfg.Gravity = 0
	cfg.SoftSolver = true
	cfg.OpenTop = false
}

func (m *weightlessMode) Spawn(sim *physics.Simulation, rng *rand.Rand) {
	m.t = 0
	bd := sim.Boundary()
	scatter(sim, rng, m.opts, bd.Left, bd.Top, bd.Right, bd.Bottom, func(float64) cp.Vector {
		speed := driftMinSpeed + rng.Float64()*(driftMaxSpeed-driftMinSpeed)
		return randomDirection(rng).Mult(speed)
	})
}

func (m *weightlessMode) BeginTick(_ *physics.Simulation, dt float64) {
	m.t += dt
}

func (m *weightlessMode) Apply(_ *physics.Simulation, b *physics.Body, dt float64) {
	phase := float64(b.ID) * 0.7
	b.Radius = b.BaseRadius * (1 + breathAmount*m.opts.Strength*math.Sin(m.t*breathRate+phase))

	// keep everything drifting: restore speed lost to drag along the current heading
	if s := b.Vel.Length(); s < driftMinSpeed {
		dir := b.Vel
		if s < 1e-6 {
			dir = cp.ForAngle(phase)
		} else {
			dir = dir.Mult(1 / s)
		}
		b.Vel = b.Vel.Add(dir.Mult((driftMinSpeed - s) * math.Min(1, 2*dt)))
	}
	capSpeed(b, m.opts.MaxSpeed)
}

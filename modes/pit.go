package modes

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

// pitMode drops bodies in through an open top into a gravity well.
type pitMode struct {
	opts Options
}

func (m *pitMode) Kind() Kind { return Pit }

func (m *pitMode) Configure(cfg *physics.Config) {
	cfg.OpenTop = true
	cfg.SoftSolver = false
	if cfg.Gravity <= 0 {
		cfg.Gravity = physics.DefaultConfig().Gravity
	}
}

func (m *pitMode) Spawn(sim *physics.Simulation, rng *rand.Rand) {
	bd := sim.Boundary()
	h := sim.Config().Height
	// stacked above the canvas so they rain in over the first seconds
	scatter(sim, rng, m.opts, bd.Left, -h, bd.Right, 0, func(float64) cp.Vector {
		return cp.Vector{X: (rng.Float64() - 0.5) * 120}
	})
}

func (m *pitMode) Apply(_ *physics.Simulation, b *physics.Body, _ float64) {
	capSpeed(b, m.opts.MaxSpeed)
}

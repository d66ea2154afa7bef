package physics

import "github.com/jakecoffman/cp"

// Stage is one ordered step of a physics tick.
type Stage interface {
	Run(sim *Simulation, dt float64)
}

// StageFunc adapts a function to Stage.
type StageFunc func(sim *Simulation, dt float64)

func (f StageFunc) Run(sim *Simulation, dt float64) {
	f(sim, dt)
}

// Pipeline runs its stages in insertion order.
type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) *Pipeline {
	copied := append([]Stage(nil), stages...)
	return &Pipeline{stages: copied}
}

func (p *Pipeline) Run(sim *Simulation, dt float64) {
	for _, stage := range p.stages {
		stage.Run(sim, dt)
	}
}

// DefaultPipeline is the tick order: pointer wake, integrate and apply forces,
// broad and narrow phase, wall pressure reset and boundary collision, sleep.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		StageFunc(wakeStage),
		StageFunc(integrateStage),
		StageFunc(contactStage),
		StageFunc(boundaryStage),
		StageFunc(sleepStage),
	)
}

func wakeStage(sim *Simulation, _ float64) {
	if !sim.pointer.Active || sim.cfg.WakeRadius <= 0 {
		return
	}
	r2 := sim.cfg.WakeRadius * sim.cfg.WakeRadius
	p := cp.Vector{X: sim.pointer.X, Y: sim.pointer.Y}
	for i := range sim.bodies {
		b := &sim.bodies[i]
		if b.Sleeping && b.Pos.Sub(p).LengthSq() <= r2 {
			b.Wake()
		}
	}
}

func integrateStage(sim *Simulation, dt float64) {
	if hook, ok := sim.force.(TickHook); ok {
		hook.BeginTick(sim, dt)
	}
	for i := range sim.bodies {
		b := &sim.bodies[i]
		if b.Sleeping {
			continue
		}
		b.Integrate(&sim.cfg, dt)
		if sim.force != nil {
			sim.force.Apply(sim, b, dt)
		}
	}
}

func contactStage(sim *Simulation, _ float64) {
	pairs := sim.hash.FindPairs(&sim.cfg, sim.bodies)
	sim.resolver.Resolve(&sim.cfg, sim.bodies, pairs, &sim.queue)
}

func boundaryStage(sim *Simulation, _ float64) {
	sim.walls.ClearPressure()
	for i := range sim.bodies {
		sim.boundary.Collide(&sim.cfg, sim.walls, &sim.bodies[i], &sim.queue)
	}
}

func sleepStage(sim *Simulation, dt float64) {
	for i := range sim.bodies {
		sim.bodies[i].UpdateSleep(&sim.cfg, dt)
	}
}

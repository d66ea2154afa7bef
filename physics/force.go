package physics

// ForceGenerator is the per-body hook installed by the active mode. Apply runs
// once per tick for every awake body, after integration and before wall
// collision, and may change velocity, spin or radius freely.
type ForceGenerator interface {
	Apply(sim *Simulation, b *Body, dt float64)
}

// ForceFunc adapts a function to ForceGenerator.
type ForceFunc func(sim *Simulation, b *Body, dt float64)

func (f ForceFunc) Apply(sim *Simulation, b *Body, dt float64) {
	f(sim, b, dt)
}

// TickHook is implemented by generators that need per-tick setup before the
// first Apply call, such as advancing a shared phase.
type TickHook interface {
	BeginTick(sim *Simulation, dt float64)
}

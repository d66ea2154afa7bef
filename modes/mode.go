package modes

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

var ErrNoScript = errors.New("modes: script mode needs a script")

// Mode is a scene: it adjusts the physics config, spawns bodies and acts as
// the per-body force hook.
type Mode interface {
	physics.ForceGenerator
	Kind() Kind
	Configure(cfg *physics.Config)
	Spawn(sim *physics.Simulation, rng *rand.Rand)
}

// Options are shared spawn and force settings. Lengths are in canvas pixels.
type Options struct {
	Count     int
	MinRadius float64
	MaxRadius float64
	MaxSpeed  float64
	// Strength scales the mode's own force; its meaning differs per mode.
	Strength float64
	// Reach is the pointer mode's repel radius.
	Reach float64

	Script     []byte
	ScriptName string
}

func DefaultOptions() Options {
	return Options{
		Count:     120,
		MinRadius: 10,
		MaxRadius: 26,
		MaxSpeed:  1600,
		Strength:  1,
		Reach:     160,
	}
}

func (o Options) sanitized() Options {
	d := DefaultOptions()
	if o.Count < 0 {
		o.Count = 0
	}
	if !(o.MinRadius > 0) {
		o.MinRadius = d.MinRadius
	}
	if o.MaxRadius < o.MinRadius {
		o.MaxRadius = o.MinRadius
	}
	if !(o.MaxSpeed > 0) {
		o.MaxSpeed = d.MaxSpeed
	}
	if o.Strength < 0 {
		o.Strength = 0
	}
	if !(o.Reach > 0) {
		o.Reach = d.Reach
	}
	return o
}

// New builds the mode for kind.
func New(kind Kind, opts Options) (Mode, error) {
	opts = opts.sanitized()
	switch kind {
	case Pit:
		return &pitMode{opts: opts}, nil
	case Weightless:
		return &weightlessMode{opts: opts}, nil
	case Vortex:
		return newVortexMode(opts), nil
	case Pointer:
		return &pointerMode{opts: opts}, nil
	case Script:
		return NewScriptForce(opts)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, kind)
	}
}

func (o Options) radius(rng *rand.Rand) float64 {
	return o.MinRadius + rng.Float64()*(o.MaxRadius-o.MinRadius)
}

// capSpeed keeps force hooks from pumping unbounded energy into a body.
func capSpeed(b *physics.Body, max float64) {
	b.Vel = b.Vel.Clamp(max)
}

// scatter places count bodies at random, non-overlapping where possible,
// inside the rectangle [x0,x1]x[y0,y1].
func scatter(sim *physics.Simulation, rng *rand.Rand, opts Options, x0, y0, x1, y1 float64, vel func(r float64) cp.Vector) []physics.BodyID {
	ids := make([]physics.BodyID, 0, opts.Count)
	placed := make([]physics.Body, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		r := opts.radius(rng)
		var b physics.Body
		for attempt := 0; attempt < 8; attempt++ {
			x := x0 + r + rng.Float64()*math.Max(x1-x0-2*r, 0)
			y := y0 + r + rng.Float64()*math.Max(y1-y0-2*r, 0)
			b = physics.NewBody(x, y, r)
			if !overlapsAny(b, placed) {
				break
			}
		}
		if vel != nil {
			b.Vel = vel(r)
		}
		placed = append(placed, b)
		ids = append(ids, sim.Add(b))
	}
	return ids
}

func overlapsAny(b physics.Body, others []physics.Body) bool {
	for i := range others {
		rs := b.Radius + others[i].Radius
		if b.Pos.Sub(others[i].Pos).LengthSq() < rs*rs {
			return true
		}
	}
	return false
}

func randomDirection(rng *rand.Rand) cp.Vector {
	return cp.ForAngle(rng.Float64() * 2 * math.Pi)
}

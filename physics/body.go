package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
)

// BodyID identifies a body for as long as it stays in a simulation.
type BodyID uint32

// Body is a simulated disc. Mode logic may animate Radius; the solver only
// reads it.
type Body struct {
	ID BodyID

	Pos cp.Vector
	Vel cp.Vector

	Radius     float64
	BaseRadius float64
	Mass       float64

	Omega float64
	Theta float64

	// Squash and SquashAngle are written by collision response for drawing only.
	Squash      float64
	SquashAngle float64
	Alpha       float64

	Sleeping   bool
	SleepTimer float64
	Grounded   bool
	Supported  bool
}

// NewBody creates an awake body at rest radius r.
func NewBody(x, y, r float64) Body {
	return Body{
		Pos:        cp.Vector{X: x, Y: y},
		Radius:     r,
		BaseRadius: r,
		Alpha:      1,
	}
}

// InvMass returns the inverse mass used by impulse math; mass never reaches zero.
func (b *Body) InvMass(cfg *Config) float64 {
	m := b.Mass
	if m <= 0 {
		m = cfg.BodyMass
	}
	if m < cfg.MinMass {
		m = cfg.MinMass
	}
	return 1 / m
}

// EffectiveMass is the mass after the MinMass clamp.
func (b *Body) EffectiveMass(cfg *Config) float64 {
	return 1 / b.InvMass(cfg)
}

// Speed returns the linear speed.
func (b *Body) Speed() float64 {
	return b.Vel.Length()
}

// Integrate advances an awake body by dt. Contact flags from the previous
// tick decide whether gravity applies, then they are cleared so the resolver
// and boundary collider can re-establish them.
func (b *Body) Integrate(cfg *Config, dt float64) {
	if b == nil || b.Sleeping {
		return
	}

	resting := b.Grounded || b.Supported
	if !resting || b.Vel.Y < -cfg.GravitySkipSpeed {
		b.Vel.Y += cfg.Gravity * dt
	}
	b.Grounded = false
	b.Supported = false

	speed := b.Vel.Length()
	drag := cfg.Drag
	if cfg.LowSpeedDragSpeed > 0 && speed < cfg.LowSpeedDragSpeed {
		drag += cfg.LowSpeedDrag * (1 - speed/cfg.LowSpeedDragSpeed)
	}
	b.Vel = b.Vel.Mult(cp.Clamp01(1 - drag*dt))

	if b.Vel.LengthSq() < cfg.SnapSpeed*cfg.SnapSpeed {
		b.Vel = cp.Vector{}
	}

	b.Pos = b.Pos.Add(b.Vel.Mult(dt))

	b.Omega = common.SnapZero(common.ExpDecay(b.Omega, cfg.SpinDecay, dt), 1e-4)
	b.Theta = math.Mod(b.Theta+b.Omega*dt, 2*math.Pi)
	b.Squash = common.SnapZero(common.ExpDecay(b.Squash, cfg.SquashDecay, dt), 1e-3)
}

// UpdateSleep runs the Awake->Sleeping transition. A body falls asleep after
// resting slowly for TimeToSleep; velocity and spin are zeroed on the spot.
func (b *Body) UpdateSleep(cfg *Config, dt float64) {
	if b == nil || b.Sleeping {
		return
	}
	resting := b.Grounded || b.Supported
	slow := b.Vel.LengthSq() < cfg.SleepVelocity*cfg.SleepVelocity && math.Abs(b.Omega) < cfg.SleepAngular
	if !resting || !slow {
		b.SleepTimer = 0
		return
	}
	b.SleepTimer += dt
	if b.SleepTimer+common.Epsilon >= cfg.TimeToSleep {
		b.Sleeping = true
		b.SleepTimer = 0
		b.Vel = cp.Vector{}
		b.Omega = 0
	}
}

// Wake returns a sleeping body to the awake state.
func (b *Body) Wake() {
	if b == nil {
		return
	}
	b.Sleeping = false
	b.SleepTimer = 0
}

// ApplyImpulse adds j/m to the velocity. A sleeping body wakes when the
// resulting velocity change exceeds WakeVelocity; smaller nudges are ignored.
func (b *Body) ApplyImpulse(cfg *Config, j cp.Vector) {
	if b == nil {
		return
	}
	dv := j.Mult(b.InvMass(cfg))
	if b.Sleeping {
		if dv.Length() <= cfg.WakeVelocity {
			return
		}
		b.Wake()
	}
	b.Vel = b.Vel.Add(dv)
}

// addSquash keeps the strongest deformation seen this tick.
func (b *Body) addSquash(cfg *Config, strength float64, normal cp.Vector) {
	amount := cp.Clamp01(strength) * cfg.SquashScale
	if amount <= b.Squash {
		return
	}
	b.Squash = amount
	b.SquashAngle = math.Atan2(normal.Y, normal.X)
}

package modes

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

// A force script defines `force := func(body, env) { ... }` returning an
// acceleration [ax, ay] in px/s^2, or nothing. body has id, x, y, vx, vy, r;
// env has t, dt, width, height, cx, cy, px, py and pointer.
const forceDispatchScript = `
__out = []
for __b in __bodies {
	__out = append(__out, force(__b, __env))
}
`

// ScriptForce runs a tengo script once per tick over every awake body and
// applies the accelerations it returns.
type ScriptForce struct {
	name     string
	opts     Options
	compiled *tengo.Compiled
	t        float64
	accel    map[physics.BodyID]cp.Vector
	failed   bool
}

// NewScriptForce compiles opts.Script.
func NewScriptForce(opts Options) (*ScriptForce, error) {
	opts = opts.sanitized()
	if len(strings.TrimSpace(string(opts.Script))) == 0 {
		return nil, ErrNoScript
	}
	name := opts.ScriptName
	if name == "" {
		name = "inline"
	}

	src := string(opts.Script) + "\n" + forceDispatchScript
	script := tengo.NewScript([]byte(src))
	_ = script.Add("__bodies", []interface{}{})
	_ = script.Add("__env", map[string]interface{}{})
	_ = script.Add("__out", []interface{}{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("modes: compile %s: %w", name, err)
	}
	return &ScriptForce{
		name:     name,
		opts:     opts,
		compiled: compiled,
		accel:    make(map[physics.BodyID]cp.Vector),
	}, nil
}

func (s *ScriptForce) Kind() Kind { return Script }

func (s *ScriptForce) Name() string { return s.name }

func (s *ScriptForce) Configure(cfg *physics.Config) {
	cfg.OpenTop = false
}

func (s *ScriptForce) Spawn(sim *physics.Simulation, rng *rand.Rand) {
	s.t = 0
	s.failed = false
	bd := sim.Boundary()
	scatter(sim, rng, s.opts, bd.Left, bd.Top, bd.Right, bd.Bottom, func(float64) cp.Vector {
		return randomDirection(rng).Mult(60)
	})
}

// BeginTick evaluates the script for all awake bodies.
func (s *ScriptForce) BeginTick(sim *physics.Simulation, dt float64) {
	s.t += dt
	clear(s.accel)
	if s.failed {
		return
	}

	bodies := sim.Bodies()
	in := make([]interface{}, 0, len(bodies))
	ids := make([]physics.BodyID, 0, len(bodies))
	for i := range bodies {
		b := &bodies[i]
		if b.Sleeping {
			continue
		}
		in = append(in, map[string]interface{}{
			"id": int64(b.ID),
			"x":  b.Pos.X,
			"y":  b.Pos.Y,
			"vx": b.Vel.X,
			"vy": b.Vel.Y,
			"r":  b.Radius,
		})
		ids = append(ids, b.ID)
	}
	if len(in) == 0 {
		return
	}

	cfg := sim.Config()
	c := sim.Center()
	p := sim.Pointer()
	env := map[string]interface{}{
		"t":       s.t,
		"dt":      dt,
		"width":   cfg.Width,
		"height":  cfg.Height,
		"cx":      c.X,
		"cy":      c.Y,
		"px":      p.X,
		"py":      p.Y,
		"pointer": p.Active,
	}

	if err := s.run(in, env); err != nil {
		log.Printf("ScriptForce: %s: %v; disabling until reload", s.name, err)
		s.failed = true
		return
	}

	out := s.compiled.Get("__out").Array()
	for i, v := range out {
		if i >= len(ids) {
			break
		}
		if a, ok := toVector(v); ok {
			s.accel[ids[i]] = a.Mult(s.opts.Strength)
		}
	}
}

func (s *ScriptForce) run(bodies []interface{}, env map[string]interface{}) error {
	if err := s.compiled.Set("__bodies", bodies); err != nil {
		return err
	}
	if err := s.compiled.Set("__env", env); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *ScriptForce) Apply(_ *physics.Simulation, b *physics.Body, dt float64) {
	a, ok := s.accel[b.ID]
	if !ok {
		return
	}
	b.Vel = b.Vel.Add(a.Mult(dt))
	capSpeed(b, s.opts.MaxSpeed)
}

func toVector(v interface{}) (cp.Vector, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) < 2 {
		return cp.Vector{}, false
	}
	x, okx := toFloat(arr[0])
	y, oky := toFloat(arr[1])
	return cp.Vector{X: x, Y: y}, okx && oky
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		// a script dividing by zero must not poison body state
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

package scene

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/bouncyballs/modes"
	"github.com/milk9111/bouncyballs/physics"
	"github.com/milk9111/bouncyballs/settings"
)

// Scene ties a settings spec to a running simulation and its mode. Every
// front end (window, terminal, websocket) drives one of these.
type Scene struct {
	spec   settings.SimulationSpec
	width  float64
	height float64
	dpr    float64

	sim   *physics.Simulation
	mode  modes.Mode
	rng   *rand.Rand
	frame physics.Frame
}

// New builds a scene for a width x height canvas in device pixels and spawns
// its bodies.
func New(spec settings.SimulationSpec, width, height, dpr float64) (*Scene, error) {
	if !(dpr > 0) {
		dpr = 1
	}
	s := &Scene{
		spec:   spec,
		width:  width,
		height: height,
		dpr:    dpr,
	}
	s.sim = physics.New(spec.Build(width, height, dpr))
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Sim() *physics.Simulation      { return s.sim }
func (s *Scene) Mode() modes.Mode              { return s.mode }
func (s *Scene) Spec() settings.SimulationSpec { return s.spec }
func (s *Scene) DPR() float64                  { return s.dpr }

// Reset rebuilds the mode from the spec, respawns every body and runs the
// silent warmup.
func (s *Scene) Reset() error {
	mode, err := s.spec.BuildMode(s.dpr)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	cfg := s.spec.Build(s.width, s.height, s.dpr)
	mode.Configure(&cfg)

	s.mode = mode
	s.rng = rand.New(rand.NewSource(s.spec.SeedValue()))
	s.sim.SetConfig(cfg)
	s.sim.Reset()
	s.sim.SetForce(mode)
	mode.Spawn(s.sim, s.rng)
	s.sim.Warmup(s.spec.Warmup())
	return nil
}

// SetMode switches to kind and resets. The spec is left unchanged on error.
func (s *Scene) SetMode(kind modes.Kind) error {
	prev := s.spec.Mode
	s.spec.Mode = kind.String()
	if err := s.Reset(); err != nil {
		s.spec.Mode = prev
		return err
	}
	return nil
}

// NextMode cycles through the modes, skipping any that fail to build.
func (s *Scene) NextMode() (modes.Kind, error) {
	kind := s.mode.Kind()
	var errs []error
	for range modes.Kinds() {
		kind = kind.Next()
		err := s.SetMode(kind)
		if err == nil {
			return kind, nil
		}
		log.Printf("scene: skipping mode %s: %v", kind, err)
		errs = append(errs, err)
	}
	return s.mode.Kind(), errors.Join(errs...)
}

// Apply swaps the spec. A change of mode, seed or body settings respawns the
// scene; otherwise only the physics config is replaced and bodies are kept.
func (s *Scene) Apply(spec settings.SimulationSpec) error {
	if _, err := spec.Kind(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	respawn := spec.Mode != s.spec.Mode ||
		spec.SeedValue() != s.spec.SeedValue() ||
		spawnKeyOf(spec) != spawnKeyOf(s.spec)
	prev := s.spec
	s.spec = spec
	if respawn {
		if err := s.Reset(); err != nil {
			s.spec = prev
			return err
		}
		return nil
	}
	cfg := spec.Build(s.width, s.height, s.dpr)
	s.mode.Configure(&cfg)
	s.sim.SetConfig(cfg)
	return nil
}

// Reload reads name through settings and applies it.
func (s *Scene) Reload(name string) error {
	spec, err := settings.LoadSimulationSpec(name)
	if err != nil {
		return err
	}
	return s.Apply(*spec)
}

// Resize follows a canvas size change without respawning.
func (s *Scene) Resize(width, height float64) {
	if width <= 0 || height <= 0 || (width == s.width && height == s.height) {
		return
	}
	s.width, s.height = width, height
	s.sim.Resize(width, height)
}

// SetPointer forwards the active point.
func (s *Scene) SetPointer(x, y float64, active bool) {
	s.sim.SetPointer(x, y, active)
}

// Frame advances by one animation frame and returns the fresh readback. The
// returned frame is reused by the next call.
func (s *Scene) Frame(dt float64) *physics.Frame {
	s.sim.Frame(dt)
	s.sim.Readback(&s.frame)
	return &s.frame
}

// Snapshot returns the latest readback without stepping.
func (s *Scene) Snapshot() *physics.Frame {
	s.sim.Readback(&s.frame)
	return &s.frame
}

// Export returns the active spec with every value resolved, as YAML.
func (s *Scene) Export() ([]byte, error) {
	return settings.Marshal(s.spec.Resolved())
}

// Tune edits a copy of the spec through fn and applies it. fn must replace
// pointer fields rather than write through them.
func (s *Scene) Tune(fn func(spec *settings.SimulationSpec)) error {
	spec := s.spec
	fn(&spec)
	return s.Apply(spec)
}

type spawnKey struct {
	count                                           int
	minRadius, maxRadius, maxSpeed, strength, reach float64
	script                                          string
}

func spawnKeyOf(spec settings.SimulationSpec) spawnKey {
	o := spec.Options(1)
	return spawnKey{
		count:     o.Count,
		minRadius: o.MinRadius,
		maxRadius: o.MaxRadius,
		maxSpeed:  o.MaxSpeed,
		strength:  o.Strength,
		reach:     o.Reach,
		script:    o.ScriptName,
	}
}

package physics

import (
	"log"
	"slices"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
)

// Pointer is the externally driven active point that wakes nearby bodies.
type Pointer struct {
	X, Y   float64
	Active bool
}

// Simulation is the whole mutable state of one scene. Every core call reads
// its configuration from here, so several simulations can run side by side.
// It is not safe for concurrent use.
type Simulation struct {
	cfg Config

	bodies []Body
	nextID BodyID

	hash     *SpatialHash
	resolver *Resolver
	boundary *Boundary
	walls    *WallField
	pipeline *Pipeline
	sched    *Scheduler

	force ForceGenerator
	queue EventQueue
	sink  EventSink
	muted bool

	pointer Pointer
	aux     []AuxStore
	ticks   uint64
}

// New creates an empty simulation. cfg is sanitized first.
func New(cfg Config) *Simulation {
	cfg = cfg.Sanitized()
	return &Simulation{
		cfg:      cfg,
		nextID:   1,
		hash:     NewSpatialHash(),
		resolver: NewResolver(&cfg),
		boundary: NewBoundary(&cfg),
		walls:    NewWallField(cfg.Wall),
		pipeline: DefaultPipeline(),
		sched:    NewScheduler(),
	}
}

// Config returns a copy of the active configuration.
func (s *Simulation) Config() Config {
	return s.cfg
}

// SetConfig swaps the configuration and keeps the bodies.
func (s *Simulation) SetConfig(cfg Config) {
	if s == nil {
		return
	}
	cfg = cfg.Sanitized()
	if cfg.MaxBodies < len(s.bodies) {
		log.Printf("Simulation: body cap lowered to %d, dropping %d oldest", cfg.MaxBodies, len(s.bodies)-cfg.MaxBodies)
		for len(s.bodies) > cfg.MaxBodies {
			s.removeAt(0)
		}
	}
	s.cfg = cfg
	s.resolver = NewResolver(&s.cfg)
	s.boundary.Configure(&s.cfg)
	s.walls.Configure(s.cfg.Wall)
}

// Resize changes the canvas extents.
func (s *Simulation) Resize(width, height float64) {
	if s == nil || width <= 0 || height <= 0 {
		return
	}
	s.cfg.Width = width
	s.cfg.Height = height
	s.boundary.Configure(&s.cfg)
}

// SetForce installs the per-body force hook; nil disables it.
func (s *Simulation) SetForce(f ForceGenerator) {
	if s == nil {
		return
	}
	s.force = f
}

// SetSink sets where collision events are delivered after each tick.
func (s *Simulation) SetSink(sink EventSink) {
	if s == nil {
		return
	}
	s.sink = sink
}

// SetPointer moves the active point. Sleeping bodies within WakeRadius wake
// on the next tick while it is active.
func (s *Simulation) SetPointer(x, y float64, active bool) {
	if s == nil {
		return
	}
	s.pointer = Pointer{X: x, Y: y, Active: active}
}

func (s *Simulation) Pointer() Pointer {
	return s.pointer
}

// RegisterAux attaches a side-table whose entries are dropped together with
// their bodies. Registering the same table twice is a no-op. Reset detaches
// every table, so modes register again on each spawn.
func (s *Simulation) RegisterAux(t AuxStore) {
	if s == nil || t == nil {
		return
	}
	for _, have := range s.aux {
		if have == t {
			return
		}
	}
	s.aux = append(s.aux, t)
}

// Add inserts b and returns its new id. When the body cap is reached the
// oldest body is recycled first.
func (s *Simulation) Add(b Body) BodyID {
	if s == nil {
		return 0
	}
	for len(s.bodies) >= s.cfg.MaxBodies {
		s.removeAt(0)
	}
	if b.BaseRadius <= 0 {
		b.BaseRadius = b.Radius
	}
	b.ID = s.nextID
	s.nextID++
	s.bodies = append(s.bodies, b)
	return b.ID
}

// Remove deletes the body with id and reports whether it existed.
func (s *Simulation) Remove(id BodyID) bool {
	if s == nil {
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.removeAt(i)
	return true
}

func (s *Simulation) removeAt(i int) {
	id := s.bodies[i].ID
	s.bodies = slices.Delete(s.bodies, i, i+1)
	for _, t := range s.aux {
		t.Remove(id)
	}
}

func (s *Simulation) index(id BodyID) int {
	for i := range s.bodies {
		if s.bodies[i].ID == id {
			return i
		}
	}
	return -1
}

// Body returns the live body with id, or nil. The pointer is invalidated by
// Add and Remove.
func (s *Simulation) Body(id BodyID) *Body {
	if s == nil {
		return nil
	}
	if i := s.index(id); i >= 0 {
		return &s.bodies[i]
	}
	return nil
}

// Bodies returns the live body slice in insertion order. Callers may mutate
// bodies in place but must not append to it.
func (s *Simulation) Bodies() []Body {
	if s == nil {
		return nil
	}
	return s.bodies
}

// Len returns the body count.
func (s *Simulation) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}

// Reset empties the scene: bodies, wall motion, queued events and the
// scheduler's accumulated time. Registered side-tables are cleared and then
// detached.
func (s *Simulation) Reset() {
	if s == nil {
		return
	}
	s.bodies = s.bodies[:0]
	s.nextID = 1
	for _, t := range s.aux {
		t.Clear()
	}
	clear(s.aux)
	s.aux = s.aux[:0]
	s.walls.Reset()
	s.queue.Discard()
	s.sched.Reset()
	s.ticks = 0
}

func (s *Simulation) Boundary() *Boundary   { return s.boundary }
func (s *Simulation) Walls() *WallField     { return s.walls }
func (s *Simulation) Scheduler() *Scheduler { return s.sched }
func (s *Simulation) Resolver() *Resolver   { return s.resolver }

// Ticks returns the number of fixed ticks run since the last Reset.
func (s *Simulation) Ticks() uint64 {
	return s.ticks
}

// Step runs one physics tick of length dt and delivers its events. The wall
// springs are not stepped; the scheduler does that once per frame.
func (s *Simulation) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	s.pipeline.Run(s, dt)
	if s.muted {
		s.queue.Discard()
	} else {
		s.queue.Flush(s.sink)
	}
	s.ticks++
}

// StepFixed runs n ticks of common.FixedDT with the wall springs stepped each
// tick. Independent of wall-clock time, two runs from the same state produce
// identical trajectories.
func (s *Simulation) StepFixed(n int) {
	for i := 0; i < n; i++ {
		s.Step(common.FixedDT)
		s.walls.Step(common.FixedDT)
	}
}

// Frame feeds one animation frame's wall-clock delta to the scheduler and
// returns the number of ticks it ran.
func (s *Simulation) Frame(dt float64) int {
	if s == nil {
		return 0
	}
	return s.sched.Advance(s, dt)
}

// Warmup fast-forwards a freshly spawned scene by frames nominal frames with
// collision events discarded.
func (s *Simulation) Warmup(frames int) {
	if s == nil {
		return
	}
	s.sched.Warmup(s, frames)
}

// Awake returns the number of bodies not sleeping.
func (s *Simulation) Awake() int {
	n := 0
	for i := range s.bodies {
		if !s.bodies[i].Sleeping {
			n++
		}
	}
	return n
}

// Center returns the middle of the collision surface.
func (s *Simulation) Center() cp.Vector {
	bd := s.boundary
	return cp.Vector{X: (bd.Left + bd.Right) / 2, Y: (bd.Top + bd.Bottom) / 2}
}

package physics

import (
	"math"

	"github.com/milk9111/bouncyballs/common"
)

// SchedulerState is where the scheduler is inside a frame.
type SchedulerState uint8

const (
	Idle SchedulerState = iota
	Accumulating
	Stepping
)

// Scheduler is the fixed-timestep accumulator. Each frame it runs at most
// MaxSteps ticks of FixedDT, steps the wall springs once with the real frame
// delta, and drops backlog beyond ResetTicks ticks.
type Scheduler struct {
	FixedDT    float64
	MaxSteps   int
	ResetTicks float64

	acc   float64
	state SchedulerState
	last  int
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		FixedDT:    common.FixedDT,
		MaxSteps:   common.MaxStepsPerFrame,
		ResetTicks: common.AccumulatorResetTicks,
	}
}

// Advance consumes frameDT seconds of wall-clock time.
func (s *Scheduler) Advance(sim *Simulation, frameDT float64) int {
	if s == nil || sim == nil {
		return 0
	}
	if !(frameDT > 0) || math.IsInf(frameDT, 0) {
		frameDT = 0
	}

	s.state = Accumulating
	s.acc += frameDT

	steps := 0
	for s.acc+common.Epsilon >= s.FixedDT && steps < s.MaxSteps {
		s.state = Stepping
		sim.Step(s.FixedDT)
		s.acc -= s.FixedDT
		steps++
	}
	if s.acc < 0 {
		s.acc = 0
	}

	sim.walls.Step(frameDT)

	if s.acc > s.ResetTicks*s.FixedDT {
		s.acc = 0
	}
	s.state = Idle
	s.last = steps
	return steps
}

// Warmup runs frames frames of common.WarmupDT without delivering events and
// leaves the accumulator empty.
func (s *Scheduler) Warmup(sim *Simulation, frames int) {
	if s == nil || sim == nil {
		return
	}
	sim.muted = true
	for i := 0; i < frames; i++ {
		s.Advance(sim, common.WarmupDT)
	}
	sim.muted = false
	s.acc = 0
}

// Reset drops accumulated time.
func (s *Scheduler) Reset() {
	if s == nil {
		return
	}
	s.acc = 0
	s.state = Idle
	s.last = 0
}

func (s *Scheduler) Accumulator() float64  { return s.acc }
func (s *Scheduler) State() SchedulerState { return s.state }

// LastSteps returns the ticks run by the most recent Advance.
func (s *Scheduler) LastSteps() int { return s.last }

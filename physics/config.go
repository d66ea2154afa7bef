package physics

import "github.com/jakecoffman/cp"

// Config holds every tunable the simulation reads. All lengths are in canvas
// pixels already multiplied by the device pixel ratio.
type Config struct {
	Width  float64
	Height float64

	Gravity     float64
	Restitution float64
	Friction    float64

	// Drag is the base linear drag per second. LowSpeedDrag is added on top
	// as speed falls below LowSpeedDragSpeed.
	Drag              float64
	LowSpeedDrag      float64
	LowSpeedDragSpeed float64
	SnapSpeed         float64
	GravitySkipSpeed  float64

	SpinDecay   float64
	SquashDecay float64
	SquashScale float64

	BodyMass     float64
	MinMass      float64
	SpacingRatio float64
	MaxBodies    int

	SolverIterations  int
	SoftIterations    int
	SoftSolver        bool
	CorrectionPercent float64
	Slop              float64
	SoftMaxCorrection float64
	RestingSpeed      float64
	SpinTransfer      float64
	SupportThreshold  float64
	MaxImpactSpeed    float64
	EventThreshold    float64

	SleepVelocity float64
	SleepAngular  float64
	TimeToSleep   float64
	WakeRadius    float64
	WakeVelocity  float64

	WallInset           float64
	WallThickness       float64
	WallGap             float64
	CornerRadius        float64
	ContactSkin         float64
	OpenTop             bool
	RollingFriction     float64
	SpinCoupling        float64
	WallSamplePrecision int
	WallSampleSpacing   float64

	Wall WallConfig
}

// WallConfig tunes the four spring chains of the soft boundary.
type WallConfig struct {
	Segments           int
	Stiffness          float64
	Damping            float64
	MaxDeform          float64
	SettlingSpeed      float64
	ProgressiveDamping float64
	PressureDamping    float64
	ImpactScale        float64
	ImpactWidth        float64
	ImpactThreshold    float64
	PressureScale      float64
	PressureWidth      int
	CornerMargin       float64
	Snap               float64
	VisibleThreshold   float64
}

// DefaultConfig returns the tuning used when no settings file overrides it.
func DefaultConfig() Config {
	return Config{
		Width:  1280,
		Height: 720,

		Gravity:     1800,
		Restitution: 0.78,
		Friction:    0.3,

		Drag:              0.05,
		LowSpeedDrag:      4,
		LowSpeedDragSpeed: 25,
		SnapSpeed:         1.5,
		GravitySkipSpeed:  20,

		SpinDecay:   1.2,
		SquashDecay: 14,
		SquashScale: 0.35,

		BodyMass:     1,
		MinMass:      0.05,
		SpacingRatio: 0,
		MaxBodies:    400,

		SolverIterations:  10,
		SoftIterations:    4,
		CorrectionPercent: 0.8,
		Slop:              0.5,
		SoftMaxCorrection: 2,
		RestingSpeed:      40,
		SpinTransfer:      0.25,
		SupportThreshold:  0.3,
		MaxImpactSpeed:    1400,
		EventThreshold:    0.08,

		SleepVelocity: 12,
		SleepAngular:  0.5,
		TimeToSleep:   0.25,
		WakeRadius:    90,
		WakeVelocity:  60,

		WallInset:           8,
		WallThickness:       6,
		WallGap:             1,
		CornerRadius:        28,
		ContactSkin:         0.5,
		RollingFriction:     0.015,
		SpinCoupling:        0.35,
		WallSamplePrecision: 3,
		WallSampleSpacing:   6,

		Wall: DefaultWallConfig(),
	}
}

// DefaultWallConfig returns the soft boundary tuning.
func DefaultWallConfig() WallConfig {
	return WallConfig{
		Segments:           12,
		Stiffness:          650,
		Damping:            9,
		MaxDeform:          22,
		SettlingSpeed:      1,
		ProgressiveDamping: 2.5,
		PressureDamping:    3,
		ImpactScale:        0.35,
		ImpactWidth:        1.2,
		ImpactThreshold:    60,
		PressureScale:      0.35,
		PressureWidth:      2,
		CornerMargin:       0.06,
		Snap:               0.05,
		VisibleThreshold:   0.5,
	}
}

// Sanitized replaces values that would break the solver with their defaults.
// Zero is a legal value for restitution, friction, gravity and the spacing
// ratio, so those are only range-checked.
func (c Config) Sanitized() Config {
	d := DefaultConfig()
	positive := func(v *float64, def float64) {
		if !(*v > 0) {
			*v = def
		}
	}
	positiveInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}

	positive(&c.Width, d.Width)
	positive(&c.Height, d.Height)
	c.Restitution = cp.Clamp(c.Restitution, 0, 1)
	c.Friction = cp.Clamp(c.Friction, 0, 1)
	c.SpacingRatio = cp.Clamp(c.SpacingRatio, 0, 2)
	if c.Drag < 0 {
		c.Drag = d.Drag
	}
	if c.LowSpeedDrag < 0 {
		c.LowSpeedDrag = d.LowSpeedDrag
	}
	positive(&c.BodyMass, d.BodyMass)
	positive(&c.MinMass, d.MinMass)
	positiveInt(&c.MaxBodies, d.MaxBodies)
	positiveInt(&c.SolverIterations, d.SolverIterations)
	positiveInt(&c.SoftIterations, d.SoftIterations)
	positive(&c.CorrectionPercent, d.CorrectionPercent)
	c.CorrectionPercent = cp.Clamp(c.CorrectionPercent, 0, 1)
	if c.Slop < 0 {
		c.Slop = d.Slop
	}
	positive(&c.SoftMaxCorrection, d.SoftMaxCorrection)
	positive(&c.MaxImpactSpeed, d.MaxImpactSpeed)
	positive(&c.TimeToSleep, d.TimeToSleep)
	positive(&c.SupportThreshold, d.SupportThreshold)
	if c.WallSamplePrecision < 1 {
		c.WallSamplePrecision = 1
	}
	if c.WallSamplePrecision > 6 {
		c.WallSamplePrecision = 6
	}
	if c.CornerRadius < 0 {
		c.CornerRadius = 0
	}
	c.Wall = c.Wall.sanitized()
	return c
}

func (w WallConfig) sanitized() WallConfig {
	d := DefaultWallConfig()
	if w.Segments < 3 {
		w.Segments = d.Segments
	}
	if !(w.Stiffness > 0) {
		w.Stiffness = d.Stiffness
	}
	if w.Damping < 0 {
		w.Damping = d.Damping
	}
	if !(w.MaxDeform > 0) {
		w.MaxDeform = d.MaxDeform
	}
	if w.SettlingSpeed < 0 {
		w.SettlingSpeed = d.SettlingSpeed
	}
	if !(w.ImpactWidth > 0) {
		w.ImpactWidth = d.ImpactWidth
	}
	if w.PressureWidth < 0 {
		w.PressureWidth = d.PressureWidth
	}
	w.CornerMargin = cp.Clamp(w.CornerMargin, 0, 0.45)
	if w.Snap < 0 {
		w.Snap = d.Snap
	}
	return w
}

// Iterations returns the solver iteration count for the active resolver variant.
func (c Config) Iterations() int {
	if c.SoftSolver {
		return c.SoftIterations
	}
	return c.SolverIterations
}

// GravityDominated reports whether support detection between stacked bodies applies.
func (c Config) GravityDominated() bool {
	return c.Gravity > 0
}

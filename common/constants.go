package common

const (
	// FixedDT is the physics tick length in seconds.
	FixedDT = 1.0 / 120.0
	// MaxStepsPerFrame bounds the ticks consumed by one animation frame.
	MaxStepsPerFrame = 2
	// AccumulatorResetTicks drops accumulated time once it exceeds this many ticks.
	AccumulatorResetTicks = 3.0
	// WarmupDT is the nominal frame length used while fast-forwarding a fresh scene.
	WarmupDT = 1.0 / 60.0
	// WarmupFrames is the number of silent frames run after a scene reset.
	WarmupFrames = 90

	// WallSubstepDT caps a single spring integration step of the wall field.
	WallSubstepDT = 1.0 / 60.0
	// WallMaxSubsteps bounds the spring work done for one long frame.
	WallMaxSubsteps = 16

	// Epsilon guards divisions by distances.
	Epsilon = 1e-9
)

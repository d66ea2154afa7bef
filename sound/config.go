package sound

import "time"

// SampleRate is the output rate shared by the synth and the audio context.
const SampleRate = 44100

// Config tunes collision sounds.
type Config struct {
	Enabled bool
	// Volume is the master gain, 0..1.
	Volume float64
	// Cooldown is the minimum time between two sounds with the same key.
	Cooldown time.Duration
	// BaseFreq is the pitch of a body of radius RefRadius.
	BaseFreq float64
	// RefRadius maps radius to pitch: bigger bodies sound lower.
	RefRadius float64
	// MaxPerFrame caps the sounds started between two calls to EndFrame.
	MaxPerFrame int
	// Length is the duration of one impact sound.
	Length time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Volume:      0.4,
		Cooldown:    35 * time.Millisecond,
		BaseFreq:    330,
		RefRadius:   18,
		MaxPerFrame: 6,
		Length:      90 * time.Millisecond,
	}
}

package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Smoothstep eases t in [0,1] with zero slope at both ends.
func Smoothstep(t float64) float64 {
	t = cp.Clamp01(t)
	return t * t * (3 - 2*t)
}

// ExpDecay scales v by e^(-rate*dt), the frame-rate independent form of v *= k.
func ExpDecay(v, rate, dt float64) float64 {
	if rate <= 0 {
		return v
	}
	return v * math.Exp(-rate*dt)
}

// SnapZero returns 0 when |v| is below eps.
func SnapZero(v, eps float64) float64 {
	if math.Abs(v) < eps {
		return 0
	}
	return v
}

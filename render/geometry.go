package render

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

// Ellipse returns the x and y scale of a unit disc for a squashed body and the
// rotation that aligns its x axis with the squash direction. The area stays
// close to the undeformed disc.
func Ellipse(b physics.BodyState) (sx, sy, angle float64) {
	s := cp.Clamp(b.Squash, 0, 0.9)
	return 1 - s, 1 + s*0.5, b.SquashAngle
}

// SampleAt interpolates an evenly spaced sample row at t (0..1).
func SampleAt(samples []float64, t float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return samples[0]
	}
	f := cp.Clamp01(t) * float64(n-1)
	i := int(f)
	if i >= n-1 {
		return samples[n-1]
	}
	return cp.Lerp(samples[i], samples[i+1], f-float64(i))
}

// WallPath appends the straight part of edge e, drawn offset pixels outside
// the collision surface and pushed inward by the live deformation.
func WallPath(dst []cp.Vector, f *physics.Frame, e physics.Edge, offset float64, points int) []cp.Vector {
	bd := f.Bounds
	w := bd.Right - bd.Left
	h := bd.Bottom - bd.Top
	length := w
	if e == physics.EdgeLeft || e == physics.EdgeRight {
		length = h
	}
	if length <= 0 || int(e) >= len(f.Walls) {
		return dst
	}
	points = max(points, 2)
	t0 := cp.Clamp01(bd.Corner / length)
	t1 := 1 - t0
	samples := f.Walls[e]

	for i := 0; i < points; i++ {
		t := cp.Lerp(t0, t1, float64(i)/float64(points-1))
		d := SampleAt(samples, t)
		var p cp.Vector
		switch e {
		case physics.EdgeTop:
			p = cp.Vector{X: bd.Left + t*w, Y: bd.Top - offset + d}
		case physics.EdgeBottom:
			p = cp.Vector{X: bd.Left + t*w, Y: bd.Bottom + offset - d}
		case physics.EdgeLeft:
			p = cp.Vector{X: bd.Left - offset + d, Y: bd.Top + t*h}
		case physics.EdgeRight:
			p = cp.Vector{X: bd.Right + offset - d, Y: bd.Top + t*h}
		}
		dst = append(dst, p)
	}
	return dst
}

// CornerArc appends a quarter circle for the corner at (cx, cy) going from
// angle a0 to a0+pi/2.
func CornerArc(dst []cp.Vector, center cp.Vector, radius, a0 float64, points int) []cp.Vector {
	points = max(points, 2)
	for i := 0; i < points; i++ {
		a := a0 + math.Pi/2*float64(i)/float64(points-1)
		dst = append(dst, center.Add(cp.ForAngle(a).Mult(radius)))
	}
	return dst
}

// Corners returns the four corner arc centers in the order top-left,
// top-right, bottom-right, bottom-left, with their start angles.
func Corners(bd physics.Bounds) ([4]cp.Vector, [4]float64) {
	c := bd.Corner
	return [4]cp.Vector{
			{X: bd.Left + c, Y: bd.Top + c},
			{X: bd.Right - c, Y: bd.Top + c},
			{X: bd.Right - c, Y: bd.Bottom - c},
			{X: bd.Left + c, Y: bd.Bottom - c},
		}, [4]float64{
			math.Pi, -math.Pi / 2, 0, math.Pi / 2,
		}
}

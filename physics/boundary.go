package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
)

// Boundary is the rounded-rectangle play area. Bodies collide with its inner
// surface: the canvas rect inset by WallInset, WallThickness and WallGap.
type Boundary struct {
	Left, Top, Right, Bottom float64
	Corner                   float64
	OpenTop                  bool

	center cp.Vector
	half   cp.Vector
}

// NewBoundary derives the collision surface from cfg.
func NewBoundary(cfg *Config) *Boundary {
	b := &Boundary{}
	b.Configure(cfg)
	return b
}

// Configure recomputes the surface after a resize or config change.
func (bd *Boundary) Configure(cfg *Config) {
	if bd == nil {
		return
	}
	inset := cfg.WallInset + cfg.WallThickness + cfg.WallGap
	bd.Left = inset
	bd.Top = inset
	bd.Right = math.Max(cfg.Width-inset, inset+1)
	bd.Bottom = math.Max(cfg.Height-inset, inset+1)
	bd.OpenTop = cfg.OpenTop

	bd.center = cp.Vector{X: (bd.Left + bd.Right) / 2, Y: (bd.Top + bd.Bottom) / 2}
	bd.half = cp.Vector{X: (bd.Right - bd.Left) / 2, Y: (bd.Bottom - bd.Top) / 2}
	corner := cfg.CornerRadius - cfg.WallThickness - cfg.WallGap
	bd.Corner = cp.Clamp(corner, 0, math.Min(bd.half.X, bd.half.Y))
}

// Width and Height are the inner surface extents.
func (bd *Boundary) Width() float64  { return bd.Right - bd.Left }
func (bd *Boundary) Height() float64 { return bd.Bottom - bd.Top }

// SDF returns the signed distance from p to the undeformed surface (negative
// inside) and the outward unit normal at the closest surface point.
func (bd *Boundary) SDF(p cp.Vector) (float64, cp.Vector) {
	rel := p.Sub(bd.center)
	sx, sy := sign(rel.X), sign(rel.Y)
	qx := math.Abs(rel.X) - (bd.half.X - bd.Corner)
	qy := math.Abs(rel.Y) - (bd.half.Y - bd.Corner)

	if qx > 0 && qy > 0 {
		// corner region: radial distance to the corner center
		l := math.Hypot(qx, qy)
		if l < common.Epsilon {
			return -bd.Corner, cp.Vector{X: sx * math.Sqrt2 / 2, Y: sy * math.Sqrt2 / 2}
		}
		return l - bd.Corner, cp.Vector{X: sx * qx / l, Y: sy * qy / l}
	}
	if qx > qy {
		return qx - bd.Corner, cp.Vector{X: sx}
	}
	return qy - bd.Corner, cp.Vector{Y: sy}
}

// ClosestPoint projects p onto the undeformed surface.
func (bd *Boundary) ClosestPoint(p cp.Vector) cp.Vector {
	d, n := bd.SDF(p)
	return p.Sub(n.Mult(d))
}

// EdgeAt maps a surface point to the wall edge whose straight line it is
// nearest and the normalized 0..1 position along that edge, corner to corner.
// Addressing by position rather than by normal keeps corner hits on the
// segment they actually landed on.
func (bd *Boundary) EdgeAt(p cp.Vector) (Edge, float64) {
	dTop := math.Abs(p.Y - bd.Top)
	dBottom := math.Abs(p.Y - bd.Bottom)
	dLeft := math.Abs(p.X - bd.Left)
	dRight := math.Abs(p.X - bd.Right)

	edge, best := EdgeTop, dTop
	if dBottom < best {
		edge, best = EdgeBottom, dBottom
	}
	if dLeft < best {
		edge, best = EdgeLeft, dLeft
	}
	if dRight < best {
		edge = EdgeRight
	}

	switch edge {
	case EdgeTop, EdgeBottom:
		return edge, cp.Clamp01((p.X - bd.Left) / bd.Width())
	default:
		return edge, cp.Clamp01((p.Y - bd.Top) / bd.Height())
	}
}

func (bd *Boundary) edgeLength(edge Edge) float64 {
	if edge == EdgeTop || edge == EdgeBottom {
		return bd.Width()
	}
	return bd.Height()
}

// sampleDeformation returns the largest inward displacement around the
// surface point closest to p, taking `precision` samples spaced `spacing`
// pixels apart along the edge.
func (bd *Boundary) sampleDeformation(walls *WallField, p cp.Vector, precision int, spacing float64) float64 {
	edge, t := bd.EdgeAt(p)
	w := walls.Edge(edge)
	if w == nil {
		return 0
	}
	step := spacing / math.Max(bd.edgeLength(edge), 1)
	best := math.Max(w.Sample(t), 0)
	for i := 1; i < precision; i++ {
		// offsets alternate +1, -1, +2, -2, ...
		k := float64((i + 1) / 2)
		if i%2 == 0 {
			k = -k
		}
		if v := w.Sample(t + k*step); v > best {
			best = v
		}
	}
	return best
}

// Distance returns the deformed signed distance at p: the base SDF grown by
// the live wall displacement. Sampling is skipped for points farther inside
// than radius+margin+MaxDeform.
func (bd *Boundary) Distance(cfg *Config, walls *WallField, p cp.Vector, radius float64) (float64, cp.Vector) {
	d, n := bd.SDF(p)
	if walls == nil || d+radius+cfg.ContactSkin+cfg.Wall.MaxDeform < 0 {
		return d, n
	}
	closest := p.Sub(n.Mult(d))
	return d + bd.sampleDeformation(walls, closest, cfg.WallSamplePrecision, cfg.WallSampleSpacing), n
}

// Collide resolves b against the deformed surface and registers the contact
// with the wall field. It reports whether the body touched the wall.
//
// A sleeping body penetrating by no more than Slop stays asleep: it still
// registers pressure and, on a floor-facing contact, stays grounded. Deeper
// penetration wakes it before the contact is resolved.
func (bd *Boundary) Collide(cfg *Config, walls *WallField, b *Body, q *EventQueue) bool {
	if bd == nil || b == nil {
		return false
	}
	d, n := bd.Distance(cfg, walls, b.Pos, b.Radius)
	pen := d + b.Radius
	if pen+cfg.ContactSkin <= 0 {
		return false
	}
	if bd.OpenTop && n.Y < -0.5 {
		// entry allowed through the top edge
		return false
	}

	contact := b.Pos.Sub(n.Mult(d))
	surface := bd.ClosestPoint(b.Pos)
	edge, t := bd.EdgeAt(surface)

	if b.Sleeping {
		if pen <= cfg.Slop {
			walls.AddPressure(edge, t, bd.pressureAmount(cfg, b))
			if n.Y > 0.5 {
				b.Grounded = true
			}
			return true
		}
		// a body pushed into geometry must never stay asleep inside it
		b.Wake()
	}

	vn := b.Vel.Dot(n)
	// inside the skin a body that is not separating is settled onto the surface
	if pen > 0 || vn >= 0 {
		b.Pos = b.Pos.Sub(n.Mult(pen))
	}

	if vn > 0 {
		e := cfg.Restitution
		if vn < cfg.RestingSpeed {
			e = 0
		}
		b.Vel = b.Vel.Sub(n.Mult((1 + e) * vn))
	}

	switch classify(n) {
	case EdgeBottom:
		b.Grounded = true
		b.Vel.X *= 1 - cfg.RollingFriction
		b.Omega = cp.Lerp(b.Omega, b.Vel.X/math.Max(b.Radius, common.Epsilon), cfg.SpinCoupling)
	case EdgeTop:
	case EdgeLeft, EdgeRight:
		// vertical slide along a side wall spins the body
		b.Omega = cp.Lerp(b.Omega, -n.X*b.Vel.Y/math.Max(b.Radius, common.Epsilon), cfg.SpinCoupling*0.5)
	}
	if n.Y > 0 && vn < cfg.RestingSpeed {
		// resting on a lower corner arc carries weight like the floor does
		b.Grounded = true
	}

	strength := 0.0
	if vn > 0 {
		strength = cp.Clamp01(vn / cfg.MaxImpactSpeed)
		b.addSquash(cfg, strength, n)
	}

	if vn > cfg.Wall.ImpactThreshold {
		walls.Impact(edge, t, vn*b.EffectiveMass(cfg)*cfg.Wall.ImpactScale)
		if strength >= cfg.EventThreshold && q != nil {
			q.Push(CollisionEvent{
				Kind:     ContactWall,
				Radius:   b.Radius,
				Strength: strength,
				X:        cp.Clamp01(contact.X / cfg.Width),
				Key:      WallKey(b.ID, edge),
			})
		}
	} else {
		walls.AddPressure(edge, t, bd.pressureAmount(cfg, b))
	}
	return true
}

func (bd *Boundary) pressureAmount(cfg *Config, b *Body) float64 {
	return cp.Clamp01(b.EffectiveMass(cfg) / cfg.BodyMass * cfg.Wall.PressureScale)
}

// classify maps an outward normal to the edge it faces.
func classify(n cp.Vector) Edge {
	if math.Abs(n.Y) >= math.Abs(n.X) {
		if n.Y > 0 {
			return EdgeBottom
		}
		return EdgeTop
	}
	if n.X > 0 {
		return EdgeRight
	}
	return EdgeLeft
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

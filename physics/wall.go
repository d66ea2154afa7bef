package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/common"
)

// Edge names one side of the boundary.
type Edge uint8

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
	edgeCount
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// WallEdge is a 1-D damped spring chain spanning one edge corner to corner.
// Deformation is inward displacement in pixels, held in [0, MaxDeform].
// Index 0 and N-1 are the corners and never move.
type WallEdge struct {
	Deformation []float64
	Velocity    []float64
	Pressure    []float64
}

// NewWallEdge creates a chain of n segments; n is raised to 3 if smaller.
func NewWallEdge(n int) *WallEdge {
	if n < 3 {
		n = 3
	}
	return &WallEdge{
		Deformation: make([]float64, n),
		Velocity:    make([]float64, n),
		Pressure:    make([]float64, n),
	}
}

// Len returns the segment count.
func (w *WallEdge) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Deformation)
}

// Impact adds an inward velocity impulse centered at pos (0..1) with a
// Gaussian falloff. pos is kept CornerMargin away from the ends and the last
// two segments before each corner are attenuated linearly.
func (w *WallEdge) Impact(cfg *WallConfig, pos, intensity float64) {
	if w == nil || intensity <= 0 {
		return
	}
	n := len(w.Deformation)
	pos = cp.Clamp(pos, cfg.CornerMargin, 1-cfg.CornerMargin)
	center := pos * float64(n-1)
	twoSigmaSq := 2 * cfg.ImpactWidth * cfg.ImpactWidth

	for i := 1; i < n-1; i++ {
		dist := float64(i) - center
		weight := math.Exp(-dist * dist / twoSigmaSq)
		if toEnd := min(i, n-1-i); toEnd < 2 {
			weight *= float64(toEnd) / 2
		}
		w.Velocity[i] += intensity * weight
	}
}

// AddPressure spreads a resting weight (0..1) over a small linear window
// around pos. Pressure is cleared every tick and re-accumulated.
func (w *WallEdge) AddPressure(cfg *WallConfig, pos, amount float64) {
	if w == nil || amount <= 0 {
		return
	}
	n := len(w.Pressure)
	center := cp.Clamp01(pos) * float64(n-1)
	width := float64(cfg.PressureWidth + 1)
	lo := max(1, int(math.Floor(center-width)))
	hi := min(n-2, int(math.Ceil(center+width)))
	for i := lo; i <= hi; i++ {
		weight := 1 - math.Abs(float64(i)-center)/width
		if weight <= 0 {
			continue
		}
		w.Pressure[i] = math.Min(w.Pressure[i]+amount*weight, 1)
	}
}

// ClearPressure zeroes the pressure array.
func (w *WallEdge) ClearPressure() {
	if w == nil {
		return
	}
	clear(w.Pressure)
}

// Step integrates every interior segment as a damped spring toward zero.
// Damping grows at small amplitude and under pressure, and is capped at
// critical damping.
func (w *WallEdge) Step(cfg *WallConfig, dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	n := len(w.Deformation)
	k := cfg.Stiffness
	critical := 2 * math.Sqrt(k)

	for i := 1; i < n-1; i++ {
		x := w.Deformation[i]
		v := w.Velocity[i]
		if x == 0 && v == 0 {
			continue
		}
		p := w.Pressure[i]

		amp := cp.Clamp01(math.Abs(x) / cfg.MaxDeform)
		progressive := 1 + cfg.ProgressiveDamping*(1-amp)
		pressure := 1 + p*cfg.SettlingSpeed*cfg.PressureDamping
		c := math.Min(cfg.Damping*progressive*pressure, critical)

		v += (-k*x - c*v) * dt
		x += v * dt

		if x > cfg.MaxDeform {
			x = cfg.MaxDeform
			if v > 0 {
				v = 0
			}
		}
		if x < 0 {
			x = 0
			if v < 0 {
				v = 0
			}
		}

		snap := cfg.Snap * (1 + p*cfg.SettlingSpeed)
		if x < snap && v <= 0 {
			x, v = 0, 0
		}
		w.Deformation[i] = x
		w.Velocity[i] = v
	}
	w.Deformation[0], w.Velocity[0] = 0, 0
	w.Deformation[n-1], w.Velocity[n-1] = 0, 0
}

// Sample returns the deformation at pos (0..1), smoothstep-interpolated
// between the two nearest segments.
func (w *WallEdge) Sample(pos float64) float64 {
	if w == nil {
		return 0
	}
	n := len(w.Deformation)
	f := cp.Clamp01(pos) * float64(n-1)
	i := int(f)
	if i >= n-1 {
		return w.Deformation[n-1]
	}
	s := common.Smoothstep(f - float64(i))
	return cp.Lerp(w.Deformation[i], w.Deformation[i+1], s)
}

// Max returns the largest displacement on the edge.
func (w *WallEdge) Max() float64 {
	if w == nil {
		return 0
	}
	m := 0.0
	for _, d := range w.Deformation {
		m = math.Max(m, math.Abs(d))
	}
	return m
}

// HasDeformation reports whether any segment exceeds threshold.
func (w *WallEdge) HasDeformation(threshold float64) bool {
	return w.Max() > threshold
}

// Reset returns the edge to rest.
func (w *WallEdge) Reset() {
	if w == nil {
		return
	}
	clear(w.Deformation)
	clear(w.Velocity)
	clear(w.Pressure)
}

// WallField holds the four edges of the soft boundary.
type WallField struct {
	cfg   WallConfig
	edges [edgeCount]*WallEdge
}

// NewWallField creates four resting edges.
func NewWallField(cfg WallConfig) *WallField {
	f := &WallField{cfg: cfg}
	for i := range f.edges {
		f.edges[i] = NewWallEdge(cfg.Segments)
	}
	return f
}

// Configure swaps the tuning; edges are rebuilt only if the segment count changes.
func (f *WallField) Configure(cfg WallConfig) {
	if f == nil {
		return
	}
	rebuild := f.edges[0] == nil || f.edges[0].Len() != max(cfg.Segments, 3)
	f.cfg = cfg
	if rebuild {
		for i := range f.edges {
			f.edges[i] = NewWallEdge(cfg.Segments)
		}
	}
}

// Config returns the active tuning.
func (f *WallField) Config() WallConfig {
	if f == nil {
		return WallConfig{}
	}
	return f.cfg
}

// Edge returns the chain for e, or nil.
func (f *WallField) Edge(e Edge) *WallEdge {
	if f == nil || e >= edgeCount {
		return nil
	}
	return f.edges[e]
}

// Impact forwards to the edge.
func (f *WallField) Impact(e Edge, pos, intensity float64) {
	if f == nil {
		return
	}
	f.Edge(e).Impact(&f.cfg, pos, intensity)
}

// AddPressure forwards to the edge.
func (f *WallField) AddPressure(e Edge, pos, amount float64) {
	if f == nil {
		return
	}
	f.Edge(e).AddPressure(&f.cfg, pos, amount)
}

// ClearPressure clears every edge; called once per tick before bodies re-register.
func (f *WallField) ClearPressure() {
	if f == nil {
		return
	}
	for _, e := range f.edges {
		e.ClearPressure()
	}
}

// Step integrates all edges over dt, split into substeps no longer than
// common.WallSubstepDT. Time beyond common.WallMaxSubsteps substeps is dropped.
func (f *WallField) Step(dt float64) {
	if f == nil || dt <= 0 {
		return
	}
	steps := int(math.Ceil(dt / common.WallSubstepDT))
	if steps > common.WallMaxSubsteps {
		steps = common.WallMaxSubsteps
		dt = common.WallSubstepDT * float64(steps)
	}
	h := dt / float64(steps)
	for s := 0; s < steps; s++ {
		for _, e := range f.edges {
			e.Step(&f.cfg, h)
		}
	}
}

// Sample returns the deformation of edge e at pos.
func (f *WallField) Sample(e Edge, pos float64) float64 {
	return f.Edge(e).Sample(pos)
}

// HasDeformation reports whether any edge is visibly deformed.
func (f *WallField) HasDeformation() bool {
	if f == nil {
		return false
	}
	for _, e := range f.edges {
		if e.HasDeformation(f.cfg.VisibleThreshold) {
			return true
		}
	}
	return false
}

// Reset returns every edge to rest.
func (f *WallField) Reset() {
	if f == nil {
		return
	}
	for _, e := range f.edges {
		e.Reset()
	}
}

package physics

// BodyState is the drawing view of one body.
type BodyState struct {
	ID          BodyID  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	R           float64 `json:"r"`
	Theta       float64 `json:"theta"`
	Squash      float64 `json:"squash"`
	SquashAngle float64 `json:"squashAngle"`
	Alpha       float64 `json:"alpha"`
	Sleeping    bool    `json:"sleeping,omitempty"`
}

// Bounds is the collision surface rectangle and its corner radius.
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Corner float64 `json:"corner"`
}

// Frame is a read-only snapshot taken after a scheduler pass. Walls holds
// WallSamples deformation samples per edge, indexed by Edge.
type Frame struct {
	Tick   uint64       `json:"tick"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Bounds Bounds       `json:"bounds"`
	Bodies []BodyState  `json:"bodies"`
	Walls  [4][]float64 `json:"walls"`
}

// WallSamples is the per-edge sample count used by Readback.
const WallSamples = 32

// Samples fills dst with n evenly spaced deformation samples, corner to corner.
func (w *WallEdge) Samples(dst []float64, n int) []float64 {
	dst = dst[:0]
	if n < 2 {
		n = 2
	}
	for i := 0; i < n; i++ {
		dst = append(dst, w.Sample(float64(i)/float64(n-1)))
	}
	return dst
}

// Readback fills f, reusing its slices.
func (s *Simulation) Readback(f *Frame) {
	if s == nil || f == nil {
		return
	}
	f.Tick = s.ticks
	f.Width = s.cfg.Width
	f.Height = s.cfg.Height
	bd := s.boundary
	f.Bounds = Bounds{Left: bd.Left, Top: bd.Top, Right: bd.Right, Bottom: bd.Bottom, Corner: bd.Corner}

	f.Bodies = f.Bodies[:0]
	for i := range s.bodies {
		b := &s.bodies[i]
		f.Bodies = append(f.Bodies, BodyState{
			ID:          b.ID,
			X:           b.Pos.X,
			Y:           b.Pos.Y,
			R:           b.Radius,
			Theta:       b.Theta,
			Squash:      b.Squash,
			SquashAngle: b.SquashAngle,
			Alpha:       b.Alpha,
			Sleeping:    b.Sleeping,
		})
	}
	for e := Edge(0); e < edgeCount; e++ {
		f.Walls[e] = s.walls.Edge(e).Samples(f.Walls[e], WallSamples)
	}
}

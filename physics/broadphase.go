package physics

import (
	"cmp"
	"math"
	"slices"
)

// Pair is a candidate contact between bodies[A] and bodies[B], A < B.
type Pair struct {
	A, B  int
	Depth float64
}

// SpatialHash buckets bodies into square cells sized to the largest possible
// contact distance, so every contact is found in a cell's 3x3 neighborhood.
// Buckets, the occupied-cell list and the pair slice are reused across ticks.
type SpatialHash struct {
	cellSize    float64
	invCellSize float64
	gridWidth   int

	cells    map[int][]int
	occupied []cell
	pairs    []Pair
}

type cell struct {
	key    int
	cx, cy int
}

// NewSpatialHash creates an empty hash.
func NewSpatialHash() *SpatialHash {
	return &SpatialHash{cells: make(map[int][]int)}
}

// ContactDistance is the center distance below which two bodies touch: the
// radius sum plus SpacingRatio times the pair's average diameter.
func ContactDistance(cfg *Config, ra, rb float64) float64 {
	avg := (ra + rb) / 2
	return (ra + rb) + cfg.SpacingRatio*2*avg
}

// CellSize returns 2*maxRadius*(1+spacingRatio).
func CellSize(cfg *Config, maxRadius float64) float64 {
	return 2 * maxRadius * (1 + cfg.SpacingRatio)
}

func (h *SpatialHash) resize(cfg *Config, maxRadius float64) {
	size := CellSize(cfg, maxRadius)
	if size <= 0 {
		size = 1
	}
	// one padding column each side keeps neighbor keys from aliasing
	gridWidth := int(math.Ceil(cfg.Width/size)) + 3
	if size == h.cellSize && gridWidth == h.gridWidth {
		return
	}
	h.cellSize = size
	h.invCellSize = 1 / size
	h.gridWidth = gridWidth
	h.cells = make(map[int][]int)
	h.occupied = h.occupied[:0]
}

func (h *SpatialHash) clear() {
	for _, c := range h.occupied {
		h.cells[c.key] = h.cells[c.key][:0]
	}
	h.occupied = h.occupied[:0]
}

func (h *SpatialHash) cellOf(x, y float64) (int, int) {
	cx := int(math.Floor(x*h.invCellSize)) + 1
	if cx < 0 {
		cx = 0
	} else if cx > h.gridWidth-1 {
		cx = h.gridWidth - 1
	}
	cy := int(math.Floor(y * h.invCellSize))
	return cx, cy
}

func (h *SpatialHash) key(cx, cy int) int {
	return cy*h.gridWidth + cx
}

func (h *SpatialHash) insert(x, y float64, index int) {
	cx, cy := h.cellOf(x, y)
	k := h.key(cx, cy)
	bucket := h.cells[k]
	if len(bucket) == 0 {
		h.occupied = append(h.occupied, cell{key: k, cx: cx, cy: cy})
	}
	h.cells[k] = append(bucket, index)
}

// FindPairs returns every overlapping pair, deepest first. The returned slice
// is owned by the hash and is only valid until the next call.
func (h *SpatialHash) FindPairs(cfg *Config, bodies []Body) []Pair {
	if h == nil {
		return nil
	}
	h.pairs = h.pairs[:0]
	if len(bodies) < 2 {
		return h.pairs
	}

	maxRadius := 0.0
	allAsleep := true
	for i := range bodies {
		if bodies[i].Radius > maxRadius {
			maxRadius = bodies[i].Radius
		}
		if !bodies[i].Sleeping {
			allAsleep = false
		}
	}
	if allAsleep || maxRadius <= 0 {
		return h.pairs
	}

	h.resize(cfg, maxRadius)
	h.clear()
	for i := range bodies {
		h.insert(bodies[i].Pos.X, bodies[i].Pos.Y, i)
	}

	for _, c := range h.occupied {
		cx, cy := c.cx, c.cy
		for _, i := range h.cells[c.key] {
			a := &bodies[i]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx := cx + dx
					if nx < 0 || nx >= h.gridWidth {
						continue
					}
					for _, j := range h.cells[h.key(nx, cy+dy)] {
						if j <= i {
							continue
						}
						b := &bodies[j]
						rSum := ContactDistance(cfg, a.Radius, b.Radius)
						d := b.Pos.Sub(a.Pos)
						distSq := d.LengthSq()
						if distSq >= rSum*rSum {
							continue
						}
						h.pairs = append(h.pairs, Pair{A: i, B: j, Depth: rSum - math.Sqrt(distSq)})
					}
				}
			}
		}
	}

	slices.SortFunc(h.pairs, func(p, q Pair) int {
		if c := cmp.Compare(q.Depth, p.Depth); c != 0 {
			return c
		}
		if c := cmp.Compare(p.A, q.A); c != 0 {
			return c
		}
		return cmp.Compare(p.B, q.B)
	})
	return h.pairs
}

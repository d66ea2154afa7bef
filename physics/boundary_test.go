package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

// 400x300 canvas: surface spans 15..385 x 15..285 with corner radius 21.
func testBoundary() (Config, *Boundary) {
	cfg := testConfig(400, 300)
	return cfg, NewBoundary(&cfg)
}

func TestBoundarySDF(t *testing.T) {
	_, bd := testBoundary()
	cases := []struct {
		name  string
		p     cp.Vector
		wantD float64
		wantN cp.Vector
	}{
		{"center", cp.Vector{X: 200, Y: 150}, -135, cp.Vector{Y: 1}},
		{"on_floor", cp.Vector{X: 200, Y: 285}, 0, cp.Vector{Y: 1}},
		{"on_ceiling", cp.Vector{X: 200, Y: 15}, 0, cp.Vector{Y: -1}},
		{"on_left", cp.Vector{X: 15, Y: 150}, 0, cp.Vector{X: -1}},
		{"outside_right", cp.Vector{X: 395, Y: 150}, 10, cp.Vector{X: 1}},
		{"corner", cp.Vector{X: 364 + 30/math.Sqrt2, Y: 264 + 30/math.Sqrt2}, 9, cp.Vector{X: 1 / math.Sqrt2, Y: 1 / math.Sqrt2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, n := bd.SDF(c.p)
			if math.Abs(d-c.wantD) > 1e-9 {
				t.Fatalf("distance = %v, want %v", d, c.wantD)
			}
			if n.Sub(c.wantN).Length() > 1e-9 {
				t.Fatalf("normal = %v, want %v", n, c.wantN)
			}
		})
	}
}

func TestBoundaryEdgeAt(t *testing.T) {
	_, bd := testBoundary()
	cases := []struct {
		name  string
		p     cp.Vector
		edge  Edge
		wantT float64
	}{
		{"floor_middle", cp.Vector{X: 200, Y: 285}, EdgeBottom, 0.5},
		{"ceiling_left", cp.Vector{X: 52, Y: 15}, EdgeTop, 0.1},
		{"right_wall", cp.Vector{X: 385, Y: 150}, EdgeRight, 0.5},
		// a corner point closer to the floor line belongs to the floor
		{"corner_floor_side", cp.Vector{X: 380, Y: 283}, EdgeBottom, 365.0 / 370.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			edge, pos := bd.EdgeAt(c.p)
			if edge != c.edge || math.Abs(pos-c.wantT) > 1e-9 {
				t.Fatalf("EdgeAt = %v %v, want %v %v", edge, pos, c.edge, c.wantT)
			}
		})
	}
}

func TestBoundaryDistanceGrowsWithDeformation(t *testing.T) {
	cfg, bd := testBoundary()
	walls := NewWallField(cfg.Wall)
	p := cp.Vector{X: 200, Y: 270}
	base, _ := bd.Distance(&cfg, walls, p, 10)

	walls.Edge(EdgeBottom).Deformation[6] = 10
	walls.Edge(EdgeBottom).Deformation[5] = 10
	deformed, _ := bd.Distance(&cfg, walls, p, 10)
	if deformed <= base {
		t.Fatalf("inward deformation should increase distance: %v -> %v", base, deformed)
	}

	far, _ := bd.Distance(&cfg, walls, cp.Vector{X: 200, Y: 150}, 10)
	if far != -135 {
		t.Fatalf("interior point should skip sampling, got %v", far)
	}
}

func TestBoundaryCollideFloor(t *testing.T) {
	cfg, bd := testBoundary()
	walls := NewWallField(cfg.Wall)
	var q EventQueue

	b := NewBody(200, 280, 10)
	b.ID = 7
	b.Vel = cp.Vector{Y: 900}
	if !bd.Collide(&cfg, walls, &b, &q) {
		t.Fatalf("expected contact")
	}
	if b.Pos.Y > 275+1e-9 {
		t.Fatalf("body not pushed out, y = %v", b.Pos.Y)
	}
	if b.Vel.Y >= 0 {
		t.Fatalf("velocity should reflect, got %v", b.Vel.Y)
	}
	if math.Abs(-b.Vel.Y-900*cfg.Restitution) > 1e-9 {
		t.Fatalf("reflected speed %v, want %v", -b.Vel.Y, 900*cfg.Restitution)
	}
	if !b.Grounded || b.Squash <= 0 {
		t.Fatalf("floor hit should ground and squash the body")
	}
	if walls.Edge(EdgeBottom).Velocity[6] <= 0 {
		t.Fatalf("fast hit should register a wall impact")
	}
	if q.Len() != 1 {
		t.Fatalf("expected one wall event, got %d", q.Len())
	}
}

func TestBoundaryRestingContactRegistersPressure(t *testing.T) {
	cfg, bd := testBoundary()
	walls := NewWallField(cfg.Wall)
	b := NewBody(200, 275, 10)
	bd.Collide(&cfg, walls, &b, nil)
	if walls.Edge(EdgeBottom).Pressure[6] <= 0 {
		t.Fatalf("resting body should press on the floor")
	}
	if walls.Edge(EdgeBottom).Velocity[6] != 0 {
		t.Fatalf("resting body must not impact the wall")
	}
}

func TestBoundarySleepingBody(t *testing.T) {
	cfg, bd := testBoundary()
	walls := NewWallField(cfg.Wall)

	b := NewBody(200, 275, 10)
	b.Sleeping = true
	bd.Collide(&cfg, walls, &b, nil)
	if !b.Sleeping || b.Pos.Y != 275 {
		t.Fatalf("resting sleeper should stay put, sleeping %v y %v", b.Sleeping, b.Pos.Y)
	}

	b.Pos.Y = 279
	bd.Collide(&cfg, walls, &b, nil)
	if b.Sleeping {
		t.Fatalf("sleeper pushed into the wall must wake")
	}
	if math.Abs(b.Pos.Y-275) > 1e-9 {
		t.Fatalf("woken body should be pushed out, y = %v", b.Pos.Y)
	}
}

func TestBoundaryOpenTop(t *testing.T) {
	cfg := testConfig(400, 300)
	cfg.OpenTop = true
	bd := NewBoundary(&cfg)
	b := NewBody(200, 0, 10)
	b.Vel = cp.Vector{Y: 300}
	if bd.Collide(&cfg, nil, &b, nil) {
		t.Fatalf("open top should let bodies enter")
	}
	if b.Pos.Y != 0 || b.Vel.Y != 300 {
		t.Fatalf("entering body was modified: %v %v", b.Pos, b.Vel)
	}
}

func TestBoundaryLowerCornerGrounds(t *testing.T) {
	cfg, bd := testBoundary()
	walls := NewWallField(cfg.Wall)

	// resting on the lower-left arc, closer to the side wall than the floor
	angle := 20 * math.Pi / 180
	dir := cp.Vector{X: -math.Cos(angle), Y: math.Sin(angle)}
	corner := cp.Vector{X: bd.Left + bd.Corner, Y: bd.Bottom - bd.Corner}
	r := 8.0
	b := NewBody(0, 0, r)
	b.Pos = corner.Add(dir.Mult(bd.Corner - r + 0.3))

	if !bd.Collide(&cfg, walls, &b, nil) {
		t.Fatalf("expected contact")
	}
	if !b.Grounded {
		t.Fatalf("body resting on a lower corner should be grounded")
	}

	// same arc on the upper side never carries weight
	up := NewBody(0, 0, r)
	top := cp.Vector{X: bd.Left + bd.Corner, Y: bd.Top + bd.Corner}
	up.Pos = top.Add(cp.Vector{X: dir.X, Y: -dir.Y}.Mult(bd.Corner - r + 0.3))
	bd.Collide(&cfg, walls, &up, nil)
	if up.Grounded {
		t.Fatalf("upper corner contact must not ground")
	}
}

func TestBoundarySleepingWithinSlopStaysGrounded(t *testing.T) {
	cfg, bd := testBoundary()
	walls := NewWallField(cfg.Wall)

	b := NewBody(200, bd.Bottom-10+cfg.Slop/2, 10)
	b.Sleeping = true
	if !bd.Collide(&cfg, walls, &b, nil) {
		t.Fatalf("expected contact")
	}
	if !b.Sleeping || !b.Grounded {
		t.Fatalf("sleeper within slop should stay asleep and grounded, sleeping %v grounded %v", b.Sleeping, b.Grounded)
	}
	if walls.Edge(EdgeBottom).Pressure[6] <= 0 {
		t.Fatalf("sleeper should still press on the floor")
	}

	b.Pos.Y = bd.Bottom - 10 + cfg.Slop*3
	bd.Collide(&cfg, walls, &b, nil)
	if b.Sleeping {
		t.Fatalf("sleeper deeper than slop must wake")
	}
}

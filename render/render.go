package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/physics"
)

const (
	discSize   = 64
	wallPoints = 24
	arcPoints  = 8
)

// Palette supplies the scene colors.
type Palette interface {
	BallColor(id physics.BodyID) color.Color
}

// Renderer draws readback frames.
type Renderer struct {
	Background color.Color
	Wall       color.Color
	Balls      Palette

	// WallOffset is how far outside the collision surface the wall line sits;
	// WallWidth is its stroke width.
	WallOffset float64
	WallWidth  float64

	disc *ebiten.Image
	path []cp.Vector
}

func New(background, wall color.Color, balls Palette) *Renderer {
	return &Renderer{
		Background: background,
		Wall:       wall,
		Balls:      balls,
		WallOffset: 4,
		WallWidth:  6,
	}
}

// Configure takes the wall line geometry from cfg.
func (r *Renderer) Configure(cfg physics.Config) {
	r.WallOffset = cfg.WallGap + cfg.WallThickness/2
	r.WallWidth = cfg.WallThickness
}

func (r *Renderer) Draw(screen *ebiten.Image, f *physics.Frame) {
	if r.Background != nil {
		screen.Fill(r.Background)
	}
	r.drawWalls(screen, f)
	for _, b := range f.Bodies {
		r.drawBody(screen, b)
	}
}

func (r *Renderer) drawWalls(screen *ebiten.Image, f *physics.Frame) {
	if r.Wall == nil {
		return
	}
	centers, angles := Corners(f.Bounds)
	radius := f.Bounds.Corner + r.WallOffset
	for i := range centers {
		r.path = CornerArc(r.path[:0], centers[i], radius, angles[i], arcPoints)
		r.stroke(screen)
	}
	for e := physics.EdgeTop; e <= physics.EdgeRight; e++ {
		r.path = WallPath(r.path[:0], f, e, r.WallOffset, wallPoints)
		r.stroke(screen)
	}
}

func (r *Renderer) stroke(screen *ebiten.Image) {
	for i := 1; i < len(r.path); i++ {
		a, b := r.path[i-1], r.path[i]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(r.WallWidth), r.Wall, true)
	}
}

func (r *Renderer) discImage() *ebiten.Image {
	if r.disc == nil {
		r.disc = ebiten.NewImage(discSize, discSize)
		vector.FillCircle(r.disc, discSize/2, discSize/2, discSize/2, color.White, true)
	}
	return r.disc
}

func (r *Renderer) drawBody(screen *ebiten.Image, b physics.BodyState) {
	if b.R <= 0 || b.Alpha <= 0 {
		return
	}
	sx, sy, angle := Ellipse(b)
	scale := 2 * b.R / discSize

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-discSize/2, -discSize/2)
	op.GeoM.Scale(scale*sx, scale*sy)
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(b.X, b.Y)

	var c color.Color = color.White
	if r.Balls != nil {
		c = r.Balls.BallColor(b.ID)
	}
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(math.Min(b.Alpha, 1)))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(r.discImage(), op)

	// spin marker
	if b.R >= 6 {
		tip := cp.Vector{X: b.X, Y: b.Y}.Add(cp.ForAngle(b.Theta).Mult(b.R * 0.6))
		vector.StrokeLine(screen, float32(b.X), float32(b.Y), float32(tip.X), float32(tip.Y), 1.5, color.RGBA{A: 90}, true)
	}
}

package main

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/bouncyballs/physics"
	"github.com/milk9111/bouncyballs/render"
	"github.com/milk9111/bouncyballs/settings"
)

const (
	// cellW and cellH are the canvas pixels covered by one terminal cell.
	cellW = 8.0
	cellH = 16.0

	wallRune = '█'
	ballRune = '●'
	dotRune  = '•'
)

// View draws readback frames onto a terminal screen.
type View struct {
	Palette settings.Palette
}

// CanvasSize returns the canvas extents in pixels for a screen of cols x rows.
func CanvasSize(cols, rows int) (float64, float64) {
	return float64(cols) * cellW, float64(rows) * cellH
}

// CellAt maps a terminal cell to the canvas point at its center.
func CellAt(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * cellW, (float64(row) + 0.5) * cellH
}

func toCell(x, y float64) (int, int) {
	return int(math.Floor(x / cellW)), int(math.Floor(y / cellH))
}

func tcellColor(c color.Color) tcell.Color {
	if c == nil {
		return tcell.ColorDefault
	}
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

func (v *View) Draw(screen tcell.Screen, f *physics.Frame) {
	bg := tcell.StyleDefault.Background(tcellColor(v.Palette.Background))
	screen.Fill(' ', bg)

	wall := bg.Foreground(tcellColor(v.Palette.Wall))
	for e := physics.EdgeTop; e <= physics.EdgeRight; e++ {
		for _, p := range render.WallPath(nil, f, e, cellW/2, 256) {
			col, row := toCell(p.X, p.Y)
			screen.SetContent(col, row, wallRune, nil, wall)
		}
	}

	for _, b := range f.Bodies {
		style := bg.Foreground(tcellColor(v.Palette.BallColor(b.ID)))
		v.drawBody(screen, b, style)
	}
}

// drawBody fills every cell whose center lies inside the body; bodies smaller
// than a cell still get one dot.
func (v *View) drawBody(screen tcell.Screen, b physics.BodyState, style tcell.Style) {
	c0, r0 := toCell(b.X-b.R, b.Y-b.R)
	c1, r1 := toCell(b.X+b.R, b.Y+b.R)
	drawn := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			x, y := CellAt(col, row)
			if math.Hypot(x-b.X, y-b.Y) <= b.R {
				screen.SetContent(col, row, ballRune, nil, style)
				drawn = true
			}
		}
	}
	if !drawn {
		col, row := toCell(b.X, b.Y)
		screen.SetContent(col, row, dotRune, nil, style)
	}
}

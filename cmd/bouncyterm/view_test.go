package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/bouncyballs/physics"
	"github.com/milk9111/bouncyballs/settings"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func frameFor(cols, rows int) *physics.Frame {
	w, h := CanvasSize(cols, rows)
	f := &physics.Frame{
		Width:  w,
		Height: h,
		Bounds: physics.Bounds{Left: 16, Top: 16, Right: w - 16, Bottom: h - 16, Corner: 8},
	}
	for e := range f.Walls {
		f.Walls[e] = make([]float64, physics.WallSamples)
	}
	return f
}

func TestCellMapping(t *testing.T) {
	w, h := CanvasSize(80, 24)
	if w != 640 || h != 384 {
		t.Fatalf("canvas = %vx%v", w, h)
	}
	x, y := CellAt(2, 3)
	col, row := toCell(x, y)
	if col != 2 || row != 3 {
		t.Fatalf("round trip = %d,%d", col, row)
	}
}

func TestDrawBodiesAndWalls(t *testing.T) {
	screen := newScreen(t, 80, 24)
	f := frameFor(80, 24)
	f.Bodies = []physics.BodyState{
		{ID: 1, X: 320, Y: 192, R: 24, Alpha: 1},
		{ID: 2, X: 100, Y: 100, R: 2, Alpha: 1},
	}

	view := &View{Palette: settings.PaletteSpec{}.Resolve()}
	view.Draw(screen, f)
	screen.Show()

	mainc, _, _, _ := screen.GetContent(40, 12)
	if mainc != ballRune {
		t.Fatalf("cell under the big body = %q", mainc)
	}
	col, row := toCell(100, 100)
	mainc, _, _, _ = screen.GetContent(col, row)
	if mainc != dotRune {
		t.Fatalf("tiny body should draw a dot, got %q", mainc)
	}
	mainc, _, _, _ = screen.GetContent(40, 0)
	if mainc != wallRune {
		t.Fatalf("top wall missing, got %q", mainc)
	}
	mainc, _, _, _ = screen.GetContent(20, 8)
	if mainc != ' ' {
		t.Fatalf("empty cell = %q", mainc)
	}
}

package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bouncyballs/settings"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// exportName is written next to the other specs by the Save button.
const exportName = "exported.yaml"

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// tunable is one +/- row of the panel.
type tunable struct {
	name  string
	step  float64
	lo    float64
	hi    float64
	get   func(spec settings.SimulationSpec) float64
	set   func(spec *settings.SimulationSpec, v float64)
	label *widget.Label
}

// Panel is the live tuning overlay.
type Panel struct {
	game     *Game
	root     *widget.Container
	body     *widget.Container
	modeBtn  *widget.Button
	status   *widget.Label
	tunables []*tunable
}

var tunables = []tunable{
	{
		name: "Bounciness", step: 0.05, lo: 0, hi: 1,
		get: func(s settings.SimulationSpec) float64 { return *s.Physics.Restitution },
		set: func(s *settings.SimulationSpec, v float64) { s.Physics.Restitution = settings.Float(v) },
	},
	{
		name: "Friction", step: 0.05, lo: 0, hi: 1,
		get: func(s settings.SimulationSpec) float64 { return *s.Physics.Friction },
		set: func(s *settings.SimulationSpec, v float64) { s.Physics.Friction = settings.Float(v) },
	},
	{
		name: "Gravity", step: 200, lo: 0, hi: 6000,
		get: func(s settings.SimulationSpec) float64 { return *s.Physics.Gravity },
		set: func(s *settings.SimulationSpec, v float64) { s.Physics.Gravity = settings.Float(v) },
	},
	{
		name: "Wall settling", step: 0.25, lo: 0, hi: 5,
		get: func(s settings.SimulationSpec) float64 { return *s.Walls.SettlingSpeed },
		set: func(s *settings.SimulationSpec, v float64) { s.Walls.SettlingSpeed = settings.Float(v) },
	},
	{
		name: "Wall stiffness", step: 50, lo: 50, hi: 3000,
		get: func(s settings.SimulationSpec) float64 { return *s.Walls.Stiffness },
		set: func(s *settings.SimulationSpec, v float64) { s.Walls.Stiffness = settings.Float(v) },
	},
}

// NewPanelUI builds the tuning panel anchored to the top-left corner. It uses
// colored nine-slices and the built-in basic font, so no theme fonts are
// needed.
func NewPanelUI(g *Game) (*ebitenui.UI, *Panel) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnPressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	textColor := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: textColor}
	labelColor := &widget.LabelColor{Idle: textColor, Disabled: color.Gray{Y: 140}}

	p := &Panel{game: g}

	newButton := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressed}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(28, 22)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}
	newRow := func() *widget.Container {
		return widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			)),
		)
	}

	p.body = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 14, Bottom: 14, Left: 16, Right: 16}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)

	p.body.AddChild(widget.NewText(
		widget.TextOpts.Text("Bouncy balls", &face, textColor),
	))

	p.modeBtn = newButton("Mode", g.cycleMode)
	modeRow := newRow()
	modeRow.AddChild(p.modeBtn)
	modeRow.AddChild(newButton("Reset", g.reset))
	p.body.AddChild(modeRow)

	for i := range tunables {
		t := tunables[i]
		t.label = widget.NewLabel(widget.LabelOpts.Text(t.name, &face, labelColor))
		row := newRow()
		row.AddChild(newButton("-", func() { p.nudge(&t, -1) }))
		row.AddChild(newButton("+", func() { p.nudge(&t, 1) }))
		row.AddChild(t.label)
		p.body.AddChild(row)
		p.tunables = append(p.tunables, &t)
	}

	exportRow := newRow()
	exportRow.AddChild(newButton("Copy config", p.copyConfig))
	exportRow.AddChild(newButton("Save config", p.saveConfig))
	p.body.AddChild(exportRow)

	p.status = widget.NewLabel(widget.LabelOpts.Text("Tab hides this panel", &face, labelColor))
	p.body.AddChild(p.status)

	p.root = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	p.root.AddChild(p.body)

	p.Refresh()
	return &ebitenui.UI{Container: p.root}, p
}

func (p *Panel) nudge(t *tunable, dir float64) {
	p.game.tune(func(spec *settings.SimulationSpec) {
		resolved := spec.Resolved()
		v := cp.Clamp(t.get(resolved)+dir*t.step, t.lo, t.hi)
		t.set(spec, v)
	})
}

// Refresh re-reads every value shown from the running scene.
func (p *Panel) Refresh() {
	if p == nil {
		return
	}
	resolved := p.game.scene.Spec().Resolved()
	for _, t := range p.tunables {
		t.label.Label = fmt.Sprintf("%s: %.2f", t.name, t.get(resolved))
	}
	if text := p.modeBtn.Text(); text != nil {
		text.Label = fmt.Sprintf("Mode: %s", p.game.scene.Mode().Kind())
	}
}

// Contains reports whether the screen point is over the panel.
func (p *Panel) Contains(x, y int) bool {
	if p == nil || p.body == nil {
		return false
	}
	return image.Pt(x, y).In(p.body.GetWidget().Rect)
}

func (p *Panel) copyConfig() {
	data, err := p.game.scene.Export()
	if err != nil {
		p.setStatus("export failed: %v", err)
		return
	}
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		p.setStatus("clipboard unavailable: %v", clipboardErr)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	p.setStatus("config copied")
}

func (p *Panel) saveConfig() {
	data, err := p.game.scene.Export()
	if err != nil {
		p.setStatus("export failed: %v", err)
		return
	}
	path := filepath.Join(settings.Dir, exportName)
	if err := os.MkdirAll(settings.Dir, 0o755); err != nil {
		p.setStatus("save failed: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		p.setStatus("save failed: %v", err)
		return
	}
	p.setStatus("saved %s", path)
}

func (p *Panel) setStatus(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	p.status.Label = msg
}

package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/bouncyballs/modes"
	"github.com/milk9111/bouncyballs/physics"
	"github.com/milk9111/bouncyballs/render"
	"github.com/milk9111/bouncyballs/scene"
	"github.com/milk9111/bouncyballs/settings"
	"github.com/milk9111/bouncyballs/sound"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Options struct {
	SpecName string
	Mode     string
	Mute     bool
	Watch    bool
}

type Game struct {
	specName string
	dpr      float64
	width    float64
	height   float64

	scene    *scene.Scene
	renderer *render.Renderer
	sink     *sound.Sink
	watcher  *settings.Watcher

	ui        *ebitenui.UI
	panel     *Panel
	showPanel bool
	paused    bool
	debug     bool

	last  time.Time
	frame *physics.Frame
}

func NewGame(opts Options) (*Game, error) {
	spec, err := settings.LoadSimulationSpec(opts.SpecName)
	if err != nil {
		return nil, err
	}
	if opts.Mode != "" {
		if _, err := modes.ParseKind(opts.Mode); err != nil {
			return nil, err
		}
		spec.Mode = opts.Mode
	}

	dpr := ebiten.Monitor().DeviceScaleFactor()
	if dpr <= 0 {
		dpr = 1
	}
	width, height := baseWidth*dpr, baseHeight*dpr

	sc, err := scene.New(*spec, width, height, dpr)
	if err != nil {
		return nil, err
	}

	g := &Game{
		specName: opts.SpecName,
		dpr:      dpr,
		width:    width,
		height:   height,
		scene:    sc,
	}
	g.applyLook()

	if !opts.Mute {
		g.sink = sound.NewSink(spec.SoundConfig(), sound.NewPlayer())
		sc.Sim().SetSink(g.sink)
	}

	if opts.Watch {
		w, err := settings.NewWatcher(settings.Dir, filepath.Join(settings.Dir, "scripts"))
		if err != nil {
			log.Printf("settings watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.ui, g.panel = NewPanelUI(g)
	g.frame = sc.Snapshot()
	return g, nil
}

// applyLook refreshes everything drawn from the spec.
func (g *Game) applyLook() {
	spec := g.scene.Spec()
	pal := spec.Palette.Resolve()
	if g.renderer == nil {
		g.renderer = render.New(pal.Background, pal.Wall, pal)
	} else {
		g.renderer.Background, g.renderer.Wall, g.renderer.Balls = pal.Background, pal.Wall, pal
	}
	g.renderer.Configure(g.scene.Sim().Config())
	if g.sink != nil {
		g.sink.SetConfig(spec.SoundConfig())
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := 0.0
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	g.pollWatcher()
	g.handleKeys()

	if g.showPanel {
		g.ui.Update()
	}

	g.updatePointer()

	if g.paused {
		dt = 0
	}
	g.frame = g.scene.Frame(dt)
	if g.sink != nil {
		g.sink.EndFrame()
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showPanel = !g.showPanel
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.cycleMode()
	}
}

func (g *Game) updatePointer() {
	x, y := ebiten.CursorPosition()
	active := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if g.showPanel && g.panel.Contains(x, y) {
		active = false
	}
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y = ebiten.TouchPosition(ids[0])
		active = true
	}
	if g.scene.Mode().Kind() == modes.Pointer {
		// the pointer mode follows the cursor without a click
		active = true
	}
	g.scene.SetPointer(float64(x), float64(y), active)
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(change)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("settings watcher: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(change settings.Change) {
	switch change.Kind {
	case settings.ScriptChanged:
		if g.scene.Mode().Kind() != modes.Script {
			return
		}
		log.Printf("script changed: %s", change.Path)
		g.reset()
	case settings.SpecChanged:
		if filepath.Base(change.Path) != filepath.Base(g.specName) {
			return
		}
		if err := g.scene.Reload(g.specName); err != nil {
			log.Printf("reload %s: %v", g.specName, err)
			return
		}
		log.Printf("reloaded %s", g.specName)
		g.applyLook()
		g.panel.Refresh()
	}
}

func (g *Game) reset() {
	if err := g.scene.Reset(); err != nil {
		log.Printf("reset: %v", err)
	}
	if g.sink != nil {
		g.sink.Reset()
	}
	g.last = time.Time{}
}

func (g *Game) cycleMode() {
	kind, err := g.scene.NextMode()
	if err != nil {
		log.Printf("mode: %v", err)
	}
	log.Printf("mode: %s", kind)
	g.applyLook()
	g.panel.Refresh()
	g.last = time.Time{}
}

// tune applies a spec edit from the panel.
func (g *Game) tune(fn func(spec *settings.SimulationSpec)) {
	if err := g.scene.Tune(fn); err != nil {
		log.Printf("tune: %v", err)
		return
	}
	g.applyLook()
	g.panel.Refresh()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.frame)

	if g.debug {
		sim := g.scene.Sim()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  tick: %d  bodies: %d  awake: %d  steps: %d  mode: %s",
			ebiten.ActualFPS(), g.frame.Tick, sim.Len(), sim.Awake(), sim.Scheduler().LastSteps(), g.scene.Mode().Kind()))
	}
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "paused", 10, int(g.height)-20)
	}
	if g.showPanel {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := outsideWidth*g.dpr, outsideHeight*g.dpr
	if w != g.width || h != g.height {
		g.width, g.height = w, h
		g.scene.Resize(w, h)
	}
	return w, h
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

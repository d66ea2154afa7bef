package main

import (
	"flag"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/bouncyballs/modes"
	"github.com/milk9111/bouncyballs/scene"
	"github.com/milk9111/bouncyballs/settings"
)

func main() {
	specName := flag.String("spec", settings.DefaultSpec, "simulation spec in settings/")
	modeName := flag.String("mode", "", "override the spec's mode")
	fps := flag.Int("fps", 30, "frames per second")
	flag.Parse()

	spec, err := settings.LoadSimulationSpec(*specName)
	if err != nil {
		log.Fatal(err)
	}
	if *modeName != "" {
		if _, err := modes.ParseKind(*modeName); err != nil {
			log.Fatal(err)
		}
		spec.Mode = *modeName
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	cols, rows := screen.Size()
	w, h := CanvasSize(cols, rows)
	sc, err := scene.New(*spec, w, h, 1)
	if err != nil {
		screen.Fini()
		log.Fatal(err)
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	view := &View{Palette: spec.Palette.Resolve()}
	ticker := time.NewTicker(time.Second / time.Duration(max(*fps, 1)))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case ev := <-events:
			if !handle(ev, sc, screen) {
				close(quit)
				return
			}
		case now := <-ticker.C:
			f := sc.Frame(now.Sub(last).Seconds())
			last = now
			view.Draw(screen, f)
			screen.Show()
		}
	}
}

// handle applies one terminal event and reports whether to keep running.
func handle(ev tcell.Event, sc *scene.Scene, screen tcell.Screen) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return false
		case ev.Rune() == ' ':
			if _, err := sc.NextMode(); err != nil {
				log.Printf("mode: %v", err)
			}
		case ev.Rune() == 'r':
			if err := sc.Reset(); err != nil {
				log.Printf("reset: %v", err)
			}
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := CellAt(col, row)
		sc.SetPointer(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		cols, rows := ev.Size()
		sc.Resize(CanvasSize(cols, rows))
		screen.Sync()
	}
	return true
}

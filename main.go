package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bouncyballs/settings"
)

func main() {
	specName := flag.String("spec", settings.DefaultSpec, "simulation spec in settings/ (embedded copy used if missing on disk)")
	modeName := flag.String("mode", "", "override the spec's mode (pit, weightless, vortex, pointer, script)")
	mute := flag.Bool("mute", false, "disable collision sounds")
	watch := flag.Bool("watch", true, "reload settings/ files when they change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("bouncy balls")

	game, err := NewGame(Options{
		SpecName: *specName,
		Mode:     *modeName,
		Mute:     *mute,
		Watch:    *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

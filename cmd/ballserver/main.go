package main

import (
	_ "embed"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/milk9111/bouncyballs/scene"
	"github.com/milk9111/bouncyballs/settings"
)

//go:embed index.html
var indexHTML []byte

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	specName := flag.String("spec", settings.DefaultSpec, "simulation spec in settings/")
	width := flag.Float64("w", 1280, "canvas width")
	height := flag.Float64("h", 720, "canvas height")
	flag.Parse()

	spec, err := settings.LoadSimulationSpec(*specName)
	if err != nil {
		log.Fatal(err)
	}
	sc, err := scene.New(*spec, *width, *height, 1)
	if err != nil {
		log.Fatal(err)
	}

	srv := NewServer(sc)
	done := make(chan struct{})
	go srv.Run(done)

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Handler()}
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		close(done)
		_ = httpSrv.Close()
	}()

	log.Printf("ballserver listening on %s", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"log/slog"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/lucasvidela/visuales/internal/adapter/audio/synth"
	"github.com/lucasvidela/visuales/internal/adapter/audio/wavfile"
	"github.com/lucasvidela/visuales/internal/adapter/repository/memory"
	fyneui "github.com/lucasvidela/visuales/internal/adapter/ui/fyne"
	"github.com/lucasvidela/visuales/internal/app"
	"github.com/lucasvidela/visuales/internal/logger"
	"github.com/lucasvidela/visuales/internal/ports"
	"github.com/lucasvidela/visuales/internal/preset"
	"github.com/lucasvidela/visuales/internal/service"
)

func main() {
	wavPath := flag.String("wav", "", "analyze a WAV file instead of the demo loop")
	fps := flag.Int("fps", service.DefaultTargetFPS, "target frame rate")
	flag.Parse()

	log := logger.NewLogger(logger.DefaultConfig())
	log.Info("starting", slog.String("version", app.GetVersionInfo().FullString()))

	var source ports.AudioSource
	if *wavPath != "" {
		wavSource, err := wavfile.Open(*wavPath)
		if err != nil {
			log.Error("cannot open WAV file", slog.String("path", *wavPath), slog.Any("error", err))
			os.Exit(1)
		}
		source = wavSource
	} else {
		source = synth.New()
	}

	fyneApp := fyneapp.NewWithID("com.lucasvidela.visuales")
	surface := fyneui.NewRasterSurface(640, 400)
	repo := memory.NewConfigRepository(fyneApp.Preferences())

	facade := app.New(app.Options{
		Logger:      log,
		Surface:     surface,
		Catalog:     preset.Definitions(),
		Repository:  repo,
		AudioSource: source,
		TargetFPS:   *fps,
	})

	if err := facade.Start(); err != nil {
		log.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
	facade.RestoreSession()

	window := fyneui.NewMainWindow(fyneApp, facade, surface)
	window.ShowAndRun()
}

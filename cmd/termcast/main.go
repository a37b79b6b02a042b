// Command termcast renders the raycaster into a terminal.
package main

import (
	"flag"
	"os"
	"time"

	"raycaster/internal/config"
	"raycaster/internal/logger"
	"raycaster/internal/monitoring"
	"raycaster/internal/simulation"
	"raycaster/internal/termview"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

const tick = 33 * time.Millisecond

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	logPath := flag.String("log", "", "log file; logging goes nowhere when empty")
	flag.Parse()

	cfg := config.MustLoadConfig(*configPath)
	setupLogging(cfg, *logPath)

	monitor := monitoring.NewPerformanceMonitor()
	sim, err := simulation.FromConfig(cfg, monitor)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to start")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to create screen")
	}
	if err := screen.Init(); err != nil {
		logger.Log.WithError(err).Fatal("failed to init screen")
	}
	defer screen.Fini()
	screen.HideCursor()

	run(screen, sim, termview.NewComposer(screen, cfg, sim.Tiles(), sim.Atlas()), monitor)
}

func setupLogging(cfg *config.Config, path string) {
	opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if path == "" {
		// stderr would draw over the terminal frame
		opts.Level = "panic"
	}
	if err := logger.Setup(opts); err != nil {
		logger.Log.WithError(err).Fatal("invalid logging config")
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to open log file")
		}
		logger.Log.SetOutput(f)
	}
}

func run(screen tcell.Screen, sim *simulation.Simulation, composer *termview.Composer, monitor *monitoring.PerformanceMonitor) {
	log := logger.Component("termcast")
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	sim.SetViewport(screen.Size())
	var keys termview.KeyState

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if keys.Press(ev, time.Now()) {
					close(quit)
					return
				}
			case *tcell.EventResize:
				screen.Sync()
				w, h := ev.Size()
				sim.SetViewport(w, h)
				log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("resized")
			}
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), 0.1)
			last = now
			sim.Update(dt, keys.Snapshot(now))

			frameTimer := monitor.StartFrame()
			if err := sim.Render(composer); err != nil {
				log.WithError(err).Error("render failed")
			}
			frameTimer.EndFrame()
		}
	}
}

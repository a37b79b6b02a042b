package main

import (
	"flag"

	"raycaster/internal/config"
	"raycaster/internal/game"
	"raycaster/internal/logger"
	"raycaster/internal/monitoring"
	"raycaster/internal/simulation"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)

	if err := logger.Setup(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		logger.Log.WithError(err).Fatal("invalid logging config")
	}

	monitor := monitoring.NewPerformanceMonitor()
	sim, err := simulation.FromConfig(cfg, monitor)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to start")
	}

	if err := game.Run(sim); err != nil {
		logger.Log.WithError(err).Fatal("game exited with error")
	}
}

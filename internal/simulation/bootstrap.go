package simulation

import (
	"fmt"

	"raycaster/internal/config"
	"raycaster/internal/logger"
	"raycaster/internal/monitoring"
	"raycaster/internal/world"
)

// FromConfig loads the tile table and map named by cfg and builds a
// simulation around them. A missing or broken tile table is logged and the
// built-in table is used instead. monitor may be nil.
func FromConfig(cfg *config.Config, monitor *monitoring.PerformanceMonitor) (*Simulation, error) {
	log := logger.Component("bootstrap")

	tiles := world.NewTileManager()
	if cfg.Map.Tiles != "" {
		if err := tiles.LoadTileConfig(cfg.Map.Tiles); err != nil {
			log.WithError(err).Warn("failed to load tile config, using built-in tiles")
			tiles = world.NewTileManager()
		}
	}
	world.GlobalTileManager = tiles

	level, err := world.LoadLevel(cfg.Map.File, tiles)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", cfg.Map.File, err)
	}
	return New(cfg, tiles, level, monitor)
}

package game

import (
	"fmt"

	"raycaster/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens the window described by the simulation's config and blocks
// until it is closed or Esc is pressed.
func Run(sim *simulation.Simulation) error {
	cfg := sim.Config()

	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(cfg.Display.Fullscreen)
	if cfg.Display.TPS > 0 {
		ebiten.SetTPS(cfg.Display.TPS)
	}

	if err := ebiten.RunGame(NewGameLoop(sim)); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

package game

import (
	"raycaster/internal/game/keytracker"
	"raycaster/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key bindings for held movement keys.
var (
	forwardKeys     = []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}
	backwardKeys    = []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}
	rotateLeftKeys  = []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}
	rotateRightKeys = []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}
	strafeLeftKeys  = []ebiten.Key{ebiten.KeyQ}
	strafeRightKeys = []ebiten.Key{ebiten.KeyE}
)

// Toggles are the one-shot actions of a frame.
type Toggles struct {
	Minimap bool
	HUD     bool
	Quit    bool
}

// InputHandler turns ebiten keyboard state into simulation input
type InputHandler struct {
	minimapKeyTracker keytracker.KeyStateTracker
	hudKeyTracker     keytracker.KeyStateTracker
}

// NewInputHandler creates a new input handler
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Poll reads the keyboard for the current frame
func (ih *InputHandler) Poll() (simulation.InputSnapshot, Toggles) {
	toggles := Toggles{
		Minimap: ih.minimapKeyTracker.IsKeyJustPressed(ebiten.KeyTab),
		HUD:     ih.hudKeyTracker.IsKeyJustPressed(ebiten.KeyF1),
		Quit:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	return snapshotFromKeys(ebiten.IsKeyPressed), toggles
}

// snapshotFromKeys maps held keys to movement intents.
func snapshotFromKeys(pressed func(ebiten.Key) bool) simulation.InputSnapshot {
	held := func(keys []ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return simulation.InputSnapshot{
		Forward:     held(forwardKeys),
		Backward:    held(backwardKeys),
		RotateLeft:  held(rotateLeftKeys),
		RotateRight: held(rotateRightKeys),
		StrafeLeft:  held(strafeLeftKeys),
		StrafeRight: held(strafeRightKeys),
	}
}

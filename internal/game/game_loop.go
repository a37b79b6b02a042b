package game

import (
	"time"

	"raycaster/internal/logger"
	"raycaster/internal/monitoring"
	"raycaster/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// maxFrameDelta caps dt after a stall so the camera cannot jump through walls.
const maxFrameDelta = 0.1

// GameLoop drives a Simulation from ebiten's update and draw callbacks
type GameLoop struct {
	sim          *simulation.Simulation
	inputHandler *InputHandler
	ui           *UISystem
	renderer     *Renderer
	monitor      *monitoring.PerformanceMonitor
	log          *logrus.Entry

	lastUpdate         time.Time
	lastAlert          time.Time
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	perfLowFpsSince    time.Time
	perfLastLog        time.Time
}

// NewGameLoop creates a new game loop manager
func NewGameLoop(sim *simulation.Simulation) *GameLoop {
	monitor := sim.Monitor()
	if monitor == nil {
		monitor = monitoring.NewPerformanceMonitor()
	}
	return &GameLoop{
		sim:          sim,
		inputHandler: NewInputHandler(),
		ui:           NewUISystem(sim),
		renderer:     NewRenderer(sim.Config(), sim.Atlas()),
		monitor:      monitor,
		log:          logger.Component("game_loop"),
	}
}

// Update handles input and camera movement for one tick
func (gl *GameLoop) Update() error {
	start := time.Now()
	defer func() { gl.lastUpdateDuration = time.Since(start) }()

	snapshot, toggles := gl.inputHandler.Poll()
	if toggles.Quit {
		return ebiten.Termination
	}
	gl.ui.Apply(toggles)
	gl.sim.Update(gl.delta(), snapshot)
	gl.checkAlerts()
	gl.maybeLogPerfDrop()
	return nil
}

// delta returns seconds since the previous update, falling back to the
// nominal tick length on the first call.
func (gl *GameLoop) delta() float64 {
	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !gl.lastUpdate.IsZero() {
		dt = now.Sub(gl.lastUpdate).Seconds()
	}
	gl.lastUpdate = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	return dt
}

// Draw handles all rendering for one frame
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	start := time.Now()
	frameTimer := gl.monitor.StartFrame()
	defer func() {
		frameTimer.EndFrame()
		gl.lastDrawDuration = time.Since(start)
	}()

	gl.renderer.SetTarget(screen)
	if err := gl.sim.Render(gl.renderer); err != nil {
		gl.log.WithError(err).Error("render failed")
		return
	}
	gl.ui.Draw(screen)
}

// checkAlerts logs performance alerts at most once every few seconds
func (gl *GameLoop) checkAlerts() {
	if time.Since(gl.lastAlert) < 5*time.Second {
		return
	}
	for _, alert := range gl.monitor.CheckPerformanceAlerts() {
		gl.lastAlert = time.Now()
		gl.log.WithFields(logrus.Fields{
			"type":      alert.Type,
			"value":     alert.Value,
			"threshold": alert.Threshold,
		}).Warn(alert.Message)
	}
}

// Layout returns the screen dimensions
func (gl *GameLoop) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gl.sim.Viewport()
}

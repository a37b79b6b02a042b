package simulation

import (
	"errors"
	"fmt"

	"raycaster/internal/camera"
	"raycaster/internal/collision"
	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/logger"
	"raycaster/internal/monitoring"
	"raycaster/internal/raycast"
	"raycaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// ErrNoLevel is returned when rendering before a level was loaded.
var ErrNoLevel = errors.New("no level loaded")

// InputSnapshot is the held-key state for one update.
type InputSnapshot struct {
	Forward     bool
	Backward    bool
	RotateLeft  bool
	RotateRight bool
	StrafeLeft  bool
	StrafeRight bool
}

// Any reports whether any movement key is held.
func (in InputSnapshot) Any() bool {
	return in.Forward || in.Backward || in.RotateLeft || in.RotateRight || in.StrafeLeft || in.StrafeRight
}

// Simulation owns the mutable state of a running renderer: the camera, the
// current level and the frame buffers. Update mutates, Render only reads.
type Simulation struct {
	cfg     *config.Config
	tiles   *world.TileManager
	atlas   *graphics.Atlas
	monitor *monitoring.PerformanceMonitor
	log     *logrus.Entry

	level      *world.Level
	camera     *camera.Camera
	builder    *raycast.Builder
	billboards []raycast.Billboard

	width  int
	height int
}

// New creates a simulation and loads level into it. monitor may be nil.
func New(cfg *config.Config, tiles *world.TileManager, level *world.Level, monitor *monitoring.PerformanceMonitor) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("simulation: nil config")
	}
	if tiles == nil {
		tiles = world.NewTileManager()
	}
	s := &Simulation{
		cfg:     cfg,
		tiles:   tiles,
		atlas:   graphics.NewAtlas(cfg.GetTextureSize(), cfg.Map.TextureDirs...),
		monitor: monitor,
		log:     logger.Component("simulation"),
		width:   cfg.GetScreenWidth(),
		height:  cfg.GetScreenHeight(),
	}
	s.atlas.SetProceduralFallback(cfg.Render.ProceduralTextures)
	if err := s.atlas.LoadAll(tiles.Textures()...); err != nil {
		return nil, fmt.Errorf("tile textures: %w", err)
	}
	if err := s.LoadLevel(level); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadLevel replaces the grid, decorations and camera pose wholesale.
func (s *Simulation) LoadLevel(level *world.Level) error {
	if level == nil || level.Grid == nil {
		return ErrNoLevel
	}

	start := mgl64.Vec2{s.cfg.Camera.StartX, s.cfg.Camera.StartY}
	if level.HasStart {
		start = level.Start
	}
	dir := mgl64.Vec2{s.cfg.Camera.Direction[0], s.cfg.Camera.Direction[1]}
	cam, err := camera.New(start, dir, s.cfg.GetCameraFOV())
	if err != nil {
		return fmt.Errorf("level %s: %w", level.Name, err)
	}
	if !collision.CanEnter(level.Grid, start.X(), start.Y()) {
		s.log.WithFields(logrus.Fields{
			"map": level.Name,
			"x":   start.X(),
			"y":   start.Y(),
		}).Warn("camera starts inside a wall or outside the map")
	}

	billboards := make([]raycast.Billboard, 0, len(level.Decorations))
	for _, d := range level.Decorations {
		billboards = append(billboards, d)
	}
	render := s.cfg.Render
	floorTexture, ceilingTexture := render.FloorTexture, render.CeilingTexture
	if !render.Floor {
		floorTexture = ""
	}
	if !render.Ceiling {
		ceilingTexture = ""
	}
	textures, err := resolveTextures(s.atlas, s.tiles, level, floorTexture, ceilingTexture)
	if err != nil {
		return fmt.Errorf("level %s: %w", level.Name, err)
	}

	horizon := s.cfg.Camera.Horizon
	builder := raycast.NewBuilder(
		raycast.NewWallCaster(level.Grid, render.MaxRaySteps, horizon),
		raycast.NewFloorCaster(s.cfg.Camera.CameraHeight, horizon, render.Floor, render.Ceiling),
		raycast.NewSpriteProjector(raycast.SpriteOptions{
			Scale:        render.SpriteScale,
			DepthScale:   render.DepthScale,
			NearPlane:    render.NearPlane,
			TextureSize:  s.atlas.TextureSize(),
			Horizon:      horizon,
			CameraHeight: s.cfg.Camera.CameraHeight,
		}),
		textures,
	)
	if s.monitor != nil {
		builder.SetProfiler(s.monitor)
	}

	s.level = level
	s.camera = cam
	s.builder = builder
	s.billboards = billboards

	s.log.WithFields(logrus.Fields{
		"map":         level.Name,
		"width":       level.Grid.Width(),
		"height":      level.Grid.Height(),
		"decorations": len(billboards),
	}).Info("level loaded")
	return nil
}

// Update advances the camera by dt seconds of held input.
func (s *Simulation) Update(dt float64, in InputSnapshot) {
	if s.camera == nil || dt <= 0 {
		return
	}
	rot := s.cfg.GetRotSpeed() * dt
	if in.RotateLeft {
		s.camera.Rotate(-rot)
	}
	if in.RotateRight {
		s.camera.Rotate(rot)
	}

	speed := s.cfg.GetMoveSpeed()
	grid := s.level.Grid
	if in.Forward {
		s.camera.AttemptMove(true, speed, dt, grid)
	}
	if in.Backward {
		s.camera.AttemptMove(false, speed, dt, grid)
	}
	if in.StrafeLeft {
		s.camera.AttemptStrafe(false, speed, dt, grid)
	}
	if in.StrafeRight {
		s.camera.AttemptStrafe(true, speed, dt, grid)
	}
}

// Render builds a frame from a snapshot of the camera pose and hands it to sink.
func (s *Simulation) Render(sink raycast.FrameSink) error {
	if s.builder == nil {
		return ErrNoLevel
	}
	frame := s.builder.Build(s.camera.Pose(), s.width, s.height, s.billboards)
	if s.monitor != nil {
		s.monitor.UpdateFrameMetrics(len(frame.Walls), len(frame.Floor)+len(frame.Ceiling), len(frame.Sprites))
	}
	return sink.Present(frame)
}

// SetViewport changes the rendered frame size.
func (s *Simulation) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		s.width, s.height = width, height
	}
}

// Viewport returns the rendered frame size.
func (s *Simulation) Viewport() (width, height int) {
	return s.width, s.height
}

func (s *Simulation) Camera() *camera.Camera                  { return s.camera }
func (s *Simulation) Level() *world.Level                     { return s.level }
func (s *Simulation) Tiles() *world.TileManager               { return s.tiles }
func (s *Simulation) Atlas() *graphics.Atlas                  { return s.atlas }
func (s *Simulation) Monitor() *monitoring.PerformanceMonitor { return s.monitor }
func (s *Simulation) Config() *config.Config                  { return s.cfg }

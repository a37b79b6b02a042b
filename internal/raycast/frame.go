package raycast

import (
	"time"

	"raycaster/internal/camera"
	"raycaster/internal/graphics"
	"raycaster/internal/world"
)

// Frame phases reported to a Profiler.
const (
	PhaseWalls   = "raycast"
	PhaseFloor   = "floor_cast"
	PhaseSprites = "sprite_project"
)

// WallCommand draws one textured wall strip.
type WallCommand struct {
	Column  int
	Texture graphics.TextureID
	Wall    world.WallID
	U       float64 // source column in texture space
	Top     float64 // destination rect, unclamped
	Height  float64
	// DrawTop and DrawBottom are the destination rows clamped to the screen.
	DrawTop    int
	DrawBottom int
	Depth      float64
	Side       Side
}

// Frame holds everything a composer needs for one rendered frame. Its slices
// are owned by the Builder and reused on the next Build.
type Frame struct {
	Width   int
	Height  int
	Horizon float64

	FloorTexture   graphics.TextureID
	CeilingTexture graphics.TextureID

	Columns []Column
	Walls   []WallCommand
	Floor   []Sample
	Ceiling []Sample
	Sprites []Placement
	ZBuffer []float64
}

// FrameSink consumes finished frames.
type FrameSink interface {
	Present(frame *Frame) error
}

// TextureResolver maps walls, sprites and surfaces to atlas handles. Every
// handle is resolved before the first frame; lookups never load.
type TextureResolver interface {
	WallTexture(id world.WallID) graphics.TextureID
	SpriteTexture(visual string) graphics.TextureID
	SurfaceTextures() (floor, ceiling graphics.TextureID)
}

// Profiler times a frame phase.
type Profiler interface {
	ProfiledFunction(name string, fn func()) time.Duration
}

// Builder runs the wall, floor and sprite passes and assembles a Frame.
type Builder struct {
	walls    *WallCaster
	floors   *FloorCaster
	sprites  *SpriteProjector
	textures TextureResolver
	profiler Profiler

	frame Frame
}

// NewBuilder wires the three passes together. textures may be nil, in which
// case every command carries graphics.NoTexture.
func NewBuilder(walls *WallCaster, floors *FloorCaster, sprites *SpriteProjector, textures TextureResolver) *Builder {
	return &Builder{walls: walls, floors: floors, sprites: sprites, textures: textures}
}

// SetProfiler installs a phase timer. nil disables timing.
func (b *Builder) SetProfiler(p Profiler) {
	b.profiler = p
}

func (b *Builder) phase(name string, fn func()) {
	if b.profiler == nil {
		fn()
		return
	}
	b.profiler.ProfiledFunction(name, fn)
}

// Build renders pose into the builder's frame. The returned frame stays valid
// until the next call.
func (b *Builder) Build(pose camera.Pose, width, height int, items []Billboard) *Frame {
	f := &b.frame
	f.Width, f.Height = width, height
	f.Horizon = b.walls.horizon
	f.FloorTexture, f.CeilingTexture = graphics.NoTexture, graphics.NoTexture
	if b.textures != nil {
		f.FloorTexture, f.CeilingTexture = b.textures.SurfaceTextures()
	}

	b.phase(PhaseWalls, func() {
		f.Columns, f.ZBuffer = b.walls.CastFrame(pose, width, height, f.Columns, f.ZBuffer)
		f.Walls = f.Walls[:0]
		for _, col := range f.Columns {
			if !col.HasHit {
				continue
			}
			cmd := WallCommand{
				Column:     col.X,
				Texture:    graphics.NoTexture,
				Wall:       col.Hit.Wall,
				U:          col.Hit.U,
				Top:        col.Top,
				Height:     col.StripHeight,
				DrawTop:    col.DrawTop,
				DrawBottom: col.DrawBottom,
				Depth:      col.Hit.Distance,
				Side:       col.Hit.Side,
			}
			if b.textures != nil {
				cmd.Texture = b.textures.WallTexture(col.Hit.Wall)
			}
			f.Walls = append(f.Walls, cmd)
		}
	})

	b.phase(PhaseFloor, func() {
		f.Floor, f.Ceiling = b.floors.Cast(pose, width, height, f.Columns, f.Floor, f.Ceiling)
	})

	b.phase(PhaseSprites, func() {
		f.Sprites = b.sprites.ProjectAll(pose, items, width, height, f.Sprites)
		if b.textures != nil {
			for i := range f.Sprites {
				f.Sprites[i].Texture = b.textures.SpriteTexture(f.Sprites[i].Billboard.Visual())
			}
		}
	})

	return f
}

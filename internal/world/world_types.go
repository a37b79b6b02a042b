package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// WallID identifies the wall occupying a grid cell. Empty means walkable floor.
type WallID uint16

const (
	Empty        WallID = 0
	WallBrick    WallID = 1
	WallFallback WallID = 2

	// firstDynamicWall is where ids for tiles without a constant start.
	firstDynamicWall WallID = 16
)

// IsWall reports whether the id denotes a wall.
func (id WallID) IsWall() bool {
	return id != Empty
}

// Decoration is a billboarded sprite placed in the level.
type Decoration struct {
	ID         uuid.UUID
	Position   mgl64.Vec2
	Sprite     string // texture name, opaque to the renderer core
	FacingLeft bool
}

// NewDecoration places a decoration at the given world position.
func NewDecoration(x, y float64, sprite string, facingLeft bool) *Decoration {
	return &Decoration{
		ID:         uuid.New(),
		Position:   mgl64.Vec2{x, y},
		Sprite:     sprite,
		FacingLeft: facingLeft,
	}
}

func (d *Decoration) WorldPosition() mgl64.Vec2 { return d.Position }
func (d *Decoration) Visual() string            { return d.Sprite }
func (d *Decoration) Mirrored() bool            { return d.FacingLeft }

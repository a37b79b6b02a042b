package camera

import (
	"errors"
	"math"

	"raycaster/internal/collision"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrZeroDirection is returned when a pose is built from a zero-length direction.
	ErrZeroDirection = errors.New("camera direction must be non-zero")
	// ErrInvalidFOV is returned for a non-positive field of view half-extent.
	ErrInvalidFOV = errors.New("camera field of view must be positive")
)

// Pose is the camera state seen by the renderer. Direction is unit length;
// Plane is perpendicular to it with length equal to the field of view
// half-extent.
type Pose struct {
	Position  mgl64.Vec2
	Direction mgl64.Vec2
	Plane     mgl64.Vec2
}

// Camera owns the player's pose. It is mutated only by Rotate, the Attempt*
// moves and SetPose.
type Camera struct {
	pose    Pose
	fovHalf float64
}

// New creates a camera at position looking along direction.
func New(position, direction mgl64.Vec2, fovHalf float64) (*Camera, error) {
	if fovHalf <= 0 || math.IsNaN(fovHalf) || math.IsInf(fovHalf, 0) {
		return nil, ErrInvalidFOV
	}
	c := &Camera{fovHalf: fovHalf}
	if err := c.SetPose(position, direction); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPose places the camera, e.g. at a level's start cell.
func (c *Camera) SetPose(position, direction mgl64.Vec2) error {
	if direction.Len() == 0 {
		return ErrZeroDirection
	}
	c.pose.Position = position
	c.setDirection(direction)
	return nil
}

// setDirection normalizes dir and re-derives the plane from it. The plane is
// the right-hand perpendicular on a y-down map.
func (c *Camera) setDirection(dir mgl64.Vec2) {
	dir = dir.Normalize()
	c.pose.Direction = dir
	c.pose.Plane = mgl64.Vec2{-dir.Y(), dir.X()}.Mul(c.fovHalf)
}

// Pose returns a copy of the current pose.
func (c *Camera) Pose() Pose {
	return c.pose
}

// Position returns the camera's current position
func (c *Camera) Position() mgl64.Vec2 {
	return c.pose.Position
}

// Direction returns the unit view direction
func (c *Camera) Direction() mgl64.Vec2 {
	return c.pose.Direction
}

// Plane returns the camera plane vector
func (c *Camera) Plane() mgl64.Vec2 {
	return c.pose.Plane
}

// FOV returns the field of view half-extent.
func (c *Camera) FOV() float64 {
	return c.fovHalf
}

// Angle returns the heading in radians, 0 facing +x, growing clockwise on screen.
func (c *Camera) Angle() float64 {
	return math.Atan2(c.pose.Direction.Y(), c.pose.Direction.X())
}

// Rotate turns the camera by angle radians. Positive angles turn right.
func (c *Camera) Rotate(angle float64) {
	if angle == 0 {
		return
	}
	rot := mgl64.Rotate2D(angle)
	c.pose.Direction = rot.Mul2x1(c.pose.Direction).Normalize()
	// renormalized each turn so neither length drifts over many small turns
	c.pose.Plane = rot.Mul2x1(c.pose.Plane).Normalize().Mul(c.fovHalf)
}

// AttemptMove moves forward (or backward) along the view direction by
// speed*dt, applying each axis only when its lookahead cell is walkable.
// It returns whether any axis moved.
func (c *Camera) AttemptMove(forward bool, speed, dt float64, checker collision.TileChecker) bool {
	sign := 1.0
	if !forward {
		sign = -1.0
	}
	return c.attempt(c.pose.Direction.Mul(sign), speed, dt, checker)
}

// AttemptStrafe moves sideways along the camera plane.
func (c *Camera) AttemptStrafe(right bool, speed, dt float64, checker collision.TileChecker) bool {
	sign := 1.0
	if !right {
		sign = -1.0
	}
	return c.attempt(c.pose.Plane.Normalize().Mul(sign), speed, dt, checker)
}

// attempt moves along unit vector dir. The lookahead cell on each axis is one
// unit of dir ahead of the current position, with the other axis held at
// its pre-move value.
func (c *Camera) attempt(dir mgl64.Vec2, speed, dt float64, checker collision.TileChecker) bool {
	if speed <= 0 || dt <= 0 {
		return false
	}
	pos := c.pose.Position
	delta := dir.Mul(speed * dt)
	res := collision.Slide(checker,
		pos.X(), pos.Y(),
		delta.X(), delta.Y(),
		pos.X()+dir.X(), pos.Y()+dir.Y(),
	)
	c.pose.Position = mgl64.Vec2{res.X, res.Y}
	return res.MovedX || res.MovedY
}

package raycast

import (
	"math"
	"sort"

	"raycaster/internal/camera"
	"raycaster/internal/graphics"
	"raycaster/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// Billboard is anything the sprite projector can draw: a world position,
// an opaque visual handle and a facing flag.
type Billboard interface {
	WorldPosition() mgl64.Vec2
	Visual() string
	Mirrored() bool
}

// SpriteOptions configures projection and on-screen sizing.
type SpriteOptions struct {
	Scale        float64 // scale at depth 1; 2.0 gives scale 1.0 at depth 2
	DepthScale   float64
	NearPlane    float64 // sprites at or closer than this are dropped
	TextureSize  int     // native sprite size in pixels
	Horizon      float64
	CameraHeight float64
}

// Placement is a projected billboard ready for compositing.
type Placement struct {
	Billboard Billboard
	Texture   graphics.TextureID
	CameraX   float64
	Depth     float64 // perpendicular camera-space depth
	DepthKey  float64 // -(depth * depth scale), ascending = far to near
	ScreenX   float64 // centre column
	Scale     float64
	Size      float64 // on-screen size in pixels
	Top       float64 // top row, bottom edge rests on the floor line
}

// SpriteColumn is one visible screen column of a placement.
type SpriteColumn struct {
	X int
	U float64
}

// SpriteProjector transforms world positions into screen placements.
type SpriteProjector struct {
	opts SpriteOptions
}

// NewSpriteProjector creates a projector.
func NewSpriteProjector(opts SpriteOptions) *SpriteProjector {
	if opts.DepthScale == 0 {
		opts.DepthScale = 1
	}
	return &SpriteProjector{opts: opts}
}

// ToCamera transforms a world-relative offset into (camera_x, depth) using
// the inverse of the [plane | direction] basis. ok is false for a singular basis.
func ToCamera(pose camera.Pose, rel mgl64.Vec2) (cameraX, depth float64, ok bool) {
	basis := mgl64.Mat2FromCols(pose.Plane, pose.Direction)
	if math.Abs(basis.Det()) < 1e-12 {
		return 0, 0, false
	}
	t := basis.Inv().Mul2x1(rel)
	return t.X(), t.Y(), true
}

// Project places one billboard. ok is false when it is behind the camera
// or inside the near plane.
func (sp *SpriteProjector) Project(pose camera.Pose, b Billboard, width, height int) (Placement, bool) {
	camX, depth, ok := ToCamera(pose, b.WorldPosition().Sub(pose.Position))
	if !ok || depth <= 0 || depth <= sp.opts.NearPlane {
		return Placement{}, false
	}
	scale := sp.opts.Scale / depth
	size := scale * float64(sp.opts.TextureSize)
	floorY := float64(height)*sp.opts.Horizon + float64(height)*sp.opts.CameraHeight/depth
	return Placement{
		Billboard: b,
		Texture:   graphics.NoTexture,
		CameraX:   camX,
		Depth:     depth,
		DepthKey:  -(depth * sp.opts.DepthScale),
		ScreenX:   float64(width) / 2 * (1 + camX/depth),
		Scale:     scale,
		Size:      size,
		Top:       floorY - size,
	}, true
}

// ProjectAll projects every billboard into out, sorted far to near.
func (sp *SpriteProjector) ProjectAll(pose camera.Pose, items []Billboard, width, height int, out []Placement) []Placement {
	out = out[:0]
	for _, b := range items {
		if p, ok := sp.Project(pose, b, width, height); ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DepthKey < out[j].DepthKey })
	return out
}

// Left returns the leftmost screen column of the placement, unclamped.
func (p Placement) Left() float64 {
	return p.ScreenX - p.Size/2
}

// Columns appends the on-screen columns where the sprite is nearer than the
// wall recorded in zbuffer. U is mirrored for billboards facing left.
func (p Placement) Columns(width int, zbuffer []float64, out []SpriteColumn) []SpriteColumn {
	out = out[:0]
	if p.Size <= 0 {
		return out
	}
	left := p.Left()
	start := mathutil.Max(mathutil.FloorInt(left), 0)
	end := mathutil.Min(int(math.Ceil(left+p.Size)), width)
	for x := start; x < end; x++ {
		if x < len(zbuffer) && zbuffer[x] <= p.Depth {
			continue
		}
		u := (float64(x) + 0.5 - left) / p.Size
		if u < 0 || u >= 1 {
			continue
		}
		if p.Billboard != nil && p.Billboard.Mirrored() {
			u = mathutil.Mirror(u)
		}
		out = append(out, SpriteColumn{X: x, U: u})
	}
	return out
}

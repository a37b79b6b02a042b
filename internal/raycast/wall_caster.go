package raycast

import (
	"math"

	"raycaster/internal/camera"
	"raycaster/internal/mathutil"
	"raycaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// axisSentinel replaces 1/0 for a ray parallel to a grid axis.
	axisSentinel = 1e30
	// minWallDistance bounds strip height for a camera pressed against a wall.
	minWallDistance = 1e-4
)

// Side tells which kind of grid line a ray crossed when it hit a wall.
type Side uint8

const (
	// SideColumn: a vertical grid line (x = const) was crossed.
	SideColumn Side = iota
	// SideRow: a horizontal grid line (y = const) was crossed.
	SideRow
)

func (s Side) String() string {
	if s == SideColumn {
		return "column"
	}
	return "row"
}

// Map is the read-only grid the caster walks.
type Map interface {
	At(col, row int) (world.WallID, bool)
	MaxTraversal() int
}

// RayHit contains the result of a DDA raycast.
type RayHit struct {
	Distance float64 // perpendicular distance, no fisheye
	Side     Side
	Wall     world.WallID
	U        float64 // horizontal texture coordinate in [0,1)
	CellX    int
	CellY    int
}

// Column is one screen column of the wall pass.
type Column struct {
	X      int
	Ray    mgl64.Vec2
	Hit    RayHit
	HasHit bool

	StripHeight float64
	Top         float64 // unclamped, may be negative
	DrawTop     int
	DrawBottom  int
}

// WallCaster runs the DDA for every screen column.
type WallCaster struct {
	grid     Map
	maxSteps int
	horizon  float64
}

// NewWallCaster creates a caster over grid. maxSteps <= 0 derives the step
// cap from the grid size so a ray can always reach the border.
func NewWallCaster(grid Map, maxSteps int, horizon float64) *WallCaster {
	return &WallCaster{grid: grid, maxSteps: maxSteps, horizon: horizon}
}

// StepCap returns the number of grid steps a ray may take.
func (wc *WallCaster) StepCap() int {
	if wc.maxSteps > 0 {
		return wc.maxSteps
	}
	return wc.grid.MaxTraversal()
}

// CastRay walks the grid from pos along ray. ok is false when the step cap
// runs out or the ray leaves the grid.
func (wc *WallCaster) CastRay(pos, ray mgl64.Vec2) (hit RayHit, ok bool) {
	mapX := mathutil.FloorInt(pos.X())
	mapY := mathutil.FloorInt(pos.Y())

	deltaX := axisSentinel
	if ray.X() != 0 {
		deltaX = math.Abs(1 / ray.X())
	}
	deltaY := axisSentinel
	if ray.Y() != 0 {
		deltaY = math.Abs(1 / ray.Y())
	}

	var stepX, stepY int
	var sideX, sideY float64
	if ray.X() < 0 {
		stepX = -1
		sideX = (pos.X() - float64(mapX)) * deltaX
	} else {
		stepX = 1
		sideX = (float64(mapX) + 1 - pos.X()) * deltaX
	}
	if ray.Y() < 0 {
		stepY = -1
		sideY = (pos.Y() - float64(mapY)) * deltaY
	} else {
		stepY = 1
		sideY = (float64(mapY) + 1 - pos.Y()) * deltaY
	}

	side := SideColumn
	for steps := wc.StepCap(); steps > 0; steps-- {
		if sideX < sideY {
			sideX += deltaX
			mapX += stepX
			side = SideColumn
		} else {
			sideY += deltaY
			mapY += stepY
			side = SideRow
		}

		wall, inside := wc.grid.At(mapX, mapY)
		if !inside {
			return RayHit{}, false
		}
		if !wall.IsWall() {
			continue
		}

		var dist, along float64
		if side == SideColumn {
			dist = sideX - deltaX
			along = pos.Y() + dist*ray.Y()
		} else {
			dist = sideY - deltaY
			along = pos.X() + dist*ray.X()
		}
		u := mathutil.Frac(along)
		if (side == SideColumn && ray.X() > 0) || (side == SideRow && ray.Y() < 0) {
			u = mathutil.Mirror(u)
		}
		return RayHit{
			Distance: math.Max(dist, 0),
			Side:     side,
			Wall:     wall,
			U:        u,
			CellX:    mapX,
			CellY:    mapY,
		}, true
	}
	return RayHit{}, false
}

// CameraX maps screen column x to [-1, 1).
func CameraX(x, width int) float64 {
	return 2*float64(x)/float64(width) - 1
}

// CastColumn casts the ray for screen column x and projects its strip.
func (wc *WallCaster) CastColumn(pose camera.Pose, x, width, height int) Column {
	ray := pose.Direction.Add(pose.Plane.Mul(CameraX(x, width)))
	col := Column{X: x, Ray: ray}
	col.Hit, col.HasHit = wc.CastRay(pose.Position, ray)
	if col.HasHit {
		col.StripHeight, col.Top, col.DrawTop, col.DrawBottom = ProjectStrip(col.Hit.Distance, height, wc.horizon)
	}
	return col
}

// CastFrame casts every column, reusing cols and zbuffer when they are large
// enough. Columns without a hit get +Inf in the z-buffer.
func (wc *WallCaster) CastFrame(pose camera.Pose, width, height int, cols []Column, zbuffer []float64) ([]Column, []float64) {
	cols = resize(cols, width)
	zbuffer = resize(zbuffer, width)
	for x := 0; x < width; x++ {
		cols[x] = wc.CastColumn(pose, x, width, height)
		if cols[x].HasHit {
			zbuffer[x] = cols[x].Hit.Distance
		} else {
			zbuffer[x] = math.Inf(1)
		}
	}
	return cols, zbuffer
}

// ProjectStrip converts a perpendicular distance to a wall strip centred on
// the horizon row. drawTop and drawBottom are clamped to the screen.
func ProjectStrip(distance float64, height int, horizon float64) (stripHeight, top float64, drawTop, drawBottom int) {
	distance = math.Max(distance, minWallDistance)
	stripHeight = float64(height) / distance
	top = float64(height)*horizon - stripHeight/2
	drawTop = mathutil.Clamp(mathutil.FloorInt(top), 0, height-1)
	drawBottom = mathutil.Clamp(mathutil.FloorInt(top+stripHeight), 0, height-1)
	return stripHeight, top, drawTop, drawBottom
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

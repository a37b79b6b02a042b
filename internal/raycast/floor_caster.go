package raycast

import (
	"raycaster/internal/camera"
	"raycaster/internal/mathutil"
)

// Sample maps one screen pixel to a floor or ceiling texel.
type Sample struct {
	X, Y    int
	U, V    float64 // texture coordinates in [0,1)
	CellX   int
	CellY   int
	Ceiling bool
}

// FloorCaster maps screen rows below the horizon back onto the floor plane.
// Ceiling pixels reuse the floor sample of the mirrored row.
type FloorCaster struct {
	cameraHeight float64
	horizon      float64
	floor        bool
	ceiling      bool
}

// NewFloorCaster creates a caster. cameraHeight and horizon are fractions of
// the screen height.
func NewFloorCaster(cameraHeight, horizon float64, floor, ceiling bool) *FloorCaster {
	return &FloorCaster{cameraHeight: cameraHeight, horizon: horizon, floor: floor, ceiling: ceiling}
}

// Enabled reports whether either surface is drawn.
func (fc *FloorCaster) Enabled() bool {
	return fc.floor || fc.ceiling
}

// RowDistance returns the world distance of the floor seen at screen row y.
// Rows at or above the horizon see no floor.
func (fc *FloorCaster) RowDistance(y, height int) (float64, bool) {
	p := float64(y) - float64(height)*fc.horizon
	if p <= 0 {
		return 0, false
	}
	return float64(height) * fc.cameraHeight / p, true
}

// Cast appends floor and ceiling samples for every pixel not covered by a
// wall strip in cols. Columns without a hit are never culled.
func (fc *FloorCaster) Cast(pose camera.Pose, width, height int, cols []Column, floor, ceiling []Sample) ([]Sample, []Sample) {
	floor = floor[:0]
	ceiling = ceiling[:0]
	if !fc.Enabled() || width <= 0 {
		return floor, ceiling
	}

	leftDir := pose.Direction.Sub(pose.Plane)
	rightDir := pose.Direction.Add(pose.Plane)

	first := mathutil.Max(mathutil.FloorInt(float64(height)*fc.horizon), 0)
	for y := first; y < height; y++ {
		rowDist, ok := fc.RowDistance(y, height)
		if !ok {
			continue
		}
		step := rightDir.Sub(leftDir).Mul(rowDist / float64(width))
		coord := pose.Position.Add(leftDir.Mul(rowDist))
		ceilY := height - y - 1

		for x := 0; x < width; x++ {
			wx, wy := coord.X(), coord.Y()
			coord = coord.Add(step)

			var col *Column
			if x < len(cols) && cols[x].HasHit {
				col = &cols[x]
			}
			drawFloor := fc.floor && (col == nil || y > col.DrawBottom)
			drawCeiling := fc.ceiling && (col == nil || ceilY < col.DrawTop)
			if !drawFloor && !drawCeiling {
				continue
			}

			s := Sample{
				X:     x,
				U:     mathutil.Frac(wx),
				V:     mathutil.Frac(wy),
				CellX: mathutil.FloorInt(wx),
				CellY: mathutil.FloorInt(wy),
			}
			if drawFloor {
				s.Y = y
				floor = append(floor, s)
			}
			if drawCeiling {
				s.Y = ceilY
				s.Ceiling = true
				ceiling = append(ceiling, s)
			}
		}
	}
	return floor, ceiling
}

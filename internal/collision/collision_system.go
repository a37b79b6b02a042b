package collision

import (
	"math"
)

// TileChecker interface for checking if tiles block movement
type TileChecker interface {
	IsTileBlocking(tileX, tileY int) bool
	GetWorldBounds() (width, height int)
}

// TileOf converts a world coordinate to the index of the cell containing it.
// Coordinates below zero map to negative cells rather than truncating to 0.
func TileOf(v float64) int {
	return int(math.Floor(v))
}

// CanEnterTile reports whether a cell is walkable. Cells outside the world
// and a missing checker both block.
func CanEnterTile(checker TileChecker, tileX, tileY int) bool {
	if checker == nil {
		return false
	}
	width, height := checker.GetWorldBounds()
	if tileX < 0 || tileX >= width || tileY < 0 || tileY >= height {
		return false
	}
	return !checker.IsTileBlocking(tileX, tileY)
}

// CanEnter reports whether the cell containing world point (x, y) is walkable.
func CanEnter(checker TileChecker, x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	return CanEnterTile(checker, TileOf(x), TileOf(y))
}

// SlideResult reports which axes of a move were applied.
type SlideResult struct {
	X, Y   float64
	MovedX bool
	MovedY bool
}

// Slide resolves a move per axis. The X axis is applied when lookahead point
// (aheadX, y) and the destination (x+dx, y) are walkable, the Y axis likewise
// with (x, aheadY). Both lookaheads use the pre-move position on the other axis,
// so a blocked axis slides along the wall instead of stopping the move.
func Slide(checker TileChecker, x, y, dx, dy, aheadX, aheadY float64) SlideResult {
	res := SlideResult{X: x, Y: y}
	if dx != 0 && CanEnter(checker, aheadX, y) && CanEnter(checker, x+dx, y) {
		res.X = x + dx
		res.MovedX = true
	}
	if dy != 0 && CanEnter(checker, x, aheadY) && CanEnter(checker, x, y+dy) {
		res.Y = y + dy
		res.MovedY = true
	}
	// both axes open but the diagonal cell is a wall
	if res.MovedX && res.MovedY && !CanEnter(checker, res.X, res.Y) {
		res.Y = y
		res.MovedY = false
	}
	return res
}

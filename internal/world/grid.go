package world

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMap is returned when a map has no rows or no columns.
	ErrEmptyMap = errors.New("map contains no valid map data")
	// ErrInconsistentWidth is returned when rows differ in length.
	ErrInconsistentWidth = errors.New("inconsistent row width")
)

// Grid is an immutable rectangular map of wall cells addressed as (column, row).
type Grid struct {
	width  int
	height int
	cells  []WallID
}

// NewGrid copies rows into a Grid. Every row must have the same length.
func NewGrid(rows [][]WallID) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	width := len(rows[0])
	g := &Grid{
		width:  width,
		height: len(rows),
		cells:  make([]WallID, 0, width*len(rows)),
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInconsistentWidth, i+1, len(row), width)
		}
		g.cells = append(g.cells, row...)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (col, row) addresses a cell.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.height
}

// At returns the cell at (col, row). ok is false for out-of-range queries.
func (g *Grid) At(col, row int) (id WallID, ok bool) {
	if !g.InBounds(col, row) {
		return Empty, false
	}
	return g.cells[row*g.width+col], true
}

// IsTileBlocking implements the collision.TileChecker interface.
// Out-of-range cells block.
func (g *Grid) IsTileBlocking(tileX, tileY int) bool {
	id, ok := g.At(tileX, tileY)
	return !ok || id.IsWall()
}

// GetWorldBounds implements the collision.TileChecker interface
func (g *Grid) GetWorldBounds() (width, height int) {
	return g.width, g.height
}

// MaxTraversal is the number of DDA steps that always crosses the whole grid.
func (g *Grid) MaxTraversal() int {
	return g.width + g.height + 2
}

// Row returns a copy of one row, or nil when out of range.
func (g *Grid) Row(row int) []WallID {
	if row < 0 || row >= g.height {
		return nil
	}
	out := make([]WallID, g.width)
	copy(out, g.cells[row*g.width:(row+1)*g.width])
	return out
}

package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Level is one loaded map: the wall grid, its decorations and the start pose.
// Levels are replaced wholesale, never edited in place.
type Level struct {
	Name        string
	Grid        *Grid
	Decorations []*Decoration
	Start       mgl64.Vec2
	HasStart    bool
}

// NewLevel builds a level from loaded map data. Decorations and the start
// position sit at the centre of their cells.
func NewLevel(name string, data *MapData) (*Level, error) {
	if data == nil || data.Grid == nil {
		return nil, fmt.Errorf("level %s: %w", name, ErrEmptyMap)
	}
	lvl := &Level{
		Name:        name,
		Grid:        data.Grid,
		Decorations: make([]*Decoration, 0, len(data.DecorationSpawns)),
		HasStart:    data.HasStart,
	}
	if data.HasStart {
		lvl.Start = cellCentre(data.StartX, data.StartY)
	}
	for _, spawn := range data.DecorationSpawns {
		pos := cellCentre(spawn.X, spawn.Y)
		lvl.Decorations = append(lvl.Decorations, NewDecoration(pos.X(), pos.Y(), spawn.Sprite, spawn.FacingLeft))
	}
	return lvl, nil
}

// LoadLevel reads a map file and builds a level from it.
func LoadLevel(path string, tiles *TileManager) (*Level, error) {
	data, err := NewMapLoader(tiles).LoadMap(path)
	if err != nil {
		return nil, err
	}
	return NewLevel(path, data)
}

// Sprites returns the distinct sprite names used by the decorations.
func (l *Level) Sprites() []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range l.Decorations {
		if !seen[d.Sprite] {
			seen[d.Sprite] = true
			names = append(names, d.Sprite)
		}
	}
	return names
}

func cellCentre(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}
}

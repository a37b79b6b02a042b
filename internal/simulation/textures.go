package simulation

import (
	"fmt"

	"raycaster/internal/graphics"
	"raycaster/internal/world"

	"github.com/zyedidia/generic/mapset"
)

// textureTable holds the atlas handles a level draws with. It is filled once
// per level so frames only ever read the atlas.
type textureTable struct {
	walls    map[world.WallID]graphics.TextureID
	fallback graphics.TextureID
	sprites  map[string]graphics.TextureID
	floor    graphics.TextureID
	ceiling  graphics.TextureID
}

// resolveTextures loads every texture level can show. Empty surface names
// disable that surface's texture.
func resolveTextures(atlas *graphics.Atlas, tiles *world.TileManager, level *world.Level, floor, ceiling string) (*textureTable, error) {
	table := &textureTable{
		walls:   make(map[world.WallID]graphics.TextureID),
		sprites: make(map[string]graphics.TextureID),
	}

	var err error
	if table.floor, err = atlas.Load(floor); err != nil {
		return nil, fmt.Errorf("floor texture: %w", err)
	}
	if table.ceiling, err = atlas.Load(ceiling); err != nil {
		return nil, fmt.Errorf("ceiling texture: %w", err)
	}
	if table.fallback, err = atlas.Load(tiles.TextureName(world.WallFallback)); err != nil {
		return nil, fmt.Errorf("fallback wall texture: %w", err)
	}

	used := mapset.New[world.WallID]()
	grid := level.Grid
	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			if id, _ := grid.At(col, row); id.IsWall() {
				used.Put(id)
			}
		}
	}
	used.Each(func(id world.WallID) {
		if err != nil {
			return
		}
		var tex graphics.TextureID
		if tex, err = atlas.Load(tiles.TextureName(id)); err == nil {
			table.walls[id] = tex
		}
	})
	if err != nil {
		return nil, fmt.Errorf("wall texture: %w", err)
	}

	for _, name := range level.Sprites() {
		tex, err := atlas.Load(name)
		if err != nil {
			return nil, fmt.Errorf("sprite texture: %w", err)
		}
		table.sprites[name] = tex
	}
	return table, nil
}

func (t *textureTable) WallTexture(id world.WallID) graphics.TextureID {
	if tex, ok := t.walls[id]; ok {
		return tex
	}
	return t.fallback
}

func (t *textureTable) SpriteTexture(visual string) graphics.TextureID {
	if tex, ok := t.sprites[visual]; ok {
		return tex
	}
	return graphics.NoTexture
}

func (t *textureTable) SurfaceTextures() (floor, ceiling graphics.TextureID) {
	return t.floor, t.ceiling
}

package config

// TileConfig is the symbol table file (assets/tiles.yaml).
type TileConfig struct {
	// Fallback names the tile used for symbols missing from the table.
	Fallback string              `yaml:"fallback"`
	TileData map[string]TileData `yaml:"tiles"`
}

type TileData struct {
	Name       string `yaml:"name"`
	Letter     string `yaml:"letter"`
	Empty      bool   `yaml:"empty"`
	Texture    string `yaml:"texture"`
	WallColor  [3]int `yaml:"wall_color"`
	FloorColor [3]int `yaml:"floor_color"`
}

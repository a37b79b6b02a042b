package world

import (
	"fmt"
	"os"
	"sort"

	"raycaster/internal/config"

	"gopkg.in/yaml.v3"
)

// GlobalTileManager is the symbol table loaded at startup.
var GlobalTileManager *TileManager

// TileManager maps map symbols to wall ids and their presentation data
type TileManager struct {
	tileData        map[string]*config.TileData
	typeToKey       map[WallID]string
	keyToType       map[string]WallID
	letterToType    map[rune]WallID
	typeToLetter    map[WallID]rune
	fallbackKey     string
	nextDynamicType WallID
}

// NewTileManager creates a tile manager holding the built-in table:
// '.' empty, '#' brick, everything else the fallback wall.
func NewTileManager() *TileManager {
	tm := &TileManager{}
	tm.apply(config.TileConfig{
		Fallback: "fallback",
		TileData: map[string]config.TileData{
			"empty":    {Name: "Floor", Letter: ".", Empty: true, FloorColor: [3]int{90, 90, 90}},
			"brick":    {Name: "Brick", Letter: "#", Texture: "brick", WallColor: [3]int{178, 34, 34}},
			"fallback": {Name: "Unknown", Texture: "fallback", WallColor: [3]int{255, 0, 255}},
		},
	})
	return tm
}

// LoadTileConfig loads tile configuration from a YAML file
func (tm *TileManager) LoadTileConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read tile config file: %w", err)
	}
	return tm.LoadTileData(data)
}

// LoadTileData replaces the table with the YAML document in data.
func (tm *TileManager) LoadTileData(data []byte) error {
	var tileConfig config.TileConfig
	if err := yaml.Unmarshal(data, &tileConfig); err != nil {
		return fmt.Errorf("failed to parse tile config: %w", err)
	}
	if len(tileConfig.TileData) == 0 {
		return fmt.Errorf("tile config defines no tiles")
	}
	if tileConfig.Fallback == "" {
		tileConfig.Fallback = "fallback"
	}
	if _, ok := tileConfig.TileData[tileConfig.Fallback]; !ok {
		tileConfig.TileData[tileConfig.Fallback] = config.TileData{Name: "Unknown", Texture: "fallback", WallColor: [3]int{255, 0, 255}}
	}
	for key, td := range tileConfig.TileData {
		if len([]rune(td.Letter)) > 1 {
			return fmt.Errorf("tile %q: letter %q must be a single character", key, td.Letter)
		}
	}
	tm.apply(tileConfig)
	return nil
}

func (tm *TileManager) apply(tc config.TileConfig) {
	tm.tileData = make(map[string]*config.TileData, len(tc.TileData))
	for key, td := range tc.TileData {
		tileCopy := td
		tm.tileData[key] = &tileCopy
	}
	tm.fallbackKey = tc.Fallback
	tm.createTypeMapping()
	tm.createLetterMappings()
}

// createTypeMapping assigns wall ids. Core keys get their constants, the rest
// get dynamic ids in key order so ids are stable between runs.
func (tm *TileManager) createTypeMapping() {
	coreMapping := map[string]WallID{
		"brick": WallBrick,
	}

	tm.typeToKey = make(map[WallID]string)
	tm.keyToType = make(map[string]WallID)
	tm.nextDynamicType = firstDynamicWall

	for _, key := range tm.GetAllTileKeys() {
		data := tm.tileData[key]
		var id WallID
		switch {
		case data.Empty:
			id = Empty
		case key == tm.fallbackKey:
			id = WallFallback
		default:
			core, ok := coreMapping[key]
			if ok {
				id = core
			} else {
				id = tm.nextDynamicType
				tm.nextDynamicType++
			}
		}
		tm.keyToType[key] = id
		if _, taken := tm.typeToKey[id]; !taken {
			tm.typeToKey[id] = key
		}
	}
}

func (tm *TileManager) createLetterMappings() {
	tm.letterToType = make(map[rune]WallID)
	tm.typeToLetter = make(map[WallID]rune)

	for _, key := range tm.GetAllTileKeys() {
		data := tm.tileData[key]
		if data.Letter == "" {
			continue
		}
		letter := []rune(data.Letter)[0]
		id := tm.keyToType[key]
		tm.letterToType[letter] = id
		if _, ok := tm.typeToLetter[id]; !ok {
			tm.typeToLetter[id] = letter
		}
	}
}

// WallFromSymbol resolves a map symbol. Unknown symbols resolve to the
// fallback wall with known == false.
func (tm *TileManager) WallFromSymbol(symbol rune) (id WallID, known bool) {
	if id, ok := tm.letterToType[symbol]; ok {
		return id, true
	}
	return WallFallback, false
}

// SymbolFor returns the letter used for a wall id, '?' when it has none.
func (tm *TileManager) SymbolFor(id WallID) rune {
	if r, ok := tm.typeToLetter[id]; ok {
		return r
	}
	return '?'
}

// GetTileData returns the configuration data for a wall id
func (tm *TileManager) GetTileData(id WallID) *config.TileData {
	key, ok := tm.typeToKey[id]
	if !ok {
		return nil
	}
	return tm.tileData[key]
}

// GetTileDataByKey returns the configuration data for a tile by its string key
func (tm *TileManager) GetTileDataByKey(key string) *config.TileData {
	return tm.tileData[key]
}

// GetTileTypeFromKey returns the wall id for a given string key
func (tm *TileManager) GetTileTypeFromKey(key string) (WallID, bool) {
	id, ok := tm.keyToType[key]
	return id, ok
}

// GetAllTileKeys returns all tile keys, sorted
func (tm *TileManager) GetAllTileKeys() []string {
	keys := make([]string, 0, len(tm.tileData))
	for key := range tm.tileData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// TextureName returns the texture handle for a wall id. Ids without a
// table entry use the fallback tile's texture.
func (tm *TileManager) TextureName(id WallID) string {
	if data := tm.GetTileData(id); data != nil && data.Texture != "" {
		return data.Texture
	}
	if data := tm.tileData[tm.fallbackKey]; data != nil && data.Texture != "" {
		return data.Texture
	}
	return "fallback"
}

// WallColor returns the flat colour of a wall id.
func (tm *TileManager) WallColor(id WallID) [3]int {
	if data := tm.GetTileData(id); data != nil {
		return data.WallColor
	}
	if data := tm.tileData[tm.fallbackKey]; data != nil {
		return data.WallColor
	}
	return [3]int{255, 0, 255}
}

// Textures returns every distinct wall texture name in the table, sorted.
func (tm *TileManager) Textures() []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range tm.GetAllTileKeys() {
		data := tm.tileData[key]
		if data.Empty || data.Texture == "" || seen[data.Texture] {
			continue
		}
		seen[data.Texture] = true
		out = append(out, data.Texture)
	}
	return out
}

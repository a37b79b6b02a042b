package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"raycaster/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

const (
	startMarker      = '+'
	decorationMarker = '@'
	definitionSep    = "  >"
)

// MapLoader handles loading grid maps from text files
type MapLoader struct {
	tiles *TileManager
}

// DecorationSpawn is a decoration slot bound by a line definition.
type DecorationSpawn struct {
	X, Y       int
	Sprite     string
	FacingLeft bool
}

// MapData contains the loaded map information
type MapData struct {
	Grid             *Grid
	DecorationSpawns []DecorationSpawn
	StartX           int
	StartY           int
	HasStart         bool
	UnknownSymbols   []rune
}

// NewMapLoader creates a map loader. A nil table falls back to
// GlobalTileManager, then to the built-in table.
func NewMapLoader(tiles *TileManager) *MapLoader {
	if tiles == nil {
		tiles = GlobalTileManager
	}
	if tiles == nil {
		tiles = NewTileManager()
	}
	return &MapLoader{tiles: tiles}
}

// LoadMap loads a map from the specified file path
func (ml *MapLoader) LoadMap(mapPath string) (*MapData, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	data, err := ml.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	if len(data.UnknownSymbols) > 0 {
		logger.Component("map_loader").WithFields(logrus.Fields{
			"map":     mapPath,
			"symbols": string(data.UnknownSymbols),
		}).Warn("unknown map symbols treated as fallback walls")
	}
	return data, nil
}

// Parse reads a map from r. Blank lines and lines starting with "//" are skipped.
func (ml *MapLoader) Parse(r io.Reader) (*MapData, error) {
	var rows [][]rune
	var spawns []DecorationSpawn
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "//") {
			continue
		}
		tiles, lineSpawns := parseTileTokens(line, len(rows))
		spawns = append(spawns, lineSpawns...)
		rows = append(rows, tiles)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: line %d expected %d, got %d", ErrInconsistentWidth, i+1, width, len(row))
		}
	}

	unknown := mapset.New[rune]()
	data := &MapData{
		DecorationSpawns: spawns,
		StartX:           -1,
		StartY:           -1,
	}
	cells := make([][]WallID, len(rows))
	for y, row := range rows {
		cells[y] = make([]WallID, width)
		for x, symbol := range row {
			switch symbol {
			case startMarker:
				data.StartX, data.StartY, data.HasStart = x, y, true
				cells[y][x] = Empty
			case decorationMarker:
				cells[y][x] = Empty
			default:
				id, known := ml.tiles.WallFromSymbol(symbol)
				if !known {
					unknown.Put(symbol)
				}
				cells[y][x] = id
			}
		}
	}

	grid, err := NewGrid(cells)
	if err != nil {
		return nil, err
	}
	data.Grid = grid

	unknown.Each(func(r rune) {
		data.UnknownSymbols = append(data.UnknownSymbols, r)
	})
	sort.Slice(data.UnknownSymbols, func(i, j int) bool { return data.UnknownSymbols[i] < data.UnknownSymbols[j] })
	return data, nil
}

// parseTileTokens splits a line into its tile runes and the decorations bound
// to its '@' slots. Definitions follow the tiles as "  >[sprite:name]" entries
// separated by ", ", matched to '@' slots left to right. "[sprite:name:left]"
// draws the sprite mirrored.
func parseTileTokens(line string, lineY int) ([]rune, []DecorationSpawn) {
	tilesPart := line
	definitions := ""
	if sepIndex := strings.Index(line, definitionSep); sepIndex != -1 {
		tilesPart = line[:sepIndex]
		definitions = line[sepIndex+len(definitionSep)-1:]
	}

	tiles := []rune(tilesPart)
	var slots []int
	for x, r := range tiles {
		if r == decorationMarker {
			slots = append(slots, x)
		}
	}

	var spawns []DecorationSpawn
	if definitions == "" {
		return tiles, spawns
	}
	for _, def := range strings.Split(definitions, ", ") {
		def = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(def), ">"))
		if !strings.HasPrefix(def, "[sprite:") || !strings.HasSuffix(def, "]") {
			continue
		}
		if len(spawns) >= len(slots) {
			break
		}
		body := strings.TrimSuffix(strings.TrimPrefix(def, "[sprite:"), "]")
		name, facing, _ := strings.Cut(body, ":")
		if name == "" {
			continue
		}
		spawns = append(spawns, DecorationSpawn{
			X:          slots[len(spawns)],
			Y:          lineY,
			Sprite:     name,
			FacingLeft: facing == "left",
		})
	}
	return tiles, spawns
}

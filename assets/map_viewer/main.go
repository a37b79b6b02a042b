package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"raycaster/internal/config"
	"raycaster/internal/logger"
	"raycaster/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
)

type mapInfo struct {
	Path string
	Data *world.MapData
	Err  error
}

type viewer struct {
	maps         []mapInfo
	mapIndex     int
	legendLines  []string
	legendScroll int
	sidebarTab   int
	tileManager  *world.TileManager
	lastErr      string
}

const (
	tabInfo = iota
	tabLegend
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()
	ensureRuntimeCWD(*configPath)

	cfg := config.MustLoadConfig(*configPath)

	// Initialize tile manager (needed by map loader).
	world.GlobalTileManager = world.NewTileManager()
	if err := world.GlobalTileManager.LoadTileConfig(cfg.Map.Tiles); err != nil {
		logger.Log.WithError(err).Warn("failed to load tile config")
	}

	paths := append([]string{cfg.Map.File}, flag.Args()...)
	v := &viewer{
		maps:        loadMaps(world.GlobalTileManager, paths),
		legendLines: buildLegendLines(world.GlobalTileManager),
		sidebarTab:  tabInfo,
		tileManager: world.GlobalTileManager,
	}
	if len(v.maps) == 0 {
		v.lastErr = "no maps loaded"
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Raycaster Map Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		logger.Log.WithError(err).Fatal("map viewer exited with error")
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if v.sidebarTab == tabInfo {
			v.sidebarTab = tabLegend
		} else {
			v.sidebarTab = tabInfo
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		v.sidebarTab = tabInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		v.sidebarTab = tabLegend
	}

	if len(v.maps) > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
			v.mapIndex = (v.mapIndex + 1) % len(v.maps)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
			v.mapIndex = (v.mapIndex + len(v.maps) - 1) % len(v.maps)
		}
	}

	if v.sidebarTab == tabLegend {
		_, wheelY := ebiten.Wheel()
		v.legendScroll -= int(wheelY * 14)
		if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
			v.legendScroll += 14
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
			v.legendScroll -= 14
		}
		v.legendScroll = max(0, min(v.legendScroll, v.maxLegendScroll()))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.maps) == 0 {
		ebitenutil.DebugPrintAt(screen, v.lastErr, 16, 16)
		return
	}

	m := v.maps[v.mapIndex]
	if m.Err != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("map %s failed to load: %v", m.Path, m.Err), 16, 16)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	sidebarX := padding + mapAreaW + padding

	drawMapPanel(screen, m, padding, padding, mapAreaW, mapAreaH, v.tileManager)
	drawSidebar(screen, m, sidebarX, padding, sidebarWidth, mapAreaH, v.sidebarTab, v.legendLines, v.legendScroll)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) maxLegendScroll() int {
	lineHeight := 14
	contentHeight := max(windowHeight-24-24-12, lineHeight)
	return max(len(v.legendLines)*lineHeight-contentHeight, 0)
}

func drawMapPanel(screen *ebiten.Image, m mapInfo, x, y, w, h int, tm *world.TileManager) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	grid := m.Data.Grid
	worldW, worldH := grid.Width(), grid.Height()
	tileSize := max(min(w/worldW, h/worldH), 2)

	originX := x + (w-worldW*tileSize)/2
	originY := y + (h-worldH*tileSize)/2

	for ty := 0; ty < worldH; ty++ {
		for tx := 0; tx < worldW; tx++ {
			id, _ := grid.At(tx, ty)
			drawX := originX + tx*tileSize
			drawY := originY + ty*tileSize
			vector.DrawFilledRect(screen, float32(drawX), float32(drawY), float32(tileSize), float32(tileSize), tileColor(tm, id), false)
		}
	}

	drawOverlays(screen, m, originX, originY, tileSize)
	ebitenutil.DebugPrintAt(screen, m.Path, x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, Esc to quit", x+12, y+24)
}

func drawOverlays(screen *ebiten.Image, m mapInfo, originX, originY, tileSize int) {
	if m.Data.HasStart {
		drawTileMarkerCircle(screen, originX, originY, tileSize, m.Data.StartX, m.Data.StartY, color.RGBA{50, 200, 255, 255})
	}
	for _, spawn := range m.Data.DecorationSpawns {
		drawTileMarkerRect(screen, originX, originY, tileSize, spawn.X, spawn.Y, color.RGBA{255, 220, 0, 255})
		if spawn.Sprite != "" {
			drawTileLetter(screen, originX, originY, tileSize, spawn.X, spawn.Y, strings.ToUpper(spawn.Sprite[:1]))
		}
	}
}

func drawSidebar(screen *ebiten.Image, m mapInfo, x, y, w, h int, tab int, legendLines []string, scroll int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	tabHeight := 24
	drawSidebarTabs(screen, x, y, w, tabHeight, tab)
	row := y + tabHeight + 12

	if tab == tabLegend {
		drawLegendList(screen, x, row, h-(row-y)-12, legendLines, scroll)
		return
	}

	stats := []string{
		fmt.Sprintf("Tiles: %dx%d", m.Data.Grid.Width(), m.Data.Grid.Height()),
		fmt.Sprintf("Decorations: %d", len(m.Data.DecorationSpawns)),
	}
	if len(m.Data.UnknownSymbols) > 0 {
		stats = append(stats, fmt.Sprintf("Unknown symbols: %s", string(m.Data.UnknownSymbols)))
	}
	for _, line := range stats {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}

	row += 8
	ebitenutil.DebugPrintAt(screen, "Cyan: start  Yellow: sprites", x+12, row)
}

func drawSidebarTabs(screen *ebiten.Image, x, y, w, h int, active int) {
	tabW := w / 2
	infoColor := color.RGBA{40, 40, 55, 255}
	legendColor := color.RGBA{40, 40, 55, 255}
	if active == tabInfo {
		infoColor = color.RGBA{70, 70, 95, 255}
	} else {
		legendColor = color.RGBA{70, 70, 95, 255}
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, "Info (1)", x+10, y+6)
	ebitenutil.DebugPrintAt(screen, "Legend (2)", x+tabW+10, y+6)
}

func drawLegendList(screen *ebiten.Image, x, y, h int, lines []string, scroll int) {
	lineHeight := 14
	startY := y - scroll
	for i, line := range lines {
		drawY := startY + i*lineHeight
		if drawY < y-lineHeight {
			continue
		}
		if drawY > y+h-lineHeight {
			break
		}
		ebitenutil.DebugPrintAt(screen, line, x+10, drawY)
	}
}

func drawTileMarkerCircle(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, clr color.RGBA) {
	centerX := float32(originX + tx*tileSize + tileSize/2)
	centerY := float32(originY + ty*tileSize + tileSize/2)
	radius := float32(tileSize) * 0.35
	vector.DrawFilledCircle(screen, centerX, centerY, radius, clr, true)
	vector.StrokeCircle(screen, centerX, centerY, radius, 1, color.RGBA{255, 255, 255, 255}, true)
}

func drawTileMarkerRect(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, clr color.RGBA) {
	size := max(tileSize/2, 3)
	drawX := originX + tx*tileSize + (tileSize-size)/2
	drawY := originY + ty*tileSize + (tileSize-size)/2
	vector.DrawFilledRect(screen, float32(drawX), float32(drawY), float32(size), float32(size), clr, false)
}

func drawTileLetter(screen *ebiten.Image, originX, originY, tileSize, tx, ty int, letter string) {
	if tileSize < 6 {
		return
	}
	ebitenutil.DebugPrintAt(screen, letter, originX+tx*tileSize+2, originY+ty*tileSize+1)
}

func tileColor(tm *world.TileManager, id world.WallID) color.RGBA {
	if id.IsWall() {
		return colorFromRGB(tm.WallColor(id), 255)
	}
	if data := tm.GetTileData(id); data != nil && data.FloorColor != [3]int{} {
		return colorFromRGB(data.FloorColor, 255)
	}
	return color.RGBA{60, 60, 70, 255}
}

func loadMaps(tm *world.TileManager, paths []string) []mapInfo {
	loader := world.NewMapLoader(tm)
	maps := make([]mapInfo, 0, len(paths))
	for _, path := range paths {
		data, err := loader.LoadMap(path)
		maps = append(maps, mapInfo{Path: path, Data: data, Err: err})
	}
	return maps
}

func buildLegendLines(tm *world.TileManager) []string {
	lines := []string{
		"Tiles (letter -> key/name)",
		"--------------------------",
	}
	for _, key := range tm.GetAllTileKeys() {
		data := tm.GetTileDataByKey(key)
		if data == nil || data.Letter == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s -> %s (%s)", data.Letter, key, data.Name))
	}

	lines = append(lines,
		"",
		"Notes",
		"-----",
		"+ = start position",
		"@ = sprite slot, bound by >[sprite:name] tokens",
		"unknown letters render as the fallback wall",
	)
	return lines
}

func colorFromRGB(rgb [3]int, a uint8) color.RGBA {
	return color.RGBA{uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2]), a}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

// ensureRuntimeCWD moves to the executable's directory when the config is
// not reachable from the current one.
func ensureRuntimeCWD(configPath string) {
	if _, err := os.Stat(configPath); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}

package game

import (
	"fmt"
	"image/color"
	"math"

	"raycaster/internal/simulation"
	"raycaster/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// UI colours
var (
	UIColorText       = color.RGBA{255, 255, 255, 255}
	UIColorPanel      = color.RGBA{0, 0, 0, 160}
	UIColorMapFloor   = color.RGBA{40, 40, 40, 200}
	UIColorMapPlayer  = color.RGBA{255, 220, 0, 255}
	UIColorMapFrustum = color.RGBA{255, 220, 0, 140}
	UIColorDecoration = color.RGBA{0, 200, 255, 255}
)

const (
	hudLineSpacing     = 14.0
	minimapMaxFraction = 0.3
)

// UISystem draws the HUD and the minimap over the 3D view
type UISystem struct {
	sim  *simulation.Simulation
	face *text.GoXFace

	showHUD     bool
	showMinimap bool
}

// NewUISystem creates a new UI system
func NewUISystem(sim *simulation.Simulation) *UISystem {
	cfg := sim.Config()
	return &UISystem{
		sim:         sim,
		face:        text.NewGoXFace(basicfont.Face7x13),
		showHUD:     cfg.Render.ShowHUD,
		showMinimap: cfg.Render.Minimap,
	}
}

// Apply handles the frame's toggle keys.
func (ui *UISystem) Apply(t Toggles) {
	if t.HUD {
		ui.showHUD = !ui.showHUD
	}
	if t.Minimap {
		ui.showMinimap = !ui.showMinimap
	}
}

// Draw renders all enabled overlays
func (ui *UISystem) Draw(screen *ebiten.Image) {
	if ui.showMinimap {
		ui.drawMinimap(screen)
	}
	if ui.showHUD {
		ui.drawHUD(screen)
	}
}

func (ui *UISystem) drawHUD(screen *ebiten.Image) {
	cam := ui.sim.Camera()
	pos := cam.Position()
	heading := math.Mod(cam.Angle()*180/math.Pi+450, 360) // 0 = north, clockwise

	lines := fmt.Sprintf("FPS %.0f  TPS %.0f\npos %.2f, %.2f  heading %.0f°\n%s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), pos.X(), pos.Y(), heading, ui.sim.Level().Name)
	if m := ui.sim.Monitor(); m != nil {
		stats := m.GetCurrentMetrics()
		lines += fmt.Sprintf("\nraycast %.2fms  floor %.2fms  sprites %d",
			float64(stats.RaycastTime.Microseconds())/1000, float64(stats.FloorTime.Microseconds())/1000, stats.Sprites)
	}

	screenW := screen.Bounds().Dx()
	panelW := float32(300)
	vector.DrawFilledRect(screen, float32(screenW)-panelW-4, 4, panelW, float32(4*hudLineSpacing+8), UIColorPanel, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(screenW)-float64(panelW), 8)
	op.ColorScale.ScaleWithColor(UIColorText)
	op.LineSpacing = hudLineSpacing
	text.Draw(screen, lines, ui.face, op)

	ebitenutil.DebugPrintAt(screen, "WASD/arrows move  Q/E strafe  Tab map  F1 HUD  Esc quit", 4, screen.Bounds().Dy()-16)
}

// drawMinimap draws the grid top-down in the top-left corner, scaled so it
// never covers more than a fraction of the screen.
func (ui *UISystem) drawMinimap(screen *ebiten.Image) {
	level := ui.sim.Level()
	grid := level.Grid
	tiles := ui.sim.Tiles()

	bounds := screen.Bounds()
	maxW := float64(bounds.Dx()) * minimapMaxFraction
	maxH := float64(bounds.Dy()) * minimapMaxFraction
	cell := math.Floor(math.Min(maxW/float64(grid.Width()), maxH/float64(grid.Height())))
	if cell < 1 {
		cell = 1
	}
	const ox, oy = 4.0, 4.0
	cs := float32(cell)

	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			id, _ := grid.At(col, row)
			clr := color.Color(UIColorMapFloor)
			if id != world.Empty {
				wc := tiles.WallColor(id)
				clr = color.RGBA{uint8(wc[0]), uint8(wc[1]), uint8(wc[2]), 220}
			}
			vector.DrawFilledRect(screen, float32(ox+float64(col)*cell), float32(oy+float64(row)*cell), cs, cs, clr, false)
		}
	}

	toScreen := func(x, y float64) (float32, float32) {
		return float32(ox + x*cell), float32(oy + y*cell)
	}

	for _, d := range level.Decorations {
		x, y := toScreen(d.Position.X(), d.Position.Y())
		vector.DrawFilledRect(screen, x-cs/4, y-cs/4, cs/2, cs/2, UIColorDecoration, false)
	}

	pose := ui.sim.Camera().Pose()
	px, py := toScreen(pose.Position.X(), pose.Position.Y())
	for _, edge := range []float64{-1, 1} {
		ray := pose.Direction.Add(pose.Plane.Mul(edge)).Mul(3)
		ex, ey := toScreen(pose.Position.X()+ray.X(), pose.Position.Y()+ray.Y())
		vector.StrokeLine(screen, px, py, ex, ey, 1, UIColorMapFrustum, true)
	}
	vector.DrawFilledCircle(screen, px, py, float32(math.Max(cell/3, 2)), UIColorMapPlayer, true)
}

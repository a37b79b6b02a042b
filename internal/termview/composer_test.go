package termview

import (
	"testing"

	"raycaster/internal/config"
	"raycaster/internal/graphics"
	"raycaster/internal/raycast"
	"raycaster/internal/world"

	"github.com/gdamore/tcell/v2"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func TestShade(t *testing.T) {
	tests := []struct {
		d    float64
		want rune
	}{
		{0, '█'},
		{2.4, '█'},
		{3, '▓'},
		{6, '▒'},
		{100, '░'},
		{-1, '█'},
	}
	for _, tc := range tests {
		if got := Shade(tc.d); got != tc.want {
			t.Errorf("Shade(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestSpriteGlyph(t *testing.T) {
	if got := SpriteGlyph("barrel"); got != 'B' {
		t.Errorf("SpriteGlyph(barrel) = %q", got)
	}
	if got := SpriteGlyph(""); got != '*' {
		t.Errorf("SpriteGlyph(\"\") = %q", got)
	}
}

func TestComposerPresent(t *testing.T) {
	const w, h = 20, 10
	screen := newTestScreen(t, w, h)
	cfg := config.Default()
	atlas := graphics.NewAtlas(8)
	atlas.SetProceduralFallback(true)
	floorTex, err := atlas.Load(cfg.Render.FloorTexture)
	if err != nil {
		t.Fatalf("Load floor: %v", err)
	}
	ceilTex, err := atlas.Load(cfg.Render.CeilingTexture)
	if err != nil {
		t.Fatalf("Load ceiling: %v", err)
	}

	frame := &raycast.Frame{
		Width:  w,
		Height: h,
		Walls: []raycast.WallCommand{
			{Column: 5, Wall: world.WallBrick, DrawTop: 3, DrawBottom: 6, Depth: 1, Side: raycast.SideRow},
		},
		Floor: []raycast.Sample{{X: 0, Y: 9, U: 0.1, V: 0.1}},
		Ceiling: []raycast.Sample{
			{X: 0, Y: 0, U: 0.1, V: 0.1, Ceiling: true},
		},
		ZBuffer:        make([]float64, w),
		FloorTexture:   floorTex,
		CeilingTexture: ceilTex,
	}

	c := NewComposer(screen, cfg, nil, atlas)
	if err := c.Present(frame); err != nil {
		t.Fatalf("Present: %v", err)
	}

	for y := 3; y <= 6; y++ {
		if r, _, _, _ := screen.GetContent(5, y); r != '█' {
			t.Fatalf("wall cell (5,%d) = %q", y, r)
		}
	}
	if r, _, _, _ := screen.GetContent(5, 2); r == '█' {
		t.Fatalf("wall drawn above DrawTop")
	}
	if r, _, _, _ := screen.GetContent(0, 9); r != '.' {
		t.Fatalf("floor cell = %q", r)
	}
}

func TestComposerSpritesRespectZBuffer(t *testing.T) {
	const w, h = 20, 10
	screen := newTestScreen(t, w, h)
	cfg := config.Default()

	zbuf := make([]float64, w)
	for i := range zbuf {
		zbuf[i] = 10
	}
	zbuf[10] = 1 // wall in front of the sprite in one column

	frame := &raycast.Frame{
		Width:  w,
		Height: h,
		Sprites: []raycast.Placement{{
			Billboard: world.NewDecoration(0, 0, "lamp", false),
			Depth:     3,
			ScreenX:   10,
			Size:      4,
			Top:       4,
		}},
		ZBuffer: zbuf,
	}

	c := NewComposer(screen, cfg, world.NewTileManager(), nil)
	if err := c.Present(frame); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if r, _, _, _ := screen.GetContent(9, 5); r != 'L' {
		t.Errorf("sprite cell (9,5) = %q, want L", r)
	}
	if r, _, _, _ := screen.GetContent(10, 5); r == 'L' {
		t.Errorf("sprite drawn over a nearer wall")
	}
}

func TestComposerNoScreen(t *testing.T) {
	c := NewComposer(nil, config.Default(), nil, nil)
	if err := c.Present(&raycast.Frame{}); err == nil {
		t.Fatalf("expected error without a screen")
	}
}

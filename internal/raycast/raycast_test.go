package raycast

import (
	"math"
	"strings"
	"testing"
	"time"

	"raycaster/internal/camera"
	"raycaster/internal/graphics"
	"raycaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	screenW = 640
	screenH = 480
	fovHalf = 0.6
)

const room = `##########
#........#
#........#
#........#
#........#
#........#
#........#
#........#
#........#
##########
`

func loadGrid(t *testing.T, src string) *world.Grid {
	t.Helper()
	data, err := world.NewMapLoader(world.NewTileManager()).Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse map: %v", err)
	}
	return data.Grid
}

func pose(t *testing.T, x, y, dx, dy float64) camera.Pose {
	t.Helper()
	c, err := camera.New(mgl64.Vec2{x, y}, mgl64.Vec2{dx, dy}, fovHalf)
	if err != nil {
		t.Fatalf("camera: %v", err)
	}
	return c.Pose()
}

func TestRoomCentreColumn(t *testing.T) {
	wc := NewWallCaster(loadGrid(t, room), 0, 0.5)
	col := wc.CastColumn(pose(t, 3, 3, 0, -1), screenW/2, screenW, screenH)

	if !col.HasHit {
		t.Fatalf("centre column should hit the north wall")
	}
	if col.Hit.Side != SideRow {
		t.Errorf("side = %v, want row", col.Hit.Side)
	}
	// the north wall occupies row 0, so its face is at y = 1
	if math.Abs(col.Hit.Distance-2.0) > 1e-12 {
		t.Errorf("distance = %v, want 2", col.Hit.Distance)
	}
	if col.Hit.CellX != 3 || col.Hit.CellY != 0 {
		t.Errorf("hit cell = (%d,%d), want (3,0)", col.Hit.CellX, col.Hit.CellY)
	}
	if col.Hit.Wall != world.WallBrick {
		t.Errorf("wall = %d, want brick", col.Hit.Wall)
	}
	if math.Abs(col.StripHeight-screenH/2.0) > 1e-9 {
		t.Errorf("strip height = %v, want %v", col.StripHeight, screenH/2.0)
	}
	if col.DrawTop != 120 || col.DrawBottom != 360 {
		t.Errorf("strip rows = %d..%d, want 120..360", col.DrawTop, col.DrawBottom)
	}
}

func TestStraightCorridorDistance(t *testing.T) {
	grid := loadGrid(t, "#########\n#.......#\n#########\n")
	wc := NewWallCaster(grid, 0, 0.5)

	// the east wall face is at x = 8
	for n := 1; n <= 6; n++ {
		p := pose(t, float64(8-n), 1.5, 1, 0)
		col := wc.CastColumn(p, screenW/2, screenW, screenH)
		if !col.HasHit {
			t.Fatalf("n=%d: no hit", n)
		}
		if math.Abs(col.Hit.Distance-float64(n)) > 1e-9 {
			t.Errorf("n=%d: distance = %v", n, col.Hit.Distance)
		}
		if col.Hit.Side != SideColumn {
			t.Errorf("n=%d: side = %v, want column", n, col.Hit.Side)
		}
		if want := float64(screenH) / float64(n); math.Abs(col.StripHeight-want) > 1e-9 {
			t.Errorf("n=%d: strip height = %v, want %v", n, col.StripHeight, want)
		}
	}
}

func TestTextureUMirrorsAcrossFaces(t *testing.T) {
	grid := loadGrid(t, `###########
#.........#
#.........#
#.........#
#.........#
#....#....#
#.........#
#.........#
#.........#
###########
`)
	wc := NewWallCaster(grid, 0, 0.5)

	tests := []struct {
		name  string
		a, b  camera.Pose
		side  Side
		wantA float64
		wantB float64
	}{
		{
			name:  "row faces",
			a:     pose(t, 5.3, 7.5, 0, -1),
			b:     pose(t, 5.3, 3.5, 0, 1),
			side:  SideRow,
			wantA: 0.7,
			wantB: 0.3,
		},
		{
			name:  "column faces",
			a:     pose(t, 3.5, 5.3, 1, 0),
			b:     pose(t, 7.5, 5.3, -1, 0),
			side:  SideColumn,
			wantA: 0.7,
			wantB: 0.3,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ha, okA := wc.CastRay(tc.a.Position, tc.a.Direction)
			hb, okB := wc.CastRay(tc.b.Position, tc.b.Direction)
			if !okA || !okB {
				t.Fatalf("expected both rays to hit")
			}
			if ha.CellX != 5 || ha.CellY != 5 || hb.CellX != 5 || hb.CellY != 5 {
				t.Fatalf("rays hit %+v and %+v, want the pillar", ha, hb)
			}
			if ha.Side != tc.side || hb.Side != tc.side {
				t.Fatalf("sides = %v,%v want %v", ha.Side, hb.Side, tc.side)
			}
			if math.Abs(ha.U-tc.wantA) > 1e-9 || math.Abs(hb.U-tc.wantB) > 1e-9 {
				t.Errorf("U = %v,%v want %v,%v", ha.U, hb.U, tc.wantA, tc.wantB)
			}
			if math.Abs(ha.U-(1-hb.U)) > 1e-9 {
				t.Errorf("faces are not mirrored: %v vs %v", ha.U, hb.U)
			}
		})
	}
}

func TestTextureURange(t *testing.T) {
	wc := NewWallCaster(loadGrid(t, room), 0, 0.5)
	c, _ := camera.New(mgl64.Vec2{3, 3}, mgl64.Vec2{0, -1}, fovHalf)
	for turn := 0; turn < 64; turn++ {
		cols, _ := wc.CastFrame(c.Pose(), 97, screenH, nil, nil)
		for _, col := range cols {
			if !col.HasHit {
				t.Fatalf("closed room: column %d missed", col.X)
			}
			if col.Hit.U < 0 || col.Hit.U >= 1 {
				t.Fatalf("turn %d column %d: U = %v", turn, col.X, col.Hit.U)
			}
			if col.Hit.Distance < 0 {
				t.Fatalf("negative distance %v", col.Hit.Distance)
			}
		}
		c.Rotate(2 * math.Pi / 64)
	}
}

func TestRaysLeavingTheGridMiss(t *testing.T) {
	open := loadGrid(t, "....\n....\n....\n")
	wc := NewWallCaster(open, 0, 0.5)

	cols, zbuf := wc.CastFrame(pose(t, 1.5, 1.5, 1, 0.2), 32, 24, nil, nil)
	for x, col := range cols {
		if col.HasHit {
			t.Fatalf("column %d hit in an open map", x)
		}
		if !math.IsInf(zbuf[x], 1) {
			t.Fatalf("z-buffer[%d] = %v, want +Inf", x, zbuf[x])
		}
	}

	// a camera outside the grid must not panic either
	if _, ok := wc.CastRay(mgl64.Vec2{-3, -3}, mgl64.Vec2{1, 1}); ok {
		t.Fatalf("ray from outside the grid should miss")
	}
}

func TestStepCap(t *testing.T) {
	grid := loadGrid(t, room)
	if got := NewWallCaster(grid, 0, 0.5).StepCap(); got != 22 {
		t.Errorf("derived step cap = %d, want 22", got)
	}
	short := NewWallCaster(grid, 1, 0.5)
	if _, ok := short.CastRay(mgl64.Vec2{3, 3}, mgl64.Vec2{0, -1}); ok {
		t.Errorf("one step should not reach the wall three cells away")
	}
}

func TestProjectStripClamps(t *testing.T) {
	h, top, drawTop, drawBottom := ProjectStrip(0, screenH, 0.5)
	if math.IsInf(h, 0) || math.IsNaN(h) {
		t.Fatalf("zero distance produced %v", h)
	}
	if top >= 0 || drawTop != 0 || drawBottom != screenH-1 {
		t.Errorf("strip = top %v rows %d..%d", top, drawTop, drawBottom)
	}
}

func TestRowDistance(t *testing.T) {
	fc := NewFloorCaster(0.5, 0.5, true, true)
	for _, y := range []int{0, 100, screenH / 2} {
		if _, ok := fc.RowDistance(y, screenH); ok {
			t.Errorf("row %d is at or above the horizon but has a distance", y)
		}
	}
	prev := math.Inf(1)
	for y := screenH/2 + 1; y < screenH; y++ {
		d, ok := fc.RowDistance(y, screenH)
		if !ok {
			t.Fatalf("row %d below the horizon has no distance", y)
		}
		if d >= prev {
			t.Fatalf("row distance not strictly decreasing at row %d: %v >= %v", y, d, prev)
		}
		prev = d
	}
	if d, _ := fc.RowDistance(screenH/2+1, screenH); d != float64(screenH)/2 {
		t.Errorf("first row distance = %v, want %v", d, float64(screenH)/2)
	}
}

func TestFloorCastCullsWalls(t *testing.T) {
	wc := NewWallCaster(loadGrid(t, room), 0, 0.5)
	fc := NewFloorCaster(0.5, 0.5, true, true)
	p := pose(t, 3, 3, 0, -1)

	cols, _ := wc.CastFrame(p, screenW, screenH, nil, nil)
	floor, ceiling := fc.Cast(p, screenW, screenH, cols, nil, nil)
	if len(floor) == 0 || len(ceiling) == 0 {
		t.Fatalf("expected floor and ceiling samples, got %d and %d", len(floor), len(ceiling))
	}
	for _, s := range floor {
		if s.Y <= cols[s.X].DrawBottom || s.Y <= screenH/2 {
			t.Fatalf("floor sample %+v overlaps the wall strip ending at %d", s, cols[s.X].DrawBottom)
		}
		if s.U < 0 || s.U >= 1 || s.V < 0 || s.V >= 1 || s.Ceiling {
			t.Fatalf("bad floor sample %+v", s)
		}
	}
	for _, s := range ceiling {
		if s.Y >= cols[s.X].DrawTop || !s.Ceiling {
			t.Fatalf("ceiling sample %+v overlaps the wall strip starting at %d", s, cols[s.X].DrawTop)
		}
	}

	// bottom row, centre column: the floor point straight ahead of the camera
	rowDist, _ := fc.RowDistance(screenH-1, screenH)
	wantV := (3 - rowDist) - math.Floor(3-rowDist)
	found := false
	for _, s := range floor {
		if s.Y == screenH-1 && s.X == screenW/2 {
			found = true
			if math.Abs(s.V-wantV) > 1e-9 {
				t.Errorf("V = %v, want %v", s.V, wantV)
			}
		}
	}
	if !found {
		t.Errorf("no sample for the bottom centre pixel")
	}
}

func TestFloorCastToggles(t *testing.T) {
	p := pose(t, 3, 3, 0, -1)
	floor, ceiling := NewFloorCaster(0.5, 0.5, true, false).Cast(p, 64, 48, nil, nil, nil)
	if len(floor) == 0 || len(ceiling) != 0 {
		t.Errorf("floor only: got %d floor, %d ceiling samples", len(floor), len(ceiling))
	}
	floor, ceiling = NewFloorCaster(0.5, 0.5, false, false).Cast(p, 64, 48, nil, floor, ceiling)
	if len(floor) != 0 || len(ceiling) != 0 {
		t.Errorf("disabled caster produced samples")
	}
	// with no wall columns nothing is culled: every row below the horizon is filled
	floor, _ = NewFloorCaster(0.5, 0.5, true, false).Cast(p, 64, 48, nil, nil, nil)
	if len(floor) != 64*23 {
		t.Errorf("uncovered floor samples = %d, want %d", len(floor), 64*23)
	}
}

func spriteProjector() *SpriteProjector {
	return NewSpriteProjector(SpriteOptions{
		Scale:        2.0,
		DepthScale:   1.0,
		NearPlane:    0.05,
		TextureSize:  64,
		Horizon:      0.5,
		CameraHeight: 0.5,
	})
}

func TestSpriteStraightAhead(t *testing.T) {
	sp := spriteProjector()
	p := pose(t, 3, 3, 0, -1)

	pl, ok := sp.Project(p, world.NewDecoration(3, 1, "barrel", false), screenW, screenH)
	if !ok {
		t.Fatalf("sprite ahead was rejected")
	}
	if math.Abs(pl.ScreenX-screenW/2) > 1e-9 {
		t.Errorf("screen x = %v, want %v", pl.ScreenX, screenW/2)
	}
	if math.Abs(pl.Scale-1.0) > 1e-12 || math.Abs(pl.Depth-2.0) > 1e-12 {
		t.Errorf("scale = %v depth = %v, want 1 and 2", pl.Scale, pl.Depth)
	}
	if math.Abs(pl.DepthKey+2.0) > 1e-12 {
		t.Errorf("depth key = %v, want -2", pl.DepthKey)
	}
	if math.Abs(pl.Size-64) > 1e-9 {
		t.Errorf("size = %v, want 64", pl.Size)
	}

	// east of the camera appears right of centre
	right, ok := sp.Project(p, world.NewDecoration(4, 1, "barrel", false), screenW, screenH)
	if !ok || right.ScreenX <= pl.ScreenX {
		t.Errorf("sprite to the east projected at %v", right.ScreenX)
	}

	if _, ok := sp.Project(p, world.NewDecoration(3, 5, "barrel", false), screenW, screenH); ok {
		t.Errorf("sprite behind the camera was emitted")
	}
	if _, ok := sp.Project(p, world.NewDecoration(3, 2.99, "barrel", false), screenW, screenH); ok {
		t.Errorf("sprite inside the near plane was emitted")
	}
}

func TestProjectAllSortsFarFirst(t *testing.T) {
	sp := spriteProjector()
	p := pose(t, 3, 8, 0, -1)
	items := []Billboard{
		world.NewDecoration(3, 6, "near", false),
		world.NewDecoration(3, 9, "behind", false),
		world.NewDecoration(3, 2, "far", false),
		world.NewDecoration(4, 4, "middle", false),
	}
	got := sp.ProjectAll(p, items, screenW, screenH, nil)
	if len(got) != 3 {
		t.Fatalf("placements = %d, want 3", len(got))
	}
	order := []string{"far", "middle", "near"}
	for i, name := range order {
		if got[i].Billboard.Visual() != name {
			t.Errorf("placement %d = %s, want %s", i, got[i].Billboard.Visual(), name)
		}
	}
}

func TestSpriteColumnsDepthTest(t *testing.T) {
	sp := spriteProjector()
	p := pose(t, 3, 3, 0, -1)
	pl, _ := sp.Project(p, world.NewDecoration(3, 1, "barrel", false), screenW, screenH)

	zbuf := make([]float64, screenW)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}
	cols := pl.Columns(screenW, zbuf, nil)
	if len(cols) != 64 {
		t.Fatalf("visible columns = %d, want 64", len(cols))
	}
	if cols[0].X != 288 || cols[0].U >= cols[1].U {
		t.Errorf("first column %+v", cols[0])
	}

	// a nearer wall over the left half hides those columns
	for x := 0; x < screenW/2; x++ {
		zbuf[x] = 1.0
	}
	cols = pl.Columns(screenW, zbuf, cols)
	if len(cols) != 32 || cols[0].X != screenW/2 {
		t.Fatalf("after occlusion: %d columns starting at %d", len(cols), cols[0].X)
	}

	mirrored, _ := sp.Project(p, world.NewDecoration(3, 1, "barrel", true), screenW, screenH)
	plain := pl.Columns(screenW, zbuf, nil)
	flipped := mirrored.Columns(screenW, zbuf, nil)
	for i := range plain {
		if math.Abs(plain[i].U-(1-flipped[i].U)) > 1e-9 {
			t.Fatalf("column %d: U %v is not mirrored by %v", i, plain[i].U, flipped[i].U)
		}
	}
}

type recordingProfiler struct {
	phases []string
}

func (r *recordingProfiler) ProfiledFunction(name string, fn func()) time.Duration {
	r.phases = append(r.phases, name)
	fn()
	return 0
}

// staticTextures hands out fixed atlas handles.
type staticTextures struct {
	walls   map[world.WallID]graphics.TextureID
	sprites map[string]graphics.TextureID
	floor   graphics.TextureID
	ceiling graphics.TextureID
}

func (s staticTextures) WallTexture(id world.WallID) graphics.TextureID {
	if tex, ok := s.walls[id]; ok {
		return tex
	}
	return graphics.NoTexture
}

func (s staticTextures) SpriteTexture(visual string) graphics.TextureID {
	if tex, ok := s.sprites[visual]; ok {
		return tex
	}
	return graphics.NoTexture
}

func (s staticTextures) SurfaceTextures() (graphics.TextureID, graphics.TextureID) {
	return s.floor, s.ceiling
}

func TestBuilderAssemblesFrame(t *testing.T) {
	grid := loadGrid(t, room)
	textures := staticTextures{
		walls:   map[world.WallID]graphics.TextureID{world.WallBrick: 2},
		sprites: map[string]graphics.TextureID{"barrel": 3},
		floor:   0,
		ceiling: 1,
	}
	b := NewBuilder(
		NewWallCaster(grid, 0, 0.5),
		NewFloorCaster(0.5, 0.5, true, true),
		spriteProjector(),
		textures,
	)
	prof := &recordingProfiler{}
	b.SetProfiler(prof)

	items := []Billboard{world.NewDecoration(3, 1.5, "barrel", false)}
	f := b.Build(pose(t, 3, 3, 0, -1), 160, 120, items)

	if f.Width != 160 || f.Height != 120 || f.Horizon != 0.5 {
		t.Fatalf("frame geometry %dx%d horizon %v", f.Width, f.Height, f.Horizon)
	}
	if f.FloorTexture != 0 || f.CeilingTexture != 1 {
		t.Fatalf("surface textures = %d, %d", f.FloorTexture, f.CeilingTexture)
	}
	if len(f.Walls) != 160 || len(f.ZBuffer) != 160 {
		t.Fatalf("walls = %d zbuffer = %d, want 160", len(f.Walls), len(f.ZBuffer))
	}
	for _, w := range f.Walls {
		if w.Texture != 2 {
			t.Fatalf("wall %d texture = %d, want 2", w.Column, w.Texture)
		}
		if w.Depth != f.ZBuffer[w.Column] {
			t.Fatalf("wall %d depth %v != z-buffer %v", w.Column, w.Depth, f.ZBuffer[w.Column])
		}
	}
	if len(f.Sprites) != 1 || f.Sprites[0].Texture != 3 {
		t.Fatalf("sprites = %+v", f.Sprites)
	}
	if want := []string{PhaseWalls, PhaseFloor, PhaseSprites}; strings.Join(prof.phases, ",") != strings.Join(want, ",") {
		t.Errorf("phases = %v, want %v", prof.phases, want)
	}

	// buffers are reused between frames
	walls := &f.Walls[0]
	f2 := b.Build(pose(t, 3, 3, 0, -1), 160, 120, nil)
	if &f2.Walls[0] != walls || len(f2.Sprites) != 0 {
		t.Errorf("frame buffers were reallocated or stale sprites kept")
	}
}

func TestBuilderWithoutTextures(t *testing.T) {
	b := NewBuilder(
		NewWallCaster(loadGrid(t, room), 0, 0.5),
		NewFloorCaster(0.5, 0.5, true, true),
		spriteProjector(),
		nil,
	)
	items := []Billboard{world.NewDecoration(3, 1.5, "barrel", false)}
	f := b.Build(pose(t, 3, 3, 0, -1), 40, 30, items)
	if f.FloorTexture != graphics.NoTexture || f.CeilingTexture != graphics.NoTexture {
		t.Fatalf("surface textures = %d, %d", f.FloorTexture, f.CeilingTexture)
	}
	if f.Walls[0].Texture != graphics.NoTexture || f.Sprites[0].Texture != graphics.NoTexture {
		t.Fatalf("commands carry textures without a resolver")
	}
}

package world

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTileManagerDefaults(t *testing.T) {
	tm := NewTileManager()

	tests := []struct {
		symbol rune
		want   WallID
		known  bool
	}{
		{'.', Empty, true},
		{'#', WallBrick, true},
		{'X', WallFallback, false},
		{'~', WallFallback, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.symbol), func(t *testing.T) {
			got, known := tm.WallFromSymbol(tc.symbol)
			if got != tc.want || known != tc.known {
				t.Fatalf("WallFromSymbol(%q) = %d,%v, want %d,%v", tc.symbol, got, known, tc.want, tc.known)
			}
		})
	}

	if got := tm.TextureName(WallBrick); got != "brick" {
		t.Errorf("brick texture = %q", got)
	}
	if got := tm.TextureName(999); got != "fallback" {
		t.Errorf("unknown id texture = %q, want fallback", got)
	}
	if got := tm.SymbolFor(WallBrick); got != '#' {
		t.Errorf("SymbolFor(brick) = %q", got)
	}
}

func TestTileManagerLoadConfig(t *testing.T) {
	testConfig := `fallback: missing
tiles:
  empty:
    name: "Floor"
    letter: "."
    empty: true
  brick:
    name: "Brick"
    letter: "#"
    texture: "brick"
    wall_color: [178, 34, 34]
  stone:
    name: "Stone"
    letter: "S"
    texture: "stone"
    wall_color: [120, 120, 120]
  wood:
    name: "Wood"
    letter: "W"
    texture: "wood"
`
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("write tiles: %v", err)
	}

	tm := NewTileManager()
	if err := tm.LoadTileConfig(path); err != nil {
		t.Fatalf("Failed to load tile config: %v", err)
	}

	stone, ok := tm.GetTileTypeFromKey("stone")
	if !ok {
		t.Fatalf("stone key not mapped")
	}
	wood, _ := tm.GetTileTypeFromKey("wood")
	if stone < firstDynamicWall || wood != stone+1 {
		t.Fatalf("dynamic ids not assigned in key order: stone=%d wood=%d", stone, wood)
	}
	if id, known := tm.WallFromSymbol('S'); !known || id != stone {
		t.Fatalf("'S' resolved to %d,%v", id, known)
	}
	if got := tm.WallColor(stone); got != [3]int{120, 120, 120} {
		t.Errorf("stone colour = %v", got)
	}
	// the named fallback did not exist, so it is synthesised
	if id, ok := tm.GetTileTypeFromKey("missing"); !ok || id != WallFallback {
		t.Fatalf("fallback key mapped to %d,%v", id, ok)
	}
	if got := tm.Textures(); len(got) != 4 {
		t.Errorf("Textures() = %v, want brick, fallback, stone and wood", got)
	}
}

func TestTileManagerRejectsBadConfig(t *testing.T) {
	tests := map[string]string{
		"no tiles":    "fallback: x\n",
		"long letter": "tiles:\n  a:\n    letter: \"ab\"\n",
		"not yaml":    "tiles: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if err := NewTileManager().LoadTileData([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"raycaster/internal/graphics"
)

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.txt")
	if err := os.WriteFile(mapPath, []byte(testMap), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}

	cfg := newTestConfig(t)
	cfg.Map.File = mapPath
	cfg.Map.Tiles = filepath.Join(dir, "missing-tiles.yaml")

	sim, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if sim.Level().Grid.Width() != 10 {
		t.Errorf("grid width = %d", sim.Level().Grid.Width())
	}
	if len(sim.Level().Decorations) != 1 {
		t.Errorf("decorations = %d", len(sim.Level().Decorations))
	}

	cfg.Map.File = filepath.Join(dir, "missing.txt")
	if _, err := FromConfig(cfg, nil); err == nil {
		t.Fatalf("expected error for a missing map")
	}
}

func TestFromConfigMissingTexture(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.txt")
	if err := os.WriteFile(mapPath, []byte(testMap), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}

	cfg := newTestConfig(t)
	cfg.Map.File = mapPath
	cfg.Render.ProceduralTextures = false

	_, err := FromConfig(cfg, nil)
	if !errors.Is(err, graphics.ErrMissingTexture) {
		t.Fatalf("FromConfig with an empty texture dir = %v, want ErrMissingTexture", err)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Planet.Resolution < 2 {
		t.Errorf("expected default resolution >= 2, got %d", cfg.Planet.Resolution)
	}
	if cfg.Planet.Radius <= 0 {
		t.Errorf("expected positive default radius, got %f", cfg.Planet.Radius)
	}
	if len(cfg.Planet.Layers) == 0 {
		t.Fatal("expected default noise layers")
	}
	if cfg.Planet.Layers[0].Octaves < 1 || cfg.Planet.Layers[0].Octaves > 6 {
		t.Errorf("expected octaves in [1,6], got %d", cfg.Planet.Layers[0].Octaves)
	}
}

func TestDerivedCounts(t *testing.T) {
	cfg := Defaults()
	r := cfg.Planet.Resolution

	if cfg.Derived.VerticesPerFace != r*r {
		t.Errorf("VerticesPerFace = %d, want %d", cfg.Derived.VerticesPerFace, r*r)
	}
	if cfg.Derived.IndicesPerFace != 6*(r-1)*(r-1) {
		t.Errorf("IndicesPerFace = %d, want %d", cfg.Derived.IndicesPerFace, 6*(r-1)*(r-1))
	}
	if cfg.Derived.TotalTriangles != 12*(r-1)*(r-1) {
		t.Errorf("TotalTriangles = %d, want %d", cfg.Derived.TotalTriangles, 12*(r-1)*(r-1))
	}
	if cfg.Derived.ActiveLayers != len(cfg.Planet.Layers) {
		t.Errorf("ActiveLayers = %d, want %d", cfg.Derived.ActiveLayers, len(cfg.Planet.Layers))
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.yaml")
	data := []byte(`
planet:
  resolution: 8
  layers:
    - name: flat
      frequency: 1
      strength: 0
      octaves: 1
      lacunarity: 2
      persistence: 0.5
      offset: [1, 2, 3]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Planet.Resolution != 8 {
		t.Errorf("expected overridden resolution 8, got %d", cfg.Planet.Resolution)
	}
	// Untouched values keep their defaults
	if cfg.Planet.Radius != Defaults().Planet.Radius {
		t.Errorf("expected default radius to survive overlay, got %f", cfg.Planet.Radius)
	}
	if len(cfg.Planet.Layers) != 1 {
		t.Fatalf("expected layers to be replaced, got %d", len(cfg.Planet.Layers))
	}
	if cfg.Planet.Layers[0].Offset != [3]float64{1, 2, 3} {
		t.Errorf("unexpected offset %v", cfg.Planet.Layers[0].Offset)
	}
	if cfg.Derived.ActiveLayers != 0 {
		t.Errorf("expected zero active layers, got %d", cfg.Derived.ActiveLayers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Defaults()
	cfg.Planet.Seed = 99

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot failed: %v", err)
	}
	if loaded.Planet.Seed != 99 {
		t.Errorf("expected seed 99, got %d", loaded.Planet.Seed)
	}
	if len(loaded.Planet.Layers) != len(cfg.Planet.Layers) {
		t.Errorf("expected %d layers, got %d", len(cfg.Planet.Layers), len(loaded.Planet.Layers))
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Defaults()
	clone := cfg.Clone()
	clone.Planet.Layers[0].Strength = 42

	if cfg.Planet.Layers[0].Strength == 42 {
		t.Error("mutating clone layers changed the original")
	}
}

package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
)

func generate(t *testing.T) *planet.Result {
	t.Helper()
	g, err := planet.NewGenerator(planet.Settings{Resolution: 3, Radius: 2, Normals: planet.NormalsSphere}, planet.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	res, err := g.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteResult(generate(t)); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesFaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := generate(t)
	for i := 0; i < 2; i++ {
		if err := om.WriteResult(res); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "faces.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "rebuild,"); n != 1 {
		t.Errorf("expected one header row, found %d", n)
	}

	var records []FaceRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2*planet.NumFaces {
		t.Fatalf("got %d records, want %d", len(records), 2*planet.NumFaces)
	}
	if records[0].Face != "up" || records[0].Vertices != 9 || records[0].Triangles != 8 {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if records[planet.NumFaces].Rebuild != 2 {
		t.Errorf("second batch rebuild = %d, want 2", records[planet.NumFaces].Rebuild)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot not loadable: %v", err)
	}
}

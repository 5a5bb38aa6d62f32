// Package viewer is an interactive raylib window that regenerates the planet
// whenever a slider changes.
package viewer

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
	"github.com/pthm-cable/quadsphere/render"
	"github.com/pthm-cable/quadsphere/scene"
	"github.com/pthm-cable/quadsphere/telemetry"
)

const panelWidth = 300

// gpuFace is one uploaded face. buf keeps the Go-side buffers alive while
// the GPU mesh references them.
type gpuFace struct {
	mesh   rl.Mesh
	buf    *render.Buffers
	loaded bool
}

// Viewer owns the raylib window state. Create it after rl.InitWindow.
type Viewer struct {
	cfg    *config.Config
	params Params
	gen    *planet.Generator
	store  *scene.Store
	perf   *telemetry.PerfCollector
	logger *slog.Logger

	faces    [planet.NumFaces]gpuFace
	material rl.Material
	camera   rl.Camera3D

	needsRegen bool
	lastErr    error
}

// New creates a viewer for cfg.
func New(cfg *config.Config, gen *planet.Generator, logger *slog.Logger) *Viewer {
	camDist := float32(cfg.Planet.Radius * 3)
	return &Viewer{
		cfg:      cfg,
		params:   ParamsFromConfig(&cfg.Planet),
		gen:      gen,
		store:    scene.NewStore(),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logger:   logger,
		material: rl.LoadMaterialDefault(),
		camera: rl.Camera3D{
			Position:   rl.NewVector3(camDist, camDist*0.6, camDist),
			Target:     rl.NewVector3(0, 0, 0),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       45,
			Projection: rl.CameraPerspective,
		},
		needsRegen: true,
	}
}

// Run draws frames until the window closes or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) {
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if v.needsRegen {
			v.regenerate(ctx)
			v.needsRegen = false
		}
		v.perf.RecordFrame()

		rl.UpdateCamera(&v.camera, rl.CameraOrbital)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.BeginMode3D(v.camera)
		for i := range v.faces {
			if v.faces[i].loaded {
				rl.DrawMesh(v.faces[i].mesh, v.material, rl.MatrixIdentity())
			}
		}
		rl.EndMode3D()

		v.drawPanel()
		rl.EndDrawing()
	}
}

// Unload releases GPU resources.
func (v *Viewer) Unload() {
	for i := range v.faces {
		v.unloadFace(i)
	}
}

func (v *Viewer) regenerate(ctx context.Context) {
	cfg := v.params.Apply(v.cfg)
	s, err := planet.SettingsFromConfig(&cfg.Planet)
	if err == nil {
		err = v.gen.Reconfigure(s)
	}
	var res *planet.Result
	if err == nil {
		res, err = v.gen.Rebuild(ctx, v.store)
	}
	v.lastErr = err
	if err != nil {
		v.logger.Error("regenerate failed", "error", err)
		return
	}
	v.perf.Record(res)

	shading := v.store.Shading()
	v.store.Drain(func(tag scene.FaceTag, mesh *planet.MeshData) {
		buf, err := render.FromMesh(mesh, shading, render.DefaultGradient)
		if err != nil {
			v.logger.Error("face upload failed", "face", tag.Name, "error", err)
			return
		}
		v.uploadFace(tag.Index, buf)
	})
}

func (v *Viewer) uploadFace(i int, buf *render.Buffers) {
	v.unloadFace(i)

	mesh := rl.Mesh{
		VertexCount:   int32(buf.VertexCount()),
		TriangleCount: int32(buf.TriangleCount()),
		Vertices:      &buf.Vertices[0],
		Normals:       &buf.Normals[0],
		Colors:        &buf.Colors[0],
		Indices:       &buf.Indices[0],
	}
	rl.UploadMesh(&mesh, false)
	v.faces[i] = gpuFace{mesh: mesh, buf: buf, loaded: true}
}

func (v *Viewer) unloadFace(i int) {
	if !v.faces[i].loaded {
		return
	}
	rl.UnloadMesh(&v.faces[i].mesh)
	v.faces[i] = gpuFace{}
}

func (v *Viewer) drawPanel() {
	x := float32(rl.GetScreenWidth() - panelWidth - 10)
	y := float32(10)
	rl.DrawRectangle(int32(x)-10, 0, panelWidth+20, int32(rl.GetScreenHeight()), rl.Fade(rl.RayWhite, 0.85))

	rl.DrawText("Planet", int32(x), int32(y), 20, rl.DarkGray)
	y += 35

	res := v.slider(&y, x, "Resolution", fmt.Sprintf("%d", v.params.Resolution),
		float32(v.params.Resolution), 2, 128)
	if int(res) != v.params.Resolution {
		v.params.Resolution = int(res)
		v.needsRegen = true
	}

	radius := v.slider(&y, x, "Radius", fmt.Sprintf("%.2f", v.params.Radius),
		float32(v.params.Radius), 0.1, 5)
	if float64(radius) != v.params.Radius {
		v.params.Radius = float64(radius)
		v.needsRegen = true
	}

	for i, strength := range v.params.Strengths {
		label := fmt.Sprintf("Layer %d strength", i)
		if i < len(v.cfg.Planet.Layers) && v.cfg.Planet.Layers[i].Name != "" {
			label = v.cfg.Planet.Layers[i].Name + " strength"
		}
		ns := v.slider(&y, x, label, fmt.Sprintf("%.2f", strength), float32(strength), 0, 2)
		if float64(ns) != strength {
			v.params.Strengths[i] = float64(ns)
			v.needsRegen = true
		}
	}

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, "Reset") {
		v.params = ParamsFromConfig(&v.cfg.Planet)
		v.needsRegen = true
	}
	y += 45

	stats := v.perf.Stats()
	sh := v.store.Shading()
	lines := []string{
		fmt.Sprintf("Elevation: %.3f - %.3f", sh.MinHeight, sh.MaxHeight),
		fmt.Sprintf("Rebuild: %d us avg (%d)", stats.AvgDuration.Microseconds(), stats.Rebuilds),
		fmt.Sprintf("FPS: %.0f", stats.FPS),
	}
	if v.lastErr != nil {
		lines = append(lines, "Error: "+v.lastErr.Error())
	}
	for _, line := range lines {
		rl.DrawText(line, int32(x), int32(y), 14, rl.DarkGray)
		y += 20
	}
}

func (v *Viewer) slider(y *float32, x float32, label, value string, cur, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	out := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: panelWidth - 70, Height: 20},
		"", "",
		cur, lo, hi,
	)
	rl.DrawText(value, int32(x+panelWidth-60), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return out
}

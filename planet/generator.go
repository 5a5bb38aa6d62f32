package planet

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
)

// Phase names reported in Result.Phases.
const (
	PhaseValidate = "validate"
	PhaseFaces    = "faces"
	PhaseReduce   = "reduce"
	PhaseUpsert   = "upsert"
)

// Sink receives generated meshes. Implementations decide whether a face's
// underlying render resources are reused or recreated; the generator only
// guarantees that each face index is upserted once per rebuild, followed by
// one SetElevation call.
type Sink interface {
	UpsertFace(face Face, mesh *MeshData) error
	SetElevation(r ElevationRange) error
}

// FaceResult is one face of a generated planet.
type FaceResult struct {
	Face      Face
	Mesh      *MeshData
	Elevation ElevationRange
	Duration  time.Duration
}

// Result is a complete planet: all six faces and the global elevation range.
type Result struct {
	Faces     [NumFaces]FaceResult
	Elevation ElevationRange
	Duration  time.Duration
	Phases    map[string]time.Duration
}

// VertexCount returns the total number of vertices across all faces.
func (r *Result) VertexCount() int {
	n := 0
	for _, f := range r.Faces {
		n += len(f.Mesh.Vertices)
	}
	return n
}

// TriangleCount returns the total number of triangles across all faces.
func (r *Result) TriangleCount() int {
	n := 0
	for _, f := range r.Faces {
		n += f.Mesh.TriangleCount()
	}
	return n
}

// Options configures a Generator.
type Options struct {
	Workers int          // Concurrent face builds (0 = GOMAXPROCS, capped at 6)
	Logger  *slog.Logger // nil = slog.Default()
}

// Generator builds quad-sphere planets. Faces are built concurrently on a
// shared worker pool; a Generator is safe for concurrent use.
type Generator struct {
	mu       sync.RWMutex
	settings Settings

	faces  [NumFaces]Face
	pool   pond.Pool
	logger *slog.Logger
}

// NewGenerator validates settings and starts the worker pool.
// Call Close to release the pool.
func NewGenerator(s Settings, opts Options) (*Generator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > NumFaces {
		workers = NumFaces
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		settings: cloneSettings(s),
		faces:    Faces(),
		pool:     pond.NewPool(workers),
		logger:   logger,
	}, nil
}

// Settings returns a copy of the current settings.
func (g *Generator) Settings() Settings {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return cloneSettings(g.settings)
}

// Reconfigure replaces the settings used by subsequent builds. Builds already
// running keep the settings they started with.
func (g *Generator) Reconfigure(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	g.settings = cloneSettings(s)
	g.mu.Unlock()
	return nil
}

// Close stops the worker pool, waiting for running builds.
func (g *Generator) Close() {
	g.pool.StopAndWait()
}

// Generate builds all six faces. Either every face is built or an error is
// returned and nothing is; cancelling ctx abandons the whole batch.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	phases := make(map[string]time.Duration, 4)

	s := g.Settings()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	phases[PhaseValidate] = time.Since(start)

	facesStart := time.Now()
	var faces [NumFaces]FaceResult
	group := g.pool.NewGroupContext(ctx)
	for i, face := range g.faces {
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			mesh, elevation, err := face.Build(s.Resolution, s.Radius, s.Layers, s.Normals)
			if err != nil {
				return fmt.Errorf("building face %s: %w", face.Name(), err)
			}
			// Each task writes only its own slot
			faces[i] = FaceResult{Face: face, Mesh: mesh, Elevation: elevation, Duration: time.Since(t0)}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	phases[PhaseFaces] = time.Since(facesStart)

	reduceStart := time.Now()
	ranges := make([]ElevationRange, 0, NumFaces)
	for _, f := range faces {
		ranges = append(ranges, f.Elevation)
	}
	elevation := ReduceElevation(ranges...)
	phases[PhaseReduce] = time.Since(reduceStart)

	return &Result{
		Faces:     faces,
		Elevation: elevation,
		Duration:  time.Since(start),
		Phases:    phases,
	}, nil
}

// Rebuild generates the planet and hands every face to sink, then the global
// elevation range. Repeating a Rebuild with unchanged settings upserts the
// same meshes again.
func (g *Generator) Rebuild(ctx context.Context, sink Sink) (*Result, error) {
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}

	upsertStart := time.Now()
	for _, f := range res.Faces {
		if err := sink.UpsertFace(f.Face, f.Mesh); err != nil {
			return nil, fmt.Errorf("upserting face %s: %w", f.Face.Name(), err)
		}
	}
	if err := sink.SetElevation(res.Elevation); err != nil {
		return nil, fmt.Errorf("setting elevation: %w", err)
	}
	res.Phases[PhaseUpsert] = time.Since(upsertStart)
	res.Duration += res.Phases[PhaseUpsert]

	g.logger.Info("planet rebuilt",
		"faces", NumFaces,
		"vertices", res.VertexCount(),
		"triangles", res.TriangleCount(),
		"min_elevation", res.Elevation.Min,
		"max_elevation", res.Elevation.Max,
		"duration", res.Duration,
	)

	return res, nil
}

func cloneSettings(s Settings) Settings {
	out := s
	out.Layers = append(s.Layers[:0:0], s.Layers...)
	return out
}

// MultiSink fans one rebuild out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) UpsertFace(face Face, mesh *MeshData) error {
	for _, s := range m {
		if err := s.UpsertFace(face, mesh); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) SetElevation(r ElevationRange) error {
	for _, s := range m {
		if err := s.SetElevation(r); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/export"
	"github.com/pthm-cable/quadsphere/planet"
	"github.com/pthm-cable/quadsphere/scene"
	"github.com/pthm-cable/quadsphere/telemetry"
	"github.com/pthm-cable/quadsphere/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Generate without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, OBJ and config snapshot (empty = use config)")
	seed := flag.Int64("seed", 0, "Noise seed (0 = use config)")
	repeat := flag.Int("repeat", 1, "Headless rebuilds to run (for timing)")
	workers := flag.Int("workers", 0, "Concurrent face builds (0 = GOMAXPROCS)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Planet.Seed = *seed
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if !*headless {
		cfg.Planet.Resolution = viewer.ClampResolution(cfg.Planet.Resolution)
	}

	s, err := planet.SettingsFromConfig(&cfg.Planet)
	if err != nil {
		slog.Error("invalid planet config", "error", err)
		os.Exit(1)
	}
	gen, err := planet.NewGenerator(s, planet.Options{Workers: *workers, Logger: logger})
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}
	defer gen.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *headless {
		if err := runHeadless(ctx, cfg, gen, *repeat); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Viewer.Width), int32(cfg.Viewer.Height), "Quad Sphere")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Viewer.TargetFPS))

	v := viewer.New(cfg, gen, logger)
	defer v.Unload()
	v.Run(ctx)
}

func runHeadless(ctx context.Context, cfg *config.Config, gen *planet.Generator, repeat int) error {
	om, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	slog.Info("starting headless generation",
		"seed", cfg.Planet.Seed,
		"resolution", cfg.Planet.Resolution,
		"layers", cfg.Derived.ActiveLayers,
		"total_vertices", cfg.Derived.TotalVertices,
		"repeat", repeat,
	)

	store := scene.NewStore()
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	var last *planet.Result
	for i := 0; i < max(1, repeat); i++ {
		res, err := gen.Rebuild(ctx, store)
		if err != nil {
			return err
		}
		perf.Record(res)
		if err := om.WriteResult(res); err != nil {
			return err
		}
		if err := om.WritePerf(perf.Stats()); err != nil {
			return err
		}
		last = res
	}
	slog.Info("perf", "stats", perf.Stats())

	if cfg.Output.OBJ && om != nil {
		path := om.Path("planet.obj")
		if err := export.WriteOBJFile(path, last); err != nil {
			return err
		}
		slog.Info("exported mesh", "path", path)
	}
	return nil
}

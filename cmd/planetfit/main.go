// Command planetfit tunes one noise layer so the generated planet reaches a
// target relief, then writes the tuned config.
//
// Usage: go run ./cmd/planetfit -output out/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for the tuned config")
	maxEvals := flag.Int("max-evals", 0, "Maximum number of evaluations (0 = use config)")
	layer := flag.Int("layer", -1, "Layer index to tune (-1 = use config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		slog.Error("-output is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	base := config.Cfg()

	evals := base.Fit.MaxEvals
	if *maxEvals > 0 {
		evals = *maxEvals
	}
	layerIndex := base.Fit.Layer
	if *layer >= 0 {
		layerIndex = *layer
	}

	best, err := fit(base, layerIndex, evals, logger)
	if err != nil {
		slog.Error("fit failed", "error", err)
		os.Exit(1)
	}

	outPath := filepath.Join(*outputDir, "fitted_config.yaml")
	if err := best.WriteYAML(outPath); err != nil {
		slog.Error("failed to write config", "error", err)
		os.Exit(1)
	}
	slog.Info("fitted config saved", "path", outPath)
}

// fit runs Nelder-Mead over the layer parameters and returns a copy of base
// with the best parameters applied.
func fit(base *config.Config, layer, evals int, logger *slog.Logger) (*config.Config, error) {
	params := NewParamVector(layer)
	initX, err := params.FromConfig(base)
	if err != nil {
		return nil, err
	}

	s, err := planet.SettingsFromConfig(&base.Clone().Planet)
	if err != nil {
		return nil, fmt.Errorf("base config: %w", err)
	}
	gen, err := planet.NewGenerator(s, planet.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	defer gen.Close()

	evaluator := NewFitnessEvaluator(params, base, gen)

	evalCount := 0
	bestFitness := penalty
	var bestParams []float64
	start := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}
			logger.Info("eval",
				"n", evalCount,
				"relief", evaluator.LastRelief(),
				"fitness", fitness,
				"best", bestFitness,
			)
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: evals,
		Concurrent:      0,
	}
	logger.Info("starting fit",
		"layer", layer,
		"target_relief", base.Fit.TargetRelief,
		"resolution", base.Fit.Resolution,
		"max_evals", evals,
	)

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		logger.Warn("optimization ended", "error", err)
	}
	if bestParams == nil {
		if result == nil {
			return nil, fmt.Errorf("no evaluation succeeded: %w", err)
		}
		bestParams = params.Denormalize(result.X)
	}

	out := base.Clone()
	if err := params.ApplyToConfig(out, bestParams); err != nil {
		return nil, err
	}
	logger.Info("fit complete",
		"evals", evalCount,
		"fitness", bestFitness,
		"duration", time.Since(start),
	)
	return out, nil
}

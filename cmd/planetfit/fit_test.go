package main

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
)

func TestParamVectorRoundtrip(t *testing.T) {
	cfg := config.Defaults()
	pv := NewParamVector(0)

	x, err := pv.FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	raw := pv.Denormalize(x)
	if math.Abs(raw[0]-cfg.Planet.Layers[0].Strength) > 1e-12 {
		t.Errorf("strength %f, want %f", raw[0], cfg.Planet.Layers[0].Strength)
	}
	if math.Abs(raw[1]-cfg.Planet.Layers[0].Frequency) > 1e-12 {
		t.Errorf("frequency %f, want %f", raw[1], cfg.Planet.Layers[0].Frequency)
	}

	clamped := pv.Denormalize([]float64{-1, 2})
	if clamped[0] != pv.Specs[0].Min || clamped[1] != pv.Specs[1].Max {
		t.Errorf("expected clamping, got %v", clamped)
	}
}

func TestParamVectorBadLayer(t *testing.T) {
	if _, err := NewParamVector(9).FromConfig(config.Defaults()); err == nil {
		t.Error("expected error for missing layer")
	}
}

func TestFitImprovesRelief(t *testing.T) {
	base := config.Defaults()
	base.Fit.Resolution = 8
	base.Fit.TargetRelief = 0.05
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := planet.SettingsFromConfig(&base.Clone().Planet)
	if err != nil {
		t.Fatal(err)
	}
	gen, err := planet.NewGenerator(s, planet.Options{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	defer gen.Close()

	pv := NewParamVector(0)
	x0, _ := pv.FromConfig(base)
	before := NewFitnessEvaluator(pv, base, gen).Evaluate(pv.Denormalize(x0))

	best, err := fit(base, 0, 30, logger)
	if err != nil {
		t.Fatal(err)
	}
	x1, _ := pv.FromConfig(best)
	after := NewFitnessEvaluator(pv, base, gen).Evaluate(pv.Denormalize(x1))

	if after > before+1e-12 {
		t.Errorf("fit made relief worse: %g -> %g", before, after)
	}
}

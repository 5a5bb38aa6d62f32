package main

import (
	"context"
	"math"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
)

// penalty is returned for parameter sets that fail to build.
const penalty = 1e6

// FitnessEvaluator scores layer parameters by how close the generated
// planet's relief is to a target.
type FitnessEvaluator struct {
	params *ParamVector
	base   *config.Config
	target float64
	gen    *planet.Generator

	lastRelief float64
}

// NewFitnessEvaluator creates an evaluator that generates at base's fit resolution.
func NewFitnessEvaluator(params *ParamVector, base *config.Config, gen *planet.Generator) *FitnessEvaluator {
	return &FitnessEvaluator{
		params: params,
		base:   base,
		target: base.Fit.TargetRelief,
		gen:    gen,
	}
}

// Relief returns the elevation span relative to the radius.
func Relief(r planet.ElevationRange, radius float64) float64 {
	return r.Size() / radius
}

// Evaluate returns the squared relief error for raw parameter values.
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := e.base.Clone()
	cfg.Planet.Resolution = e.base.Fit.Resolution
	if err := e.params.ApplyToConfig(cfg, raw); err != nil {
		return penalty
	}

	s, err := planet.SettingsFromConfig(&cfg.Planet)
	if err != nil {
		return penalty
	}
	if err := e.gen.Reconfigure(s); err != nil {
		return penalty
	}
	res, err := e.gen.Generate(context.Background())
	if err != nil {
		return penalty
	}

	e.lastRelief = Relief(res.Elevation, cfg.Planet.Radius)
	return math.Pow(e.lastRelief-e.target, 2)
}

// LastRelief returns the relief of the most recent evaluation.
func (e *FitnessEvaluator) LastRelief() float64 {
	return e.lastRelief
}

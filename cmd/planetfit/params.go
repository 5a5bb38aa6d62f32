package main

import (
	"fmt"

	"github.com/pthm-cable/quadsphere/config"
)

// ParamSpec defines a single optimizable layer parameter.
type ParamSpec struct {
	Name string
	Min  float64
	Max  float64
	get  func(*config.NoiseLayerConfig) float64
	set  func(*config.NoiseLayerConfig, float64)
}

// ParamVector holds the optimizable parameters of one noise layer.
type ParamVector struct {
	Layer int
	Specs []ParamSpec
}

// NewParamVector creates the parameter set for the given layer.
func NewParamVector(layer int) *ParamVector {
	return &ParamVector{
		Layer: layer,
		Specs: []ParamSpec{
			{
				Name: "strength", Min: 0.01, Max: 2.0,
				get: func(l *config.NoiseLayerConfig) float64 { return l.Strength },
				set: func(l *config.NoiseLayerConfig, v float64) { l.Strength = v },
			},
			{
				Name: "frequency", Min: 0.1, Max: 8.0,
				get: func(l *config.NoiseLayerConfig) float64 { return l.Frequency },
				set: func(l *config.NoiseLayerConfig, v float64) { l.Frequency = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// FromConfig reads the current parameter values, normalized to [0,1].
func (pv *ParamVector) FromConfig(cfg *config.Config) ([]float64, error) {
	l, err := pv.layer(cfg)
	if err != nil {
		return nil, err
	}
	x := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		x[i] = (spec.get(l) - spec.Min) / (spec.Max - spec.Min)
	}
	return x, nil
}

// Denormalize converts [0,1] values to clamped raw parameter values.
func (pv *ParamVector) Denormalize(x []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := spec.Min + x[i]*(spec.Max-spec.Min)
		raw[i] = max(spec.Min, min(spec.Max, v))
	}
	return raw
}

// ApplyToConfig writes raw parameter values into the target layer.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) error {
	l, err := pv.layer(cfg)
	if err != nil {
		return err
	}
	for i, spec := range pv.Specs {
		spec.set(l, raw[i])
	}
	return nil
}

func (pv *ParamVector) layer(cfg *config.Config) (*config.NoiseLayerConfig, error) {
	if pv.Layer < 0 || pv.Layer >= len(cfg.Planet.Layers) {
		return nil, fmt.Errorf("layer %d out of range (%d layers)", pv.Layer, len(cfg.Planet.Layers))
	}
	return &cfg.Planet.Layers[pv.Layer], nil
}

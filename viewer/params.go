package viewer

import (
	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/render"
)

// Params holds the slider-editable subset of the planet config.
type Params struct {
	Resolution int
	Radius     float64
	Strengths  []float64 // one per layer
}

// ParamsFromConfig reads the editable values from cfg.
func ParamsFromConfig(cfg *config.PlanetConfig) Params {
	p := Params{
		Resolution: ClampResolution(cfg.Resolution),
		Radius:     cfg.Radius,
		Strengths:  make([]float64, len(cfg.Layers)),
	}
	for i, l := range cfg.Layers {
		p.Strengths[i] = l.Strength
	}
	return p
}

// Apply returns a copy of cfg with the edited values written back.
func (p Params) Apply(cfg *config.Config) *config.Config {
	out := cfg.Clone()
	out.Planet.Resolution = ClampResolution(p.Resolution)
	out.Planet.Radius = p.Radius
	for i := range out.Planet.Layers {
		if i < len(p.Strengths) {
			out.Planet.Layers[i].Strength = p.Strengths[i]
		}
	}
	return out
}

// ClampResolution keeps a resolution inside what a 16-bit index buffer can draw.
func ClampResolution(r int) int {
	return max(2, min(render.MaxResolution, r))
}

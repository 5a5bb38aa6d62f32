package viewer

import (
	"testing"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/render"
)

func TestClampResolution(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 2},
		{2, 2},
		{64, 64},
		{render.MaxResolution, render.MaxResolution},
		{1000, render.MaxResolution},
	}
	for _, tt := range tests {
		if got := ClampResolution(tt.in); got != tt.want {
			t.Errorf("ClampResolution(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParamsApply(t *testing.T) {
	cfg := config.Defaults()
	p := ParamsFromConfig(&cfg.Planet)
	if len(p.Strengths) != len(cfg.Planet.Layers) {
		t.Fatalf("got %d strengths, want %d", len(p.Strengths), len(cfg.Planet.Layers))
	}

	p.Resolution = 500
	p.Radius = 3
	p.Strengths[0] = 0

	out := p.Apply(cfg)
	if out.Planet.Resolution != render.MaxResolution || out.Planet.Radius != 3 {
		t.Errorf("unexpected planet %+v", out.Planet)
	}
	if out.Planet.Layers[0].Strength != 0 {
		t.Errorf("strength not applied")
	}
	if cfg.Planet.Layers[0].Strength == 0 {
		t.Errorf("Apply modified the source config")
	}
}

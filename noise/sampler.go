package noise

import (
	"fmt"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Sampler is a deterministic 2D gradient noise source returning values in [0,1].
// Implementations must be safe for concurrent use.
type Sampler interface {
	Sample(x, y float64) float64
}

// SamplerKind names a Sampler implementation in configuration.
type SamplerKind string

const (
	SamplerPerlin      SamplerKind = "perlin"
	SamplerAquilax     SamplerKind = "aquilax"
	SamplerOpenSimplex SamplerKind = "opensimplex"
)

// NewSampler builds the sampler named by kind. An empty kind selects Perlin.
func NewSampler(kind SamplerKind, seed int64) (Sampler, error) {
	switch kind {
	case SamplerPerlin, "":
		return NewPerlin(seed), nil
	case SamplerAquilax:
		return newAquilaxSampler(seed), nil
	case SamplerOpenSimplex:
		return simplexSampler{noise: opensimplex.NewNormalized(seed)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown sampler %q", ErrInvalidSettings, kind)
	}
}

// aquilaxSampler adapts github.com/aquilax/go-perlin. Octaves are handled by
// the layer filter, so the library generator runs a single octave.
type aquilaxSampler struct {
	p *perlin.Perlin
}

func newAquilaxSampler(seed int64) aquilaxSampler {
	return aquilaxSampler{p: perlin.NewPerlin(2, 2, 1, seed)}
}

func (s aquilaxSampler) Sample(x, y float64) float64 {
	return clamp01((s.p.Noise2D(x, y) + 1) * 0.5)
}

// simplexSampler adapts a normalized opensimplex generator, already in [0,1).
type simplexSampler struct {
	noise opensimplex.Noise
}

func (s simplexSampler) Sample(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}

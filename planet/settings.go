package planet

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/noise"
)

// Settings fully determines a generated planet.
type Settings struct {
	Resolution int
	Radius     float64
	Normals    NormalMode
	Layers     []noise.Filter
}

// Validate checks the settings before any mesh buffers are allocated.
func (s Settings) Validate() error {
	return validateBuild(s.Resolution, s.Radius, s.Layers, s.Normals)
}

// SettingsFromConfig builds validated Settings from the planet section of the config.
func SettingsFromConfig(cfg *config.PlanetConfig) (Settings, error) {
	src, err := noise.NewSampler(noise.SamplerKind(cfg.Sampler), cfg.Seed)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	mode := NormalMode(cfg.Normals)
	if mode == "" {
		mode = NormalsRecalculated
	}

	s := Settings{
		Resolution: cfg.Resolution,
		Radius:     cfg.Radius,
		Normals:    mode,
		Layers:     make([]noise.Filter, 0, len(cfg.Layers)),
	}

	for i, l := range cfg.Layers {
		ns := LayerSettings(l)
		if err := checkLayer(i, ns); err != nil {
			return Settings{}, err
		}
		f, err := noise.NewFilter(noise.Policy(cfg.Policy), ns, src)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		s.Layers = append(s.Layers, f)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LayerSettings converts a configured layer into noise settings.
func LayerSettings(l config.NoiseLayerConfig) noise.Settings {
	return noise.Settings{
		Frequency:     l.Frequency,
		Strength:      l.Strength,
		Octaves:       l.Octaves,
		Lacunarity:    l.Lacunarity,
		Persistence:   l.Persistence,
		Offset:        r3.Vec{X: l.Offset[0], Y: l.Offset[1], Z: l.Offset[2]},
		MinimumHeight: l.MinimumHeight,
	}
}

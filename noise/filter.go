// Package noise evaluates layered gradient noise on the unit sphere.
//
// A layer samples six 2D noise planes spanned by every ordered pair of the
// point's coordinates and averages them, which gives a cheap 3D field from a
// 2D generator. Octaves stack higher frequencies on top of the base layer.
package noise

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxOctaves bounds Settings.Octaves.
const MaxOctaves = 6

var (
	// ErrInvalidSettings reports a structurally invalid layer (octave bounds, unknown names).
	ErrInvalidSettings = errors.New("invalid noise settings")
	// ErrDegenerate reports parameters that would produce non-finite output.
	ErrDegenerate = errors.New("degenerate noise settings")
)

// Settings configures one noise layer. Settings are values and are never
// mutated after construction, so layers can be shared between faces.
type Settings struct {
	Frequency     float64
	Strength      float64
	Octaves       int
	Lacunarity    float64
	Persistence   float64
	Offset        r3.Vec
	MinimumHeight float64
}

// Inert reports whether the layer contributes nothing to elevation.
// A zero-strength layer is skipped by the mesh builder instead of adding the
// neutral +0.5 recentring term.
func (s Settings) Inert() bool {
	return s.Strength == 0
}

// Validate checks the layer can be evaluated without producing NaN or Inf.
func (s Settings) Validate() error {
	if s.Octaves < 1 || s.Octaves > MaxOctaves {
		return fmt.Errorf("%w: octaves %d outside [1,%d]", ErrInvalidSettings, s.Octaves, MaxOctaves)
	}
	if !(s.Frequency > 0) || math.IsInf(s.Frequency, 0) {
		return fmt.Errorf("%w: frequency %v must be positive and finite", ErrDegenerate, s.Frequency)
	}
	if !(s.Lacunarity > 0) || math.IsInf(s.Lacunarity, 0) {
		return fmt.Errorf("%w: lacunarity %v must be positive and finite", ErrDegenerate, s.Lacunarity)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"strength", s.Strength},
		{"persistence", s.Persistence},
		{"minimum height", s.MinimumHeight},
		{"offset x", s.Offset.X},
		{"offset y", s.Offset.Y},
		{"offset z", s.Offset.Z},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrDegenerate, f.name, f.v)
		}
	}
	return nil
}

// Filter evaluates a layer at a point on the unit sphere. Filters are pure:
// identical input always yields identical output, and they are safe for
// concurrent use.
type Filter interface {
	Evaluate(point r3.Vec) float64
	Settings() Settings
}

// Policy selects how octaves are combined into a layer value.
type Policy string

const (
	// PolicyCompounding scales each octave by a running strength that decays
	// by persistence, then clamps the result to the minimum height.
	PolicyCompounding Policy = "compounding"
	// PolicyAveraged ignores persistence and the floor and divides the octave
	// sum by the octave count.
	PolicyAveraged Policy = "averaged"
)

// NewFilter builds a filter for the given policy. An empty policy selects
// PolicyCompounding. Settings are not validated here; see Settings.Validate.
func NewFilter(policy Policy, s Settings, src Sampler) (Filter, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil sampler", ErrInvalidSettings)
	}
	switch policy {
	case PolicyCompounding, "":
		return compoundingFilter{s: s, src: src}, nil
	case PolicyAveraged:
		return averagedFilter{s: s, src: src}, nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidSettings, policy)
	}
}

// Evaluate runs the canonical compounding policy for one point.
func Evaluate(s Settings, src Sampler, point r3.Vec) float64 {
	return compoundingFilter{s: s, src: src}.Evaluate(point)
}

type compoundingFilter struct {
	s   Settings
	src Sampler
}

func (f compoundingFilter) Settings() Settings { return f.s }

func (f compoundingFilter) Evaluate(point r3.Vec) float64 {
	p := r3.Add(point, f.s.Offset)
	total := 0.0
	freq := f.s.Frequency
	strength := f.s.Strength

	for i := 0; i < f.s.Octaves; i++ {
		total += planes(f.src, r3.Scale(freq, p)) * strength
		freq *= f.s.Lacunarity
		strength *= f.s.Persistence
	}

	return math.Max(f.s.MinimumHeight, total*f.s.Strength)
}

type averagedFilter struct {
	s   Settings
	src Sampler
}

func (f averagedFilter) Settings() Settings { return f.s }

func (f averagedFilter) Evaluate(point r3.Vec) float64 {
	if f.s.Octaves <= 0 {
		return 0
	}
	p := r3.Add(point, f.s.Offset)
	total := 0.0
	freq := f.s.Frequency

	for i := 0; i < f.s.Octaves; i++ {
		total += planes(f.src, r3.Scale(freq, p))
		freq *= f.s.Lacunarity
	}

	return total / float64(f.s.Octaves) * f.s.Strength
}

// planes averages the six axis-pair samples of q.
func planes(src Sampler, q r3.Vec) float64 {
	sum := src.Sample(q.X, q.Y) +
		src.Sample(q.X, q.Z) +
		src.Sample(q.Y, q.X) +
		src.Sample(q.Y, q.Z) +
		src.Sample(q.Z, q.X) +
		src.Sample(q.Z, q.Y)
	return sum / 6
}

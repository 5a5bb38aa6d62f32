// Package config provides configuration loading and access for planet generation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all generation configuration parameters.
type Config struct {
	Planet    PlanetConfig    `yaml:"planet"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Output    OutputConfig    `yaml:"output"`
	Stream    StreamConfig    `yaml:"stream"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Fit       FitConfig       `yaml:"fit"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PlanetConfig holds the parameters that fully determine a generated planet.
type PlanetConfig struct {
	Resolution int                `yaml:"resolution"` // Grid points per face edge (2-256)
	Radius     float64            `yaml:"radius"`     // Undisplaced sphere radius
	Normals    string             `yaml:"normals"`    // "recalculated" or "sphere"
	Policy     string             `yaml:"policy"`     // "compounding" or "averaged"
	Sampler    string             `yaml:"sampler"`    // "perlin", "aquilax" or "opensimplex"
	Seed       int64              `yaml:"seed"`       // Sampler seed
	Layers     []NoiseLayerConfig `yaml:"layers"`
}

// NoiseLayerConfig holds one layer of elevation noise.
type NoiseLayerConfig struct {
	Name          string     `yaml:"name"`
	Frequency     float64    `yaml:"frequency"`      // Base sample frequency
	Strength      float64    `yaml:"strength"`       // Peak scale; 0 disables the layer
	Octaves       int        `yaml:"octaves"`        // 1-6
	Lacunarity    float64    `yaml:"lacunarity"`     // Frequency multiplier per octave
	Persistence   float64    `yaml:"persistence"`    // Strength multiplier per octave
	Offset        [3]float64 `yaml:"offset,flow"`    // Sample origin shift, breaks noise mirroring
	MinimumHeight float64    `yaml:"minimum_height"` // Floor on the layer output (sea level)
}

// ViewerConfig holds display settings for the interactive viewer.
type ViewerConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// OutputConfig holds headless output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty disables file output
	OBJ bool   `yaml:"obj"` // Also export planet.obj
}

// StreamConfig holds websocket streaming settings.
type StreamConfig struct {
	Addr         string  `yaml:"addr"`
	WriteTimeout float64 `yaml:"write_timeout"` // Seconds
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Rebuilds averaged by the perf collector
}

// FitConfig holds relief calibration parameters.
type FitConfig struct {
	TargetRelief float64 `yaml:"target_relief"` // (max-min)/radius to aim for
	Resolution   int     `yaml:"resolution"`    // Probe resolution per evaluation
	MaxEvals     int     `yaml:"max_evals"`
	Layer        int     `yaml:"layer"` // Index of the layer whose strength and frequency are tuned
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	VerticesPerFace int // Resolution^2
	IndicesPerFace  int // 6*(Resolution-1)^2
	TotalVertices   int // 6 faces
	TotalTriangles  int // 6 faces
	ActiveLayers    int // Layers with non-zero strength
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// Parse overlays YAML data onto cfg. Fields absent from data keep their values,
// except planet.layers which is replaced as a whole when present.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	cfg.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	r := c.Planet.Resolution
	c.Derived.VerticesPerFace = r * r
	c.Derived.IndicesPerFace = 0
	if r > 1 {
		c.Derived.IndicesPerFace = 6 * (r - 1) * (r - 1)
	}
	c.Derived.TotalVertices = 6 * c.Derived.VerticesPerFace
	c.Derived.TotalTriangles = 6 * c.Derived.IndicesPerFace / 3

	c.Derived.ActiveLayers = 0
	for _, l := range c.Planet.Layers {
		if l.Strength != 0 {
			c.Derived.ActiveLayers++
		}
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Planet.Layers = append([]NoiseLayerConfig(nil), c.Planet.Layers...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

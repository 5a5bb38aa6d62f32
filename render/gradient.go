package render

import (
	"image/color"
	"math"
	"sort"
)

// Stop is one color of a gradient at position T in [0,1].
type Stop struct {
	T     float64
	Color color.RGBA
}

// Gradient maps a normalized elevation to a color by linear interpolation
// between stops. Stops must be sorted by T.
type Gradient []Stop

// DefaultGradient runs from deep water through sand and grass to snow.
var DefaultGradient = Gradient{
	{0.00, color.RGBA{22, 54, 110, 255}},
	{0.30, color.RGBA{48, 110, 170, 255}},
	{0.36, color.RGBA{210, 196, 140, 255}},
	{0.50, color.RGBA{86, 140, 64, 255}},
	{0.75, color.RGBA{110, 92, 70, 255}},
	{1.00, color.RGBA{245, 245, 250, 255}},
}

// At returns the color at t, clamping outside the first and last stop.
// An empty gradient is white.
func (g Gradient) At(t float64) color.RGBA {
	if len(g) == 0 {
		return color.RGBA{255, 255, 255, 255}
	}
	if t <= g[0].T {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.T {
		return last.Color
	}

	i := sort.Search(len(g), func(i int) bool { return g[i].T >= t })
	a, b := g[i-1], g[i]
	f := (t - a.T) / (b.T - a.T)
	return color.RGBA{
		R: lerp8(a.Color.R, b.Color.R, f),
		G: lerp8(a.Color.G, b.Color.G, f),
		B: lerp8(a.Color.B, b.Color.B, f),
		A: lerp8(a.Color.A, b.Color.A, f),
	}
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

func norm(x, y, z float64) float64 {
	return math.Sqrt(x*x + y*y + z*z)
}

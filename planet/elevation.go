package planet

import "math"

// ElevationRange tracks the minimum and maximum vertex distance from the
// planet center. The zero value is not usable; start from NewElevationRange.
type ElevationRange struct {
	Min float64
	Max float64
}

// NewElevationRange returns the empty range sentinel (+Inf, -Inf).
func NewElevationRange() ElevationRange {
	return ElevationRange{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Add widens the range to include v.
func (r *ElevationRange) Add(v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// Merge widens the range to include other. Merging an empty range is a no-op.
func (r *ElevationRange) Merge(other ElevationRange) {
	if other.Empty() {
		return
	}
	r.Add(other.Min)
	r.Add(other.Max)
}

// Empty reports whether no value has been added yet.
func (r ElevationRange) Empty() bool {
	return r.Min > r.Max
}

// Size returns Max-Min, or 0 for an empty range.
func (r ElevationRange) Size() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max - r.Min
}

// ReduceElevation merges per-face ranges into one global range.
func ReduceElevation(ranges ...ElevationRange) ElevationRange {
	out := NewElevationRange()
	for _, r := range ranges {
		out.Merge(r)
	}
	return out
}

// ShadingParams parameterizes an elevation color mapping.
type ShadingParams struct {
	MinHeight float64
	MaxHeight float64
	RangeSize float64
}

// Shading derives shading parameters from the range.
func (r ElevationRange) Shading() ShadingParams {
	return ShadingParams{MinHeight: r.Min, MaxHeight: r.Max, RangeSize: r.Size()}
}

// Normalize maps an elevation into [0,1] across the shading range.
// A flat planet maps everything to 0.
func (s ShadingParams) Normalize(h float64) float64 {
	if s.RangeSize <= 0 {
		return 0
	}
	t := (h - s.MinHeight) / s.RangeSize
	return math.Max(0, math.Min(1, t))
}

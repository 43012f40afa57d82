package scroll

import "math"

// ComputeScrollPercent converts a scroll offset into a fraction of the scrollable extent.
// Content that fits in the viewport (extent <= 0) always maps to 0.
func ComputeScrollPercent(offset, documentHeight, viewportHeight float64) float64 {
	extent := documentHeight - viewportHeight
	if extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0
	}
	return Clamp01(offset / extent)
}

// Clamp01 clamps p to [0,1]; NaN maps to 0
func Clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p), p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	return p
}

package renderer

import (
	"sort"

	"github.com/ivlev/lobbyreel/internal/director"
)

// InterpolateKeyframes returns the scroll offset (pixels) at time t. Offsets
// ease between neighbouring keyframes and hold outside the script.
func InterpolateKeyframes(keyframes []director.Keyframe, t float64) float64 {
	n := len(keyframes)
	switch {
	case n == 0:
		return 0
	case t <= keyframes[0].Time:
		return keyframes[0].Offset
	case t >= keyframes[n-1].Time:
		return keyframes[n-1].Offset
	}

	// first keyframe strictly after t; keyframes[0].Time < t guarantees i >= 1
	i := sort.Search(n, func(i int) bool { return keyframes[i].Time > t })
	from, to := keyframes[i-1], keyframes[i]

	span := to.Time - from.Time
	if span == 0 {
		return to.Offset
	}
	// smooth in-out, like a wheel scroll settling
	return lerp(from.Offset, to.Offset, easeInOutCubic((t-from.Time)/span))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2 - 2*t
	return 1 - u*u*u/2
}
